package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"miniapp-shop/internal/domain"
	ordersvc "miniapp-shop/internal/service/order"
	"miniapp-shop/internal/telegram"
)

type catalogService interface {
	Info(ctx context.Context) (*domain.ShopInfo, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Menu(ctx context.Context, categoryID string) ([]domain.MenuItem, error)
	Item(ctx context.Context, id string) (*domain.MenuItem, error)
}

type orderService interface {
	Authenticate(initData string) error
	Place(ctx context.Context, in ordersvc.PlaceInput) (*ordersvc.Placed, error)
}

type updateHandler interface {
	Handle(ctx context.Context, upd tgbotapi.Update)
}

// Deps are the services behind the routes. UpdateHandler may be nil when the
// bot runs in polling mode. When WebhookSecret is set, webhook deliveries
// without a matching secret header are dropped.
type Deps struct {
	CatalogSvc     catalogService
	OrderSvc       orderService
	UpdateHandler  updateHandler
	WebhookSecret  string
	AllowedOrigins []string
	ReadyChecks    map[string]ReadyCheck
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if deps.CatalogSvc == nil {
		return nil, errors.New("catalog service is required")
	}
	if deps.OrderSvc == nil {
		return nil, errors.New("order service is required")
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: deps.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.ReadyChecks))

	catalog := catalogHandlers{svc: deps.CatalogSvc, logger: logger}
	router.GET("/info", catalog.info)
	router.GET("/categories", catalog.categories)
	router.GET("/menu/:categoryId", catalog.menu)
	router.GET("/menu/details/:itemId", catalog.item)

	router.POST("/order", orderHandler(deps.OrderSvc, logger))
	router.POST(telegram.WebhookPath, webhookHandler(deps.UpdateHandler, deps.WebhookSecret, logger))

	return router, nil
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
