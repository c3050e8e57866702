package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"miniapp-shop/internal/domain"
)

type catalogHandlers struct {
	svc    catalogService
	logger *log.Logger
}

func (h catalogHandlers) info(c *gin.Context) {
	info, err := h.svc.Info(c.Request.Context())
	h.respond(c, info, err, "Could not find cafe information.")
}

func (h catalogHandlers) categories(c *gin.Context) {
	list, err := h.svc.Categories(c.Request.Context())
	h.respond(c, list, err, "Could not find categories list.")
}

func (h catalogHandlers) menu(c *gin.Context) {
	id := c.Param("categoryId")
	items, err := h.svc.Menu(c.Request.Context(), id)
	h.respond(c, items, err, fmt.Sprintf("Could not find `%s` category data.", id))
}

func (h catalogHandlers) item(c *gin.Context) {
	id := c.Param("itemId")
	item, err := h.svc.Item(c.Request.Context(), id)
	h.respond(c, item, err, fmt.Sprintf("Could not find `%s` menu item.", id))
}

func (h catalogHandlers) respond(c *gin.Context, body any, err error, notFound string) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, body)
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, notFound)
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		h.logger.Printf("catalog: %s error=%v", c.FullPath(), err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
