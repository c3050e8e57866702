package httpserver

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"miniapp-shop/internal/telegram"
)

// webhookHandler acknowledges every delivery so Telegram does not retry
// updates the bot could not act on. Deliveries that fail the secret check
// are acknowledged but never handled.
func webhookHandler(h updateHandler, secret string, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader(telegram.SecretHeader)), []byte(secret)) != 1 {
			logger.Printf("webhook: secret token mismatch from %s", c.ClientIP())
			c.JSON(http.StatusOK, gin.H{"message": "OK"})
			return
		}

		var upd tgbotapi.Update
		if err := c.ShouldBindJSON(&upd); err != nil {
			logger.Printf("webhook: decode update error=%v", err)
		} else if h != nil {
			h.Handle(c.Request.Context(), upd)
		}
		c.JSON(http.StatusOK, gin.H{"message": "OK"})
	}
}
