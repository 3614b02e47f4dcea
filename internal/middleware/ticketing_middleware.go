package middleware

import (
	"github.com/farellandr/ticketdesk/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	serviceKey  = "ticketing_service"
	qrSecretKey = "qr_secret"
)

// TicketingMiddleware exposes the ticketing service and the QR signing key
// to handlers.
func TicketingMiddleware(svc *service.Service, qrSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(serviceKey, svc)
		c.Set(qrSecretKey, qrSecret)
		c.Next()
	}
}

func GetService(c *gin.Context) *service.Service {
	svc, exists := c.Get(serviceKey)
	if !exists {
		return nil
	}
	return svc.(*service.Service)
}

func GetQRSecret(c *gin.Context) string {
	return c.GetString(qrSecretKey)
}
