package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// New wires the Gin engine with the dashboard API, the WhatsApp webhook and
// the health probe.
func New(api *handlers.APIHandler, webhook *handlers.WebhookHandler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/webhook", webhook.Verify)
	r.POST("/webhook", webhook.Receive)
	r.POST("/send-message", webhook.SendMessage)

	v1 := r.Group("/api")
	{
		v1.GET("/session", api.GetProfile)
		v1.POST("/session", api.Login)
		v1.DELETE("/session", api.Logout)
		v1.GET("/profile", api.GetProfile)
		v1.PUT("/profile", api.UpdateProfile)

		v1.GET("/farms", api.ListFarms)
		v1.POST("/farms", api.CreateFarm)
		v1.POST("/farms/:id/select", api.SelectFarm)

		v1.GET("/animal-types", api.ListAnimalTypes)
		v1.POST("/animal-types", api.CreateAnimalType)
		v1.GET("/animal-types/:id", api.GetAnimalType)
		v1.PUT("/animal-types/:id", api.UpdateAnimalType)
		v1.DELETE("/animal-types/:id", api.DeleteAnimalType)
		v1.POST("/animal-types/:id/select", api.SelectAnimalType)

		v1.GET("/records/:kind", api.ListRecords)
		v1.POST("/records/:kind", api.CreateRecord)
		v1.GET("/records/:kind/:id", api.GetRecord)
		v1.PUT("/records/:kind/:id", api.UpdateRecord)
		v1.DELETE("/records/:kind/:id", api.DeleteRecord)

		v1.GET("/notifications", api.ListNotifications)
		v1.GET("/notifications/unread-count", api.UnreadCount)
		v1.POST("/notifications/:id/read", api.MarkNotificationRead)
		v1.DELETE("/notifications/:id", api.ClearNotification)

		v1.GET("/settings/notifications", api.GetNotificationSettings)
		v1.PUT("/settings/notifications", api.UpdateNotificationSettings)
		v1.GET("/preferences", api.GetPreferences)
		v1.PUT("/preferences", api.UpdatePreferences)

		v1.GET("/analytics/trends", api.Trends)
		v1.GET("/analytics/stats", api.Stats)
		v1.GET("/analytics/compare", api.Compare)
		v1.GET("/calendar", api.Calendar)

		v1.GET("/reports/text", api.TextReport)
		v1.GET("/reports/xlsx", api.ExcelReport)
		v1.GET("/reports/history", api.ReportHistory)
	}

	logger.Info("router initialized", zap.Int("routes", len(r.Routes())))

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
