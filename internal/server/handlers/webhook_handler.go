package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	service "github.com/mamadbah2/farmdash/internal/service/whatsapp"
)

// businessAccountObject is the only webhook object type carrying messages.
const businessAccountObject = "whatsapp_business_account"

// verifyQuery is the subscription handshake Meta sends on GET /webhook.
type verifyQuery struct {
	Mode      string `form:"hub.mode"`
	Token     string `form:"hub.verify_token"`
	Challenge string `form:"hub.challenge"`
}

// WebhookHandler exposes the WhatsApp companion over HTTP.
type WebhookHandler struct {
	svc    service.MessagingService
	logger *zap.Logger
}

// NewWebhookHandler wraps the messaging service.
func NewWebhookHandler(svc service.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, logger: logger}
}

// Verify echoes hub.challenge when the verify token matches.
func (h *WebhookHandler) Verify(c *gin.Context) {
	var q verifyQuery
	_ = c.ShouldBindQuery(&q)

	challenge, err := h.svc.VerifyWebhookToken(q.Mode, q.Token, q.Challenge)
	if err != nil {
		h.logger.Warn("webhook subscription rejected", zap.Error(err), zap.String("mode", q.Mode))
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	h.logger.Info("webhook subscription verified")
	c.String(http.StatusOK, challenge)
}

// Receive runs the commands carried by a webhook callback. Errors answer 500 so
// Meta retries; messages already handled are skipped on the retry.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}
	if payload.Object != "" && payload.Object != businessAccountObject {
		h.logger.Debug("ignoring webhook object", zap.String("object", payload.Object))
		c.Status(http.StatusOK)
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process webhook"})
		return
	}
	c.Status(http.StatusOK)
}

// SendMessage pushes a manual message to one WhatsApp number.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}

	err := h.svc.SendOutbound(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{"status": "sent", "to": req.To})
	case errors.Is(err, service.ErrDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "whatsapp is not configured"})
	default:
		h.logger.Error("outbound message failed", zap.Error(err), zap.String("to", req.To))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
	}
}
