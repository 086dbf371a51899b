package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/config"
	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/service/commands"
	client "github.com/mamadbah2/farmdash/pkg/clients/whatsapp"
)

// ErrDisabled is returned by outbound sends when WhatsApp is not configured.
var ErrDisabled = errors.New("whatsapp messaging is disabled")

const sendTimeout = 10 * time.Second

// MessagingService describes the operations the HTTP layer and scheduler use.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	sessions   *SessionManager
	allowed    map[string]bool
	logger     *zap.Logger
	now        func() time.Time
}

// NewMetaWhatsAppService wires a new service instance. A nil client disables
// outbound messages; inbound commands are still executed.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, c client.Client, dispatcher commands.Dispatcher, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     c,
		dispatcher: dispatcher,
		sessions:   NewSessionManager(),
		logger:     logger,
		now:        time.Now,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if len(cfg.AllowedSenders) > 0 {
		svc.allowed = make(map[string]bool, len(cfg.AllowedSenders))
		for _, s := range cfg.AllowedSenders {
			svc.allowed[s] = true
		}
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if s.cfg.VerifyToken == "" || verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads. Every message is attempted;
// the first failure is returned.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, st := range change.Value.Statuses {
				s.logger.Debug("delivery status", zap.String("message_id", st.ID), zap.String("status", st.Status))
			}

			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	if s.allowed != nil && !s.allowed[msg.From] {
		s.logger.Warn("ignoring message from unknown sender", zap.String("from", msg.From))
		return nil
	}
	if s.sessions.Seen(msg.From, msg.ID, s.now()) {
		s.logger.Debug("duplicate delivery ignored", zap.String("message_id", msg.ID))
		return nil
	}

	text := msg.Body()
	if text == "" {
		s.logger.Debug("ignoring message without text", zap.String("type", msg.Type))
		return nil
	}

	cmd := models.ParseCommand(text)
	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply, err := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
	if err != nil {
		reply = replyForError(err)
		if reply == "" {
			s.logger.Error("command failed", zap.Error(err), zap.String("command", string(cmd.Type)))
			reply = "Sorry, something went wrong while handling your command."
		}
	}

	return s.send(ctx, msg.From, reply, false)
}

// SendOutbound lets internal operators and the scheduler push messages.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	return s.send(ctx, req.To, req.Message, req.PreviewURL)
}

func (s *MetaWhatsAppService) send(ctx context.Context, to, body string, previewURL bool) error {
	if s.client == nil {
		return ErrDisabled
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         to,
		Body:       body,
		PreviewURL: previewURL,
	})
	return err
}

// replyForError turns user mistakes into a reply. Other errors yield "".
func replyForError(err error) string {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, commands.ErrInvalidArguments):
		return "Invalid arguments. " + strings.TrimPrefix(err.Error(), commands.ErrInvalidArguments.Error()+": ")
	case errors.Is(err, models.ErrNotFound):
		return "Not found: " + err.Error()
	case errors.As(err, &verr):
		return "Could not save: " + verr.Error()
	}
	return ""
}

// ExpireSessions forgets senders that have been quiet for longer than idle.
func (s *MetaWhatsAppService) ExpireSessions(idle time.Duration) int {
	return s.sessions.Expire(s.now().Add(-idle))
}
