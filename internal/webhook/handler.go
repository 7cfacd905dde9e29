package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ycfang/orderbot/internal/dispatcher"
	"github.com/ycfang/orderbot/internal/domain/entity"
	"github.com/ycfang/orderbot/internal/repository"
)

// callback mirrors the LINE webhook payload; only text message events
// are acted on, everything else is acknowledged and dropped.
type callback struct {
	Destination string  `json:"destination"`
	Events      []event `json:"events"`
}

type event struct {
	Type       string         `json:"type"`
	ReplyToken string         `json:"replyToken"`
	Source     eventSource    `json:"source"`
	Message    messageContent `json:"message"`
}

type eventSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
}

type messageContent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Handler is the webhook endpoint.
type Handler struct {
	verifier   *Verifier
	dispatcher *dispatcher.Dispatcher
	messages   *repository.MessageRepository
	messenger  Replier
	logger     *zap.Logger
}

// Replier is the slice of the messenger the webhook needs.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
	ReplyImage(ctx context.Context, replyToken, originalURL, previewURL string) error
}

// NewHandler creates the webhook handler.
func NewHandler(
	verifier *Verifier,
	d *dispatcher.Dispatcher,
	messages *repository.MessageRepository,
	messenger Replier,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		verifier:   verifier,
		dispatcher: d,
		messages:   messages,
		messenger:  messenger,
		logger:     logger,
	}
}

// Handle processes one callback POST. Replies 400 on a bad signature
// so LINE retries nothing; per-event failures are logged, never
// surfaced, because the platform treats non-200 as delivery failure
// for the whole batch.
func (h *Handler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	if !h.verifier.Verify(body, c.GetHeader("X-Line-Signature")) {
		h.logger.Warn("Webhook signature verification failed")
		c.String(http.StatusBadRequest, "invalid signature")
		return
	}

	var cb callback
	if err := json.Unmarshal(body, &cb); err != nil {
		h.logger.Warn("Failed to decode webhook payload", zap.Error(err))
		c.String(http.StatusBadRequest, "bad payload")
		return
	}

	for _, ev := range cb.Events {
		if ev.Type != "message" || ev.Message.Type != entity.MessageTypeText {
			continue
		}
		h.handleText(c.Request.Context(), ev)
	}
	c.String(http.StatusOK, "OK")
}

func (h *Handler) handleText(ctx context.Context, ev event) {
	text := strings.TrimSpace(ev.Message.Text)

	// Audit every inbound message before dispatch; audit failure is
	// logged but never blocks command handling.
	msg := &entity.LineMessage{
		Type:    entity.MessageTypeText,
		Content: text,
		UserID:  ev.Source.UserID,
		GroupID: ev.Source.GroupID,
	}
	if err := h.messages.Create(ctx, msg); err != nil {
		h.logger.Error("Failed to record inbound message", zap.Error(err))
	}

	reply, matched := h.dispatcher.Dispatch(ctx, &dispatcher.Request{
		Text:    text,
		UserID:  ev.Source.UserID,
		GroupID: ev.Source.GroupID,
	})
	if !matched {
		return
	}

	if msg.ID != 0 {
		if err := h.messages.MarkProcessed(ctx, msg.ID); err != nil {
			h.logger.Error("Failed to mark message processed", zap.Error(err))
		}
	}

	if reply.Empty() {
		return
	}

	var sendErr error
	if reply.ImageURL != "" {
		sendErr = h.messenger.ReplyImage(ctx, ev.ReplyToken, reply.ImageURL, reply.ImageURL)
	} else {
		sendErr = h.messenger.Reply(ctx, ev.ReplyToken, reply.Text)
	}
	if sendErr != nil {
		h.logger.Error("Failed to send reply",
			zap.String("user_id", ev.Source.UserID),
			zap.Error(sendErr))
	}
}
