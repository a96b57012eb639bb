package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/shopbot/internal/domain/dialog"
	"github.com/yanqian/shopbot/internal/domain/reply"
)

// MessageSender pushes a reply back to a chat provider.
type MessageSender interface {
	HasToken() bool
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	replySvc      reply.Service
	dialogSvc     dialog.Service
	sender        MessageSender
	webhookSecret string
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(replySvc reply.Service, dialogSvc dialog.Service, sender MessageSender, webhookSecret string, logger *slog.Logger) *Handler {
	return &Handler{
		replySvc:      replySvc,
		dialogSvc:     dialogSvc,
		sender:        sender,
		webhookSecret: webhookSecret,
		logger:        logger.With("component", "http.handler"),
	}
}

type replyRequest struct {
	Query string `json:"query"`
}

// Reply answers one query as JSON.
func (h *Handler) Reply(c *gin.Context) {
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, h.replySvc.Answer(c.Request.Context(), req.Query))
}

// Lex answers an Amazon Lex V2 code hook.
func (h *Handler) Lex(c *gin.Context) {
	var event dialog.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.dialogSvc.Handle(c.Request.Context(), event)
	if err != nil {
		abortWithError(c, fromAppError(err, "dialog_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
