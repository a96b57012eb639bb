package http

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/shopbot/internal/infra/telegram"
)

const (
	maxWebhookBody       = 1 << 20
	telegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// Webhook is the single chat endpoint. It serves a Telegram update, a
// Twilio-style form post or a plain JSON {"message"} body, checked in that
// order.
func (h *Handler) Webhook(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "unable to read body", err))
		return
	}

	var update telegram.Update
	if json.Unmarshal(raw, &update) == nil {
		if chatID, text, ok := update.Incoming(); ok {
			h.telegramUpdate(c, chatID, text)
			return
		}
	}

	if strings.Contains(strings.ToLower(c.GetHeader("Content-Type")), "application/x-www-form-urlencoded") {
		h.formMessage(c, raw)
		return
	}

	var plain struct {
		Message string `json:"message"`
	}
	// an unreadable body is answered like an empty query
	_ = json.Unmarshal(raw, &plain)
	answer := h.replySvc.Answer(c.Request.Context(), plain.Message)
	c.JSON(http.StatusOK, gin.H{"reply": answer.Text})
}

func (h *Handler) telegramUpdate(c *gin.Context, chatID int64, text string) {
	if h.webhookSecret != "" && c.GetHeader(telegramSecretHeader) != h.webhookSecret {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "webhook secret mismatch", nil))
		return
	}

	ctx := c.Request.Context()
	answer := h.replySvc.Answer(ctx, text)
	switch {
	case h.sender == nil || !h.sender.HasToken():
		h.logger.Warn("telegram token missing, reply not sent", "chat_id", chatID)
	default:
		if err := h.sender.SendMessage(ctx, chatID, answer.Text); err != nil {
			h.logger.Error("telegram send failed", "chat_id", chatID, "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) formMessage(c *gin.Context, raw []byte) {
	form, err := url.ParseQuery(string(raw))
	if err != nil {
		h.logger.Warn("form body partially parsed", "error", err)
	}
	text := form.Get("Body")
	if text == "" {
		text = form.Get("message")
	}
	answer := h.replySvc.Answer(c.Request.Context(), text)

	body, err := twiml(answer.Text)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "render_failed", "unable to render reply", err))
		return
	}
	c.Data(http.StatusOK, "text/xml", body)
}

// twiml renders a messaging response with the reply XML escaped.
func twiml(text string) ([]byte, error) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><Response><Message>`)
	if err := xml.EscapeText(&b, []byte(text)); err != nil {
		return nil, fmt.Errorf("escape reply: %w", err)
	}
	b.WriteString(`</Message></Response>`)
	return []byte(b.String()), nil
}
