// Package telegram is a minimal Bot API client: webhook update decoding and sendMessage.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// ErrMissingToken is returned by Send when no bot token is configured.
var ErrMissingToken = errors.New("telegram bot token not configured")

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// Message is the subset of a Bot API message the bot reads.
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      *Chat  `json:"chat"`
	Text      string `json:"text"`
}

// Update is a webhook update. Only text messages are handled.
type Update struct {
	UpdateID      int64    `json:"update_id"`
	Message       *Message `json:"message"`
	EditedMessage *Message `json:"edited_message"`
}

// Incoming returns the chat id and text of the update's message, preferring
// message over edited_message. ok is false when no chat id is present.
func (u Update) Incoming() (chatID int64, text string, ok bool) {
	msg := u.Message
	if msg == nil {
		msg = u.EditedMessage
	}
	if msg == nil || msg.Chat == nil || msg.Chat.ID == 0 {
		return 0, "", false
	}
	return msg.Chat.ID, msg.Text, true
}

// Client sends messages through the Bot API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds an API client. An empty token yields a client whose Send
// always fails with ErrMissingToken.
func NewClient(baseURL, token string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		token:   strings.TrimSpace(token),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// HasToken reports whether Send can reach the API.
func (c *Client) HasToken() bool {
	return c.token != ""
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts text to the chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if c.token == "" {
		return ErrMissingToken
	}
	payload, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("encode telegram request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the url carries the token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram request error: status=%d body=%s", resp.StatusCode, string(body))
	}
	var decoded apiResponse
	if err := json.Unmarshal(body, &decoded); err == nil && !decoded.OK {
		return fmt.Errorf("telegram api error: %s", decoded.Description)
	}
	return nil
}
