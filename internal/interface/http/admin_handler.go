package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/shopbot/internal/domain/faq"
)

// AdminHandler exposes the FAQ cache to operators.
type AdminHandler struct {
	faqSvc faq.Service
	logger *slog.Logger
}

// NewAdminHandler constructs the admin handler.
func NewAdminHandler(faqSvc faq.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		faqSvc: faqSvc,
		logger: logger.With("component", "http.admin"),
	}
}

type cacheStatusView struct {
	Loaded    bool       `json:"loaded"`
	Entries   int        `json:"entries"`
	Attempts  int        `json:"attempts"`
	LoadedAt  *time.Time `json:"loadedAt,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

type entryView struct {
	ID         string   `json:"id,omitempty"`
	Question   string   `json:"question"`
	Alternates []string `json:"alternates,omitempty"`
	Answer     string   `json:"answer"`
	Keywords   []string `json:"keywords"`
}

// CacheStatus reports the snapshot state without loading it.
func (h *AdminHandler) CacheStatus(c *gin.Context) {
	c.JSON(http.StatusOK, toStatusView(h.faqSvc.Status()))
}

// WarmCache populates the snapshot if it is not loaded yet.
func (h *AdminHandler) WarmCache(c *gin.Context) {
	if _, err := h.faqSvc.Snapshot(c.Request.Context()); err != nil {
		abortWithError(c, fromAppError(err, "faq_failed"))
		return
	}
	status := h.faqSvc.Status()
	h.logger.Info("faq cache warmed", "by", actor(c), "loaded", status.Loaded, "entries", status.Entries)
	c.JSON(http.StatusOK, toStatusView(status))
}

// Entries lists the cached snapshot with every phrasing.
func (h *AdminHandler) Entries(c *gin.Context) {
	entries, err := h.faqSvc.Snapshot(c.Request.Context())
	if err != nil {
		abortWithError(c, fromAppError(err, "faq_failed"))
		return
	}
	out := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entryView{
			ID:         entry.ID,
			Question:   entry.Question,
			Alternates: entry.Alternates,
			Answer:     entry.Answer,
			Keywords:   entry.Keywords(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": out, "count": len(out)})
}

func toStatusView(status faq.CacheStatus) cacheStatusView {
	view := cacheStatusView{
		Loaded:    status.Loaded,
		Entries:   status.Entries,
		Attempts:  status.Attempts,
		LastError: status.LastErr,
	}
	if !status.LoadedAt.IsZero() {
		loadedAt := status.LoadedAt
		view.LoadedAt = &loadedAt
	}
	return view
}
