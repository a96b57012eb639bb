package reply

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/shopbot/internal/domain/faq"
	"github.com/yanqian/shopbot/internal/domain/hours"
	"github.com/yanqian/shopbot/internal/domain/intent"
	"github.com/yanqian/shopbot/pkg/metrics"
)

type stubKnowledgeBase struct {
	entries []faq.Entry
	err     error
	scans   int
}

func (s *stubKnowledgeBase) Scan(_ context.Context, _ string) (faq.Page, error) {
	s.scans++
	if s.err != nil {
		return faq.Page{}, s.err
	}
	return faq.Page{Entries: s.entries}, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(kb faq.KnowledgeBase, now time.Time, m *metrics.Metrics) Service {
	logger := newTestLogger()
	hoursSvc := hours.NewService(hours.DefaultSchedule(), hours.FixedClock(now), logger)
	faqSvc := faq.NewService(faq.NewCache(kb, logger, m), logger)
	return NewService(intent.NewClassifier(), hoursSvc, faqSvc, m, logger)
}

var mondayNoon = time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)

func sampleEntries() []faq.Entry {
	return []faq.Entry{
		{ID: "1", Question: "What are your hours?", Answer: "Mon-Sat 9-21, Sun 10-19."},
		{ID: "2", Question: "Do you deliver?", Answer: "Yes, within 10 km."},
		{ID: "3", Question: "How do returns work?", Answer: "Bring the receipt within 30 days."},
		{ID: "4", Question: "gift cards", Answer: "  "},
	}
}

func TestAnswerRoutes(t *testing.T) {
	kb := &stubKnowledgeBase{entries: sampleEntries()}
	m := metrics.New()
	svc := newTestService(kb, mondayNoon, m)
	ctx := context.Background()

	greeting := svc.Answer(ctx, "   ")
	require.Equal(t, RouteGreeting, greeting.Route)
	require.Equal(t, GreetingText, greeting.Text)
	require.Zero(t, kb.scans)

	hoursReply := svc.Answer(ctx, "What time do you close today?")
	require.Equal(t, RouteHours, hoursReply.Route)
	require.Equal(t, "We're open now until 9:00 PM.", hoursReply.Text)
	require.Zero(t, kb.scans, "hours queries never consult the knowledge base")

	faqReply := svc.Answer(ctx, "do you deliver?")
	require.Equal(t, RouteFAQ, faqReply.Route)
	require.Equal(t, "Yes, within 10 km.", faqReply.Text)
	require.Equal(t, "Do you deliver?", faqReply.MatchedQuestion)
	require.Equal(t, "exact", faqReply.Tier)

	fallback := svc.Answer(ctx, "xyzzy")
	require.Equal(t, RouteFallback, fallback.Route)
	require.Equal(t, FallbackText, fallback.Text)
	require.Equal(t, 1, kb.scans)

	require.Equal(t, 1.0, testutil.ToFloat64(m.RepliesTotal.WithLabelValues("greeting")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RepliesTotal.WithLabelValues("hours")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RepliesTotal.WithLabelValues("faq")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RepliesTotal.WithLabelValues("fallback")))
}

func TestAnswerWithoutStoredTextUsesPlaceholder(t *testing.T) {
	svc := newTestService(&stubKnowledgeBase{entries: sampleEntries()}, mondayNoon, nil)

	got := svc.Answer(context.Background(), "gift cards")
	require.Equal(t, RouteFAQ, got.Route)
	require.Equal(t, NoAnswerText, got.Text)
}

func TestAnswerDegradesOnStoreFailure(t *testing.T) {
	kb := &stubKnowledgeBase{err: errors.New("throttled")}
	svc := newTestService(kb, mondayNoon, nil)

	got := svc.Answer(context.Background(), "do you deliver?")
	require.Equal(t, RouteFallback, got.Route)
	require.Equal(t, FallbackText, got.Text)

	kb.err = nil
	kb.entries = sampleEntries()
	got = svc.Answer(context.Background(), "do you deliver?")
	require.Equal(t, RouteFAQ, got.Route)
	require.Equal(t, 2, kb.scans)
}

func TestAnswerHoursWhenClosed(t *testing.T) {
	svc := newTestService(&stubKnowledgeBase{}, mondayNoon.Add(10*time.Hour), nil)

	got := svc.Answer(context.Background(), "are you open now?")
	require.Equal(t, RouteHours, got.Route)
	require.Equal(t, "We're closed now. Today (Monday) we were open 9:00 AM–9:00 PM.", got.Text)
}

func TestAnswerPunctuationOnlyIsScored(t *testing.T) {
	kb := &stubKnowledgeBase{entries: []faq.Entry{{Question: "What are your hours?", Answer: "nine to nine"}}}
	svc := newTestService(kb, mondayNoon, nil)

	got := svc.Answer(context.Background(), "?")
	require.Equal(t, RouteFAQ, got.Route)
	require.Equal(t, "nine to nine", got.Text)
	require.Equal(t, "substring", got.Tier)
	require.Equal(t, 1, kb.scans)
}
