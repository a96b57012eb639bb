package reply

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yanqian/shopbot/internal/domain/faq"
	"github.com/yanqian/shopbot/internal/domain/hours"
	"github.com/yanqian/shopbot/internal/domain/intent"
	"github.com/yanqian/shopbot/pkg/metrics"
)

const (
	GreetingText = "Hi! Ask me about opening hours, delivery, or returns."
	FallbackText = "Sorry, I couldn't find that. Try: opening hours, delivery, returns."
	NoAnswerText = "No answer stored."
)

// Route names the branch that produced a reply.
type Route string

const (
	RouteGreeting Route = "greeting"
	RouteHours    Route = "hours"
	RouteFAQ      Route = "faq"
	RouteFallback Route = "fallback"
)

// Reply is the transport independent answer to one query.
type Reply struct {
	Text            string `json:"reply"`
	Route           Route  `json:"route"`
	MatchedQuestion string `json:"matchedQuestion,omitempty"`
	Tier            string `json:"tier,omitempty"`
}

// Service is the single entry point transports call.
type Service interface {
	Answer(ctx context.Context, query string) Reply
}

// Classifier decides the route of a query.
type Classifier interface {
	Classify(text string) intent.Result
}

type service struct {
	classifier Classifier
	hours      hours.Service
	faq        faq.Service
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewService composes the classifier, the hours calculator and the FAQ matcher.
func NewService(classifier Classifier, hoursSvc hours.Service, faqSvc faq.Service, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		classifier: classifier,
		hours:      hoursSvc,
		faq:        faqSvc,
		metrics:    m,
		logger:     logger.With("component", "reply.service"),
	}
}

// Answer never fails: store errors degrade to the fallback text.
func (s *service) Answer(ctx context.Context, query string) Reply {
	reply := s.answer(ctx, query)
	s.metrics.ObserveReply(string(reply.Route))
	return reply
}

func (s *service) answer(ctx context.Context, query string) Reply {
	query = strings.TrimSpace(query)
	if query == "" {
		return Reply{Text: GreetingText, Route: RouteGreeting}
	}

	// punctuation-only text classifies as empty but is still scored
	if s.classifier.Classify(query).Intent == intent.IntentHours {
		report := s.hours.Today()
		return Reply{Text: report.Message, Route: RouteHours}
	}

	match, err := s.faq.Match(ctx, query)
	if err != nil {
		s.logger.Warn("faq lookup degraded to fallback", "error", err)
		return Reply{Text: FallbackText, Route: RouteFallback}
	}
	if !match.Found {
		return Reply{Text: FallbackText, Route: RouteFallback}
	}

	text := strings.TrimSpace(match.Entry.Answer)
	if text == "" {
		text = NoAnswerText
	}
	return Reply{
		Text:            text,
		Route:           RouteFAQ,
		MatchedQuestion: match.Entry.Question,
		Tier:            match.Score.Tier.String(),
	}
}
