package faq

import (
	"context"
	"log/slog"
	"strings"
)

// Service answers free-text questions from the cached knowledge base.
type Service interface {
	Match(ctx context.Context, query string) (Match, error)
	Snapshot(ctx context.Context) ([]Entry, error)
	Status() CacheStatus
}

type service struct {
	cache  *Cache
	logger *slog.Logger
}

// NewService wires the FAQ domain over a cache.
func NewService(cache *Cache, logger *slog.Logger) Service {
	return &service{
		cache:  cache,
		logger: logger.With("component", "faq.service"),
	}
}

// Match ranks the snapshot against the query. A store failure is returned
// together with an empty match so callers can degrade to a fallback.
func (s *service) Match(ctx context.Context, query string) (Match, error) {
	if strings.TrimSpace(query) == "" {
		return Match{}, nil
	}
	entries, err := s.cache.Entries(ctx)
	if err != nil {
		return Match{}, err
	}
	match := BestMatch(query, entries)
	s.logger.Debug("faq match", "found", match.Found, "tier", match.Score.Tier.String(), "magnitude", match.Score.Magnitude, "candidates", len(entries))
	return match, nil
}

// Snapshot returns the cached entries, loading them if needed.
func (s *service) Snapshot(ctx context.Context) ([]Entry, error) {
	return s.cache.Entries(ctx)
}

func (s *service) Status() CacheStatus {
	return s.cache.Status()
}
