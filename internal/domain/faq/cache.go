package faq

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	apperrors "github.com/yanqian/shopbot/pkg/errors"
	"github.com/yanqian/shopbot/pkg/metrics"
)

const maxScanPages = 10000

// Cache holds the process-wide snapshot of the knowledge base. It is filled
// lazily on first use and never refreshed once a non-empty snapshot is held.
// An empty or failed fetch leaves it unloaded so the next call retries.
type Cache struct {
	kb      KnowledgeBase
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	// loadMu serializes scans; mu guards the fields below and is never held
	// across a scan, so Status stays responsive during a cold load.
	loadMu   sync.Mutex
	mu       sync.RWMutex
	entries  []Entry
	loaded   bool
	attempts int
	loadedAt time.Time
	lastErr  error
}

// NewCache builds an unloaded cache over the knowledge base.
func NewCache(kb KnowledgeBase, logger *slog.Logger, m *metrics.Metrics) *Cache {
	return &Cache{
		kb:      kb,
		logger:  logger.With("component", "faq.cache"),
		metrics: m,
		now:     time.Now,
	}
}

// Entries returns a copy of the snapshot, populating it first if needed.
// Population is serialized so concurrent first calls trigger a single scan.
func (c *Cache) Entries(ctx context.Context) ([]Entry, error) {
	if entries, ok := c.snapshot(); ok {
		return entries, nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	if entries, ok := c.snapshot(); ok {
		return entries, nil
	}

	c.mu.Lock()
	c.attempts++
	attempt := c.attempts
	c.mu.Unlock()

	entries, err := c.scanAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastErr = err
		c.metrics.ObserveCacheLoad("error")
		c.logger.Error("knowledge base scan failed", "error", err, "attempt", attempt, "partial", len(entries))
		return nil, apperrors.Wrap(apperrors.CodeStoreUnavailable, "knowledge base unavailable", err)
	}
	c.lastErr = nil
	if len(entries) == 0 {
		c.metrics.ObserveCacheLoad("empty")
		c.logger.Warn("knowledge base scan returned no entries", "attempt", attempt)
		return nil, nil
	}

	c.entries = entries
	c.loaded = true
	c.loadedAt = c.now()
	c.metrics.ObserveCacheLoad("loaded")
	c.logger.Info("faq cache populated", "entries", len(entries), "attempt", attempt)
	return slices.Clone(c.entries), nil
}

func (c *Cache) snapshot() ([]Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, false
	}
	return slices.Clone(c.entries), true
}

// Status reports the snapshot state without triggering or waiting for a load.
func (c *Cache) Status() CacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	status := CacheStatus{
		Loaded:   c.loaded,
		Entries:  len(c.entries),
		Attempts: c.attempts,
		LoadedAt: c.loadedAt,
	}
	if c.lastErr != nil {
		status.LastErr = c.lastErr.Error()
	}
	return status
}

func (c *Cache) scanAll(ctx context.Context) ([]Entry, error) {
	var (
		all    []Entry
		cursor string
	)
	for page := 0; page < maxScanPages; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		batch, err := c.kb.Scan(ctx, cursor)
		if err != nil {
			return all, err
		}
		all = append(all, batch.Entries...)
		if batch.Next == "" {
			return all, nil
		}
		if batch.Next == cursor {
			return all, fmt.Errorf("scan cursor did not advance past %q", cursor)
		}
		cursor = batch.Next
	}
	return all, fmt.Errorf("scan exceeded %d pages", maxScanPages)
}
