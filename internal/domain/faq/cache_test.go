package faq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/shopbot/pkg/errors"
)

func TestCacheConcatenatesPages(t *testing.T) {
	kb := &stubKnowledgeBase{pages: map[string]Page{
		"":   {Entries: []Entry{{Question: "a"}}, Next: "p2"},
		"p2": {Entries: []Entry{{Question: "b"}, {Question: "c"}}, Next: "p3"},
		"p3": {Entries: []Entry{{Question: "d"}}},
	}}
	cache := NewCache(kb, newTestLogger(), nil)

	entries, err := cache.Entries(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", "d"}, questions(entries))
	require.Equal(t, []string{"", "p2", "p3"}, kb.cursors)

	status := cache.Status()
	require.True(t, status.Loaded)
	require.Equal(t, 4, status.Entries)
	require.Equal(t, 1, status.Attempts)
	require.False(t, status.LoadedAt.IsZero())
}

func TestCacheDoesNotRefetchOncePopulated(t *testing.T) {
	kb := &stubKnowledgeBase{pages: map[string]Page{"": {Entries: []Entry{{Question: "a"}}}}}
	cache := NewCache(kb, newTestLogger(), nil)

	for i := 0; i < 3; i++ {
		entries, err := cache.Entries(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 1)
	}
	require.Equal(t, 1, kb.calls())
}

func TestCacheRetriesAfterEmptyFetch(t *testing.T) {
	kb := &stubKnowledgeBase{pages: map[string]Page{"": {}}}
	cache := NewCache(kb, newTestLogger(), nil)

	entries, err := cache.Entries(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
	require.False(t, cache.Status().Loaded)

	kb.setPages(map[string]Page{"": {Entries: []Entry{{Question: "late"}}}})
	entries, err = cache.Entries(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"late"}, questions(entries))
	require.Equal(t, 2, kb.calls())
	require.Equal(t, 2, cache.Status().Attempts)
}

func TestCacheRetriesAfterStoreFailure(t *testing.T) {
	kb := &stubKnowledgeBase{
		pages: map[string]Page{
			"":   {Entries: []Entry{{Question: "a"}}, Next: "p2"},
			"p2": {Entries: []Entry{{Question: "b"}}},
		},
		failOn: map[string]bool{"p2": true},
	}
	cache := NewCache(kb, newTestLogger(), nil)

	entries, err := cache.Entries(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStoreUnavailable))
	require.Empty(t, entries)
	status := cache.Status()
	require.False(t, status.Loaded)
	require.Contains(t, status.LastErr, "boom")

	kb.mu.Lock()
	kb.failOn = nil
	kb.mu.Unlock()
	entries, err = cache.Entries(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, questions(entries))
	require.Empty(t, cache.Status().LastErr)
}

func TestCacheRejectsStuckCursor(t *testing.T) {
	kb := &stubKnowledgeBase{pages: map[string]Page{
		"":     {Entries: []Entry{{Question: "a"}}, Next: "loop"},
		"loop": {Entries: []Entry{{Question: "b"}}, Next: "loop"},
	}}
	cache := NewCache(kb, newTestLogger(), nil)

	_, err := cache.Entries(context.Background())
	require.Error(t, err)
	require.False(t, cache.Status().Loaded)
}

func TestCacheConcurrentFirstCallsScanOnce(t *testing.T) {
	kb := &stubKnowledgeBase{pages: map[string]Page{"": {Entries: []Entry{{Question: "a"}}}}}
	cache := NewCache(kb, newTestLogger(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.Entries(context.Background())
		}()
	}
	wg.Wait()
	require.Equal(t, 1, kb.calls())
}

func TestCacheStatusDoesNotWaitForScan(t *testing.T) {
	kb := &blockingKnowledgeBase{started: make(chan struct{}), release: make(chan struct{})}
	cache := NewCache(kb, newTestLogger(), nil)

	done := make(chan error, 1)
	go func() {
		_, err := cache.Entries(context.Background())
		done <- err
	}()
	<-kb.started

	status := make(chan CacheStatus, 1)
	go func() { status <- cache.Status() }()
	select {
	case got := <-status:
		require.False(t, got.Loaded)
		require.Equal(t, 1, got.Attempts)
	case <-time.After(time.Second):
		t.Fatal("Status blocked behind the scan")
	}

	close(kb.release)
	require.NoError(t, <-done)
	require.True(t, cache.Status().Loaded)
}

func TestCacheEntriesReturnsCopy(t *testing.T) {
	kb := &stubKnowledgeBase{pages: map[string]Page{"": {Entries: []Entry{{Question: "a"}, {Question: "b"}}}}}
	cache := NewCache(kb, newTestLogger(), nil)

	first, err := cache.Entries(context.Background())
	require.NoError(t, err)
	first[0].Question = "mutated"

	second, err := cache.Entries(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, questions(second))
	second[1].Question = "mutated too"

	third, err := cache.Entries(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, questions(third))
}

func TestServiceMatchUsesCache(t *testing.T) {
	kb := &stubKnowledgeBase{pages: map[string]Page{"": {Entries: []Entry{
		{Question: "What are your hours?", Answer: "9 to 9"},
		{Question: "Do you deliver?", Answer: "Yes"},
	}}}}
	svc := NewService(NewCache(kb, newTestLogger(), nil), newTestLogger())

	match, err := svc.Match(context.Background(), "deliver")
	require.NoError(t, err)
	require.True(t, match.Found)
	require.Equal(t, "Yes", match.Entry.Answer)

	match, err = svc.Match(context.Background(), "   ")
	require.NoError(t, err)
	require.False(t, match.Found)
	require.Equal(t, 1, kb.calls())
	require.True(t, svc.Status().Loaded)
}

func TestServiceMatchSurfacesStoreFailure(t *testing.T) {
	kb := &stubKnowledgeBase{pages: map[string]Page{}, failOn: map[string]bool{"": true}}
	svc := NewService(NewCache(kb, newTestLogger(), nil), newTestLogger())

	match, err := svc.Match(context.Background(), "hours")
	require.Error(t, err)
	require.False(t, match.Found)
}

type stubKnowledgeBase struct {
	mu      sync.Mutex
	pages   map[string]Page
	failOn  map[string]bool
	cursors []string
	count   int
}

func (s *stubKnowledgeBase) Scan(_ context.Context, cursor string) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cursor == "" {
		s.count++
	}
	s.cursors = append(s.cursors, cursor)
	if s.failOn[cursor] {
		return Page{}, errors.New("boom")
	}
	return s.pages[cursor], nil
}

type blockingKnowledgeBase struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingKnowledgeBase) Scan(ctx context.Context, _ string) (Page, error) {
	close(b.started)
	select {
	case <-b.release:
		return Page{Entries: []Entry{{Question: "a"}}}, nil
	case <-ctx.Done():
		return Page{}, ctx.Err()
	}
}

func (s *stubKnowledgeBase) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *stubKnowledgeBase) setPages(pages map[string]Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = pages
}

func questions(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Question)
	}
	return out
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
