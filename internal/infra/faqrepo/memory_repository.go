package faqrepo

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/yanqian/shopbot/internal/domain/faq"
)

const defaultPageSize = 25

// MemoryRepository is an in-memory knowledge base used for tests/dev. Pages
// are cut at pageSize and the cursor is the offset of the next page.
type MemoryRepository struct {
	mu       sync.RWMutex
	entries  []faq.Entry
	pageSize int
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository(pageSize int, entries ...faq.Entry) *MemoryRepository {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &MemoryRepository{
		entries:  append([]faq.Entry(nil), entries...),
		pageSize: pageSize,
	}
}

// NewSeededMemoryRepository returns a memory repo holding the demo entries.
func NewSeededMemoryRepository(pageSize int) *MemoryRepository {
	return NewMemoryRepository(pageSize, SeedEntries()...)
}

// Add appends entries in enumeration order.
func (r *MemoryRepository) Add(entries ...faq.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entries...)
}

// Scan implements faq.KnowledgeBase.
func (r *MemoryRepository) Scan(ctx context.Context, cursor string) (faq.Page, error) {
	if err := ctx.Err(); err != nil {
		return faq.Page{}, err
	}
	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return faq.Page{}, fmt.Errorf("invalid cursor %q", cursor)
		}
		offset = n
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if offset >= len(r.entries) {
		return faq.Page{}, nil
	}
	end := offset + r.pageSize
	if end > len(r.entries) {
		end = len(r.entries)
	}
	page := faq.Page{Entries: append([]faq.Entry(nil), r.entries[offset:end]...)}
	if end < len(r.entries) {
		page.Next = strconv.Itoa(end)
	}
	return page, nil
}

// SeedEntries is the small catalogue served when no store is configured.
func SeedEntries() []faq.Entry {
	return []faq.Entry{
		{
			ID:         "hours",
			Question:   "What are your opening hours?",
			Alternates: []string{"When are you open?", "business hours"},
			Answer:     "We're open Monday to Saturday 9:00 AM–9:00 PM and Sunday 10:00 AM–7:00 PM.",
		},
		{
			ID:         "delivery",
			Question:   "Do you deliver?",
			Alternates: []string{"delivery", "Do you ship to my area?"},
			Answer:     "Yes, we deliver within 10 km of the store. Orders placed before 3:00 PM arrive the same day.",
		},
		{
			ID:         "returns",
			Question:   "What is your return policy?",
			Alternates: []string{"returns", "Can I return an item?"},
			Answer:     "Unused items can be returned within 30 days with the receipt.",
		},
		{
			ID:       "payment",
			Question: "Which payment methods do you accept?",
			Answer:   "We accept cash, cards and mobile wallets.",
		},
		{
			ID:       "track",
			Question: "How do I track my order?",
			Answer:   "Send us your order ID and we'll look it up for you.",
		},
	}
}

var _ faq.KnowledgeBase = (*MemoryRepository)(nil)
