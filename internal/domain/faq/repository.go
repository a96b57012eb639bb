package faq

import "context"

// KnowledgeBase is the read side of the FAQ store. Scan returns the page that
// starts at cursor; the empty cursor starts a new scan.
type KnowledgeBase interface {
	Scan(ctx context.Context, cursor string) (Page, error)
}
