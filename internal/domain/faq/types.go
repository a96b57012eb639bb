package faq

import (
	"strings"
	"time"
)

// MaxPhrasings is the number of question fields an entry can carry:
// question, question2 .. question16.
const MaxPhrasings = 16

// Entry is one knowledge-base record.
type Entry struct {
	ID         string   `json:"id,omitempty"`
	Question   string   `json:"question"`
	Alternates []string `json:"alternates,omitempty"`
	Answer     string   `json:"answer"`
}

// Phrasings returns the primary question followed by every non-empty alternate.
func (e Entry) Phrasings() []string {
	out := make([]string, 0, 1+len(e.Alternates))
	if q := strings.TrimSpace(e.Question); q != "" {
		out = append(out, q)
	}
	for _, alt := range e.Alternates {
		if alt = strings.TrimSpace(alt); alt != "" {
			out = append(out, alt)
		}
	}
	return out
}

// Keywords returns the stop-word free tokens across every phrasing.
func (e Entry) Keywords() []string {
	return Tokenize(strings.Join(e.Phrasings(), " ")).Sorted()
}

// Tier is the coarse match quality of a score.
type Tier int

const (
	TierNone Tier = iota
	TierOverlap
	TierSubstring
	TierExact
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSubstring:
		return "substring"
	case TierOverlap:
		return "overlap"
	default:
		return "none"
	}
}

// Score orders candidates lexicographically on (Tier, Magnitude).
type Score struct {
	Tier      Tier `json:"tier"`
	Magnitude int  `json:"magnitude"`
}

// Compare returns -1, 0 or +1.
func (s Score) Compare(other Score) int {
	switch {
	case s.Tier != other.Tier:
		if s.Tier < other.Tier {
			return -1
		}
		return 1
	case s.Magnitude < other.Magnitude:
		return -1
	case s.Magnitude > other.Magnitude:
		return 1
	default:
		return 0
	}
}

// Page is one batch of a paginated knowledge-base scan. An empty Next ends the scan.
type Page struct {
	Entries []Entry
	Next    string
}

// Match is the outcome of ranking the knowledge base against a query.
type Match struct {
	Entry Entry
	Score Score
	Found bool
}

// CacheStatus describes the snapshot held by Cache.
type CacheStatus struct {
	Loaded   bool      `json:"loaded"`
	Entries  int       `json:"entries"`
	Attempts int       `json:"attempts"`
	LoadedAt time.Time `json:"loadedAt,omitempty"`
	LastErr  string    `json:"lastError,omitempty"`
}
