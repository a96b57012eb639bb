package faq

import (
	"fmt"
	"strconv"
)

// Attribute names used by the knowledge-base table.
const (
	AttrID       = "id"
	AttrQuestion = "question"
	AttrAnswer   = "answer"
)

// AlternateAttr returns the attribute name of the n-th phrasing (2..16).
func AlternateAttr(n int) string {
	return "question" + strconv.Itoa(n)
}

// EntryFromAttributes builds an entry from a loosely typed item as returned by
// document stores. Missing or non-string alternates are skipped.
func EntryFromAttributes(item map[string]any) Entry {
	entry := Entry{
		ID:       scalarString(item[AttrID]),
		Question: scalarString(item[AttrQuestion]),
		Answer:   scalarString(item[AttrAnswer]),
	}
	for n := 2; n <= MaxPhrasings; n++ {
		if alt, ok := item[AlternateAttr(n)].(string); ok && alt != "" {
			entry.Alternates = append(entry.Alternates, alt)
		}
	}
	return entry
}

func scalarString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool, int, int64:
		return fmt.Sprint(typed)
	default:
		return ""
	}
}
