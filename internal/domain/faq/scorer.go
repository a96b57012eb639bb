package faq

import (
	"strings"
	"unicode/utf8"
)

// ScoreEntry grades a single entry against the query using only the primary
// question. Comparison is on lowercased, trimmed text; the overlap tier uses a
// plain whitespace split, stop words included.
func ScoreEntry(query string, entry Entry) Score {
	question := strings.ToLower(strings.TrimSpace(entry.Question))
	if question == "" {
		return Score{}
	}
	q := strings.ToLower(strings.TrimSpace(query))
	length := utf8.RuneCountInString(question)

	if q == question {
		return Score{Tier: TierExact, Magnitude: length}
	}
	if strings.Contains(q, question) || strings.Contains(question, q) {
		return Score{Tier: TierSubstring, Magnitude: length}
	}

	queryTokens := make(map[string]struct{})
	for _, field := range strings.Fields(q) {
		queryTokens[field] = struct{}{}
	}
	overlap := 0
	seen := make(map[string]struct{})
	for _, field := range strings.Fields(question) {
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		if _, ok := queryTokens[field]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return Score{}
	}
	return Score{Tier: TierOverlap, Magnitude: overlap}
}

// BestMatch ranks every entry and keeps the first one with the strictly
// greatest score. A blank query or a best tier of none reports no match.
func BestMatch(query string, entries []Entry) Match {
	if strings.TrimSpace(query) == "" {
		return Match{}
	}
	best := -1
	var bestScore Score
	for i, entry := range entries {
		score := ScoreEntry(query, entry)
		if best < 0 || score.Compare(bestScore) > 0 {
			best = i
			bestScore = score
		}
	}
	if best < 0 || bestScore.Tier == TierNone {
		return Match{Score: bestScore}
	}
	return Match{Entry: entries[best], Score: bestScore, Found: true}
}
