package faq

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// stopWords are dropped by Tokenize: articles, auxiliaries, pronouns,
// conjunctions and question words.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "to": {}, "for": {}, "is": {}, "are": {}, "am": {}, "be": {},
	"was": {}, "were": {}, "do": {}, "does": {}, "did": {}, "you": {}, "your": {}, "our": {},
	"we": {}, "i": {}, "it": {}, "of": {}, "on": {}, "at": {}, "in": {}, "and": {}, "or": {},
	"if": {}, "with": {}, "can": {}, "could": {}, "may": {}, "might": {}, "shall": {}, "will": {},
	"would": {}, "should": {}, "how": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"who": {}, "whom": {}, "why": {},
}

// Normalize lowercases text and turns every rune that is neither a letter,
// a number nor whitespace into a space. Whitespace is kept as is, so word
// boundaries survive.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	composed := norm.NFC.String(text)
	var builder strings.Builder
	builder.Grow(len(composed))
	for _, r := range composed {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			builder.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			builder.WriteRune(r)
		default:
			builder.WriteRune(' ')
		}
	}
	return builder.String()
}

// TokenSet is an unordered set of comparable tokens.
type TokenSet map[string]struct{}

// Tokenize normalizes text, splits it on whitespace and drops stop words.
func Tokenize(text string) TokenSet {
	set := make(TokenSet)
	for _, field := range strings.Fields(Normalize(text)) {
		if _, stop := stopWords[field]; stop {
			continue
		}
		set[field] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Sorted returns the tokens in lexical order.
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for token := range s {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// IsStopWord reports whether the lowercased word is ignored by Tokenize.
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}
