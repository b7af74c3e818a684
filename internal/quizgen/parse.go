package quizgen

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"quizforge/internal/domain"
)

// ExcerptLimit bounds the diagnostic snippet carried by a parse error.
const ExcerptLimit = 200

// ErrNoBalancedObject is returned by ParseBalanced when the text contains no
// complete brace-balanced object.
var ErrNoBalancedObject = errors.New("no balanced JSON object found")

// ParseDirect is the first parse tier: a strict decode of the whole text.
func ParseDirect(text string) (JSONValue, error) {
	return DecodeJSONValue([]byte(text))
}

// span is the byte range [start, end) of a brace-balanced object.
type span struct{ start, end int }

// balancedSpans returns every brace-balanced object in text, ordered by
// start offset, in a single string-aware pass. Braces inside string
// literals are ignored and unmatched '{' produce no span.
func balancedSpans(text string) []span {
	var (
		open     []int
		spans    []span
		inString bool
		escaped  bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			open = append(open, i)
		case '}':
			if n := len(open); n > 0 {
				spans = append(spans, span{start: open[n-1], end: i + 1})
				open = open[:n-1]
			}
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// FindBalancedObject returns the first complete brace-balanced object that
// starts at or after offset from. Braces inside string literals are ignored.
// It returns the byte span [start, end) and false when none is found.
func FindBalancedObject(text string, from int) (start, end int, ok bool) {
	for _, sp := range balancedSpans(text) {
		if sp.start >= from {
			return sp.start, sp.end, true
		}
	}
	return 0, 0, false
}

// ParseBalanced is the second parse tier. It walks the top-level balanced
// objects in text, left to right, and returns the first one that decodes.
// Objects nested inside a candidate are not tried on their own. Candidates
// never overlap, so the walk is linear in the size of text.
func ParseBalanced(text string) (JSONValue, error) {
	var lastErr error
	from := 0
	for _, sp := range balancedSpans(text) {
		if sp.start < from {
			continue
		}
		v, err := ParseDirect(text[sp.start:sp.end])
		if err == nil {
			return v, nil
		}
		lastErr = err
		from = sp.end
	}
	if lastErr != nil {
		return JSONValue{}, fmt.Errorf("%w: %v", ErrNoBalancedObject, lastErr)
	}
	return JSONValue{}, ErrNoBalancedObject
}

// ParseRepaired runs both tiers over normalized text. The returned bool
// reports whether the second tier was needed. On failure the error is a
// PARSE_FAILED DomainError carrying a bounded excerpt.
func ParseRepaired(text string) (JSONValue, bool, error) {
	v, directErr := ParseDirect(text)
	if directErr == nil {
		return v, false, nil
	}
	v, balancedErr := ParseBalanced(text)
	if balancedErr == nil {
		return v, true, nil
	}
	return JSONValue{}, true, domain.NewParseError(Excerpt(text), errors.Join(directErr, balancedErr))
}

// Excerpt returns at most ExcerptLimit runes of s.
func Excerpt(s string) string {
	if utf8.RuneCountInString(s) <= ExcerptLimit {
		return s
	}
	n := 0
	for i := range s {
		if n == ExcerptLimit {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
