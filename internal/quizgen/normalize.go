package quizgen

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSONContent is returned by Normalize when the response holds no
// brace-delimited span at all.
var ErrNoJSONContent = errors.New("no JSON-like content in response")

var (
	fencePattern         = regexp.MustCompile("```[A-Za-z0-9_+-]*")
	trailingCommaPattern = regexp.MustCompile(`(?:,\s*)+([\]}])`)
	smartQuoteReplacer   = strings.NewReplacer(
		"“", `"`,
		"”", `"`,
		"„", `"`,
		"‟", `"`,
	)
	newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// Normalize turns a raw model response into text that is as close as
// possible to valid JSON. It never inspects the meaning of the content.
// The only failure is ErrNoJSONContent.
func Normalize(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	text = stripFences(text)

	span, ok := sliceOuterObject(text)
	if !ok {
		return "", ErrNoJSONContent
	}

	span = replaceSmartQuotes(span)
	span = flattenNewlines(span)
	span = escapeStrayBackslashes(span)
	span = convertSingleQuotes(span)
	span = removeTrailingCommas(span)
	return span, nil
}

// stripFences removes every markdown code fence marker together with an
// optional language tag.
func stripFences(s string) string {
	return fencePattern.ReplaceAllString(s, "")
}

// sliceOuterObject returns the text between the first '{' and the last '}'
// inclusive.
func sliceOuterObject(s string) (string, bool) {
	first := strings.IndexByte(s, '{')
	last := strings.LastIndexByte(s, '}')
	if first == -1 || last == -1 || last < first {
		return "", false
	}
	return s[first : last+1], true
}

// replaceSmartQuotes maps typographic double quotes to '"'.
func replaceSmartQuotes(s string) string {
	return smartQuoteReplacer.Replace(s)
}

// flattenNewlines replaces every line break with a single space.
func flattenNewlines(s string) string {
	return newlineReplacer.Replace(s)
}

// escapeStrayBackslashes doubles any backslash that does not start a valid
// JSON escape. Valid escape pairs are consumed as a unit, so an existing
// "\\" is never split.
func escapeStrayBackslashes(s string) string {
	if strings.IndexByte(s, '\\') == -1 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(s) && isEscapeChar(s[i+1]) {
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteString(`\\`)
	}
	return b.String()
}

func isEscapeChar(c byte) bool {
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
		return true
	}
	return false
}

// convertSingleQuotes rewrites each single quote not preceded by a backslash
// as an escaped double quote. Apostrophes inside prose become \" as well.
func convertSingleQuotes(s string) string {
	if strings.IndexByte(s, '\'') == -1 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' && i > 0 && s[i-1] != '\\' {
			b.WriteString(`\"`)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// removeTrailingCommas drops commas that directly precede ']' or '}',
// including runs such as ",,]", in one pass.
func removeTrailingCommas(s string) string {
	return trailingCommaPattern.ReplaceAllString(s, "$1")
}
