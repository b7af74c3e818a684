package quizgen

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", "\n{\"a\":1}\n"},
		{"javascript fence", "```javascript{\"a\":1}```", "{\"a\":1}"},
		{"bare fence", "```\n{}\n```", "\n{}\n"},
		{"no fence", `{"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}

func TestSliceOuterObject(t *testing.T) {
	got, ok := sliceOuterObject(`Sure! Here it is: {"a":{"b":1}} Hope that helps.`)
	require.True(t, ok)
	assert.Equal(t, `{"a":{"b":1}}`, got)

	_, ok = sliceOuterObject("no braces here")
	assert.False(t, ok)

	_, ok = sliceOuterObject("} backwards {")
	assert.False(t, ok)
}

func TestReplaceSmartQuotes(t *testing.T) {
	assert.Equal(t, `{"a":"b"}`, replaceSmartQuotes("{“a”:„b‟}"))
}

func TestFlattenNewlines(t *testing.T) {
	assert.Equal(t, `{"a":"line one line two end"}`, flattenNewlines("{\"a\":\"line one\nline two\r\nend\"}"))
}

func TestEscapeStrayBackslashes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"regex escape", `{"p":"\d+"}`, `{"p":"\\d+"}`},
		{"valid escapes untouched", `{"p":"a\"b\\c\/d\n\t\u0041"}`, `{"p":"a\"b\\c\/d\n\t\u0041"}`},
		{"escaped backslash before letter", `{"p":"\\d"}`, `{"p":"\\d"}`},
		{"trailing backslash", `{"p":"x"}\`, `{"p":"x"}\\`},
		{"windows path", `{"p":"C:\Users\x"}`, `{"p":"C:\\Users\\x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeStrayBackslashes(tt.in))
		})
	}
}

func TestConvertSingleQuotes(t *testing.T) {
	assert.Equal(t, `{"a":"it\"s"}`, convertSingleQuotes(`{"a":"it's"}`))
	assert.Equal(t, `{"a":"\'"}`, convertSingleQuotes(`{"a":"\'"}`))
	assert.Equal(t, `{\"a\":1}`, convertSingleQuotes(`{'a':1}`))
}

func TestRemoveTrailingCommas(t *testing.T) {
	assert.Equal(t, `{"a":[1,2]}`, removeTrailingCommas(`{"a":[1,2,],}`))
	assert.Equal(t, `[{"a":1}]`, removeTrailingCommas("[{\"a\":1},\n  ]"))
	assert.Equal(t, `[1]`, removeTrailingCommas(`[1,,]`))
	assert.Equal(t, `[1]`, removeTrailingCommas(`[1, , ,]`))

	long := "[1" + strings.Repeat(",", 200_000) + "]"
	assert.Equal(t, "[1]", removeTrailingCommas(long))
}

func TestNormalize_NoJSONContent(t *testing.T) {
	for _, raw := range []string{"", "   ", "I cannot help with that.", "```json\n```", "} {"} {
		_, err := Normalize(raw)
		assert.ErrorIs(t, err, ErrNoJSONContent, "input %q", raw)
	}
}

func TestNormalize_TrailingCommasParse(t *testing.T) {
	cleaned, err := Normalize(`{"a":[1,2,],}`)
	require.NoError(t, err)

	var got map[string][]int
	require.NoError(t, json.Unmarshal([]byte(cleaned), &got))
	assert.Equal(t, map[string][]int{"a": {1, 2}}, got)
}

func TestNormalize_FencedAndBareAreEquivalent(t *testing.T) {
	inner := `{"title":"Go","questions":[{"text":"What?","options":["x"]}]}`

	bare, err := Normalize(inner)
	require.NoError(t, err)
	fenced, err := Normalize("```json\n" + inner + "\n```")
	require.NoError(t, err)
	prose, err := Normalize("Here is your quiz:\n```json\n" + inner + "\n```\nEnjoy!")
	require.NoError(t, err)

	assert.Equal(t, bare, fenced)
	assert.Equal(t, bare, prose)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		`{"title":"Go","questions":[]}`,
		"```json\n{\n  \"a\": \"b\\\\d\",\n  \"c\": [1, 2, ],\n}\n```",
		`{"a":"it's \"quoted\" \u00e9 \/ path\\to"}`,
		`{"regex":"\d+\s*","smart":“x”}`,
		`{"a":[1,,],"b":{"c":1,},}`,
	}
	for _, in := range inputs {
		once, err := Normalize(in)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestNormalize_ValidJSONUnchanged(t *testing.T) {
	valid := `{"a":"b\\d","c":[1,2],"d":{"e":"\"x\""}}`
	got, err := Normalize(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, got)
}
