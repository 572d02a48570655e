package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"surrounded by prose", `Here you go: {"a":1} Hope it helps!`, `{"a":1}`, true},
		{"code fence", "```json\n{\"a\": [1, 2]}\n```", `{"a": [1, 2]}`, true},
		{"single-line fence", "```json {\"a\":1} ```", `{"a":1}`, true},
		{"single-line fence no spaces", "```json{\"a\":1}```", `{"a":1}`, true},
		{"single-line fence no tag", "```{\"a\":1}```", `{"a":1}`, true},
		{"nested", `x {"a":{"b":2}} y`, `{"a":{"b":2}}`, true},
		{"brace in trailing prose", `{"a":1} note: use {braces} carefully`, `{"a":1}`, true},
		{"two objects", `{"a":1} and {"b":2}`, `{"a":1}`, true},
		{"no braces", `no json here`, ``, false},
		{"close before open", `} oops {`, ``, false},
		{"malformed", `{"a": }`, ``, false},
		{"empty", ``, ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Object(tt.text)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.JSONEq(t, tt.want, string(got))
			}
		})
	}
}

func TestArray(t *testing.T) {
	raw, ok := Array("```json\n[{\"question\":\"q\"}]\n```")
	require.True(t, ok)
	assert.JSONEq(t, `[{"question":"q"}]`, string(raw))

	_, ok = Array(`{"not":"an array"}`)
	assert.False(t, ok)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "plain", StripFences("plain"))
	assert.Equal(t, "{}", StripFences("```json\n{}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```json {\"a\":1} ```"))
	assert.Equal(t, "intro\n[1]", StripFences("intro\n```json\n[1]```"))
}

func TestArray_SingleLineFence(t *testing.T) {
	raw, ok := Array("```json [{\"question\":\"q\"}] ```")
	require.True(t, ok)
	assert.JSONEq(t, `[{"question":"q"}]`, string(raw))
}
