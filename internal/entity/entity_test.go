package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	v, ok := Lookup("amp")
	require.True(t, ok)
	assert.Equal(t, "&", v)

	v, ok = Lookup("euro")
	require.True(t, ok)
	assert.Equal(t, "€", v)

	_, ok = Lookup("hellip")
	assert.False(t, ok)
}

func TestNamesIsClosedSet(t *testing.T) {
	assert.Equal(t, []string{
		"amp", "apos", "cent", "copy", "euro", "gt",
		"lt", "nbsp", "pound", "quot", "reg", "yen",
	}, Names())
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no references", "plain text", "plain text"},
		{"amp", "Fish &amp; Chips", "Fish & Chips"},
		{"nbsp becomes space", "a&nbsp;b", "a b"},
		{"several", "&lt;p&gt; &copy; &reg; &pound;5", "<p> © ® £5"},
		{"unknown left verbatim", "&hellip; &foo;", "&hellip; &foo;"},
		{"numeric left verbatim", "it&#39;s", "it&#39;s"},
		{"single pass", "&amp;lt;", "&lt;"},
		{"missing semicolon", "&amp", "&amp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Replace(tt.in))
		})
	}
}
