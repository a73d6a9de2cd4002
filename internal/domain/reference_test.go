package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReferences(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		host     string
		limit    int
		expected []Reference
	}{
		{
			name: "duplicates collapse and trailing paren is stripped",
			text: "- [one](https://github.com/a/one)\n- again https://github.com/a/one\n- [two](https://github.com/b/two)",
			expected: []Reference{
				{Owner: "a", Name: "one"},
				{Owner: "b", Name: "two"},
			},
		},
		{
			name:     "trailing punctuation after the URL is trimmed",
			text:     "See https://github.com/foo/bar).",
			expected: []Reference{{Owner: "foo", Name: "bar"}},
		},
		{
			name:     "interior dots are preserved",
			text:     "https://github.com/foo/bar.js is great",
			expected: []Reference{{Owner: "foo", Name: "bar.js"}},
		},
		{
			name:     "anchors and query strings are cut",
			text:     "https://github.com/foo/bar#readme https://github.com/foo/baz?tab=1",
			expected: []Reference{{Owner: "foo", Name: "bar"}, {Owner: "foo", Name: "baz"}},
		},
		{
			name:     "deeper paths keep the first two segments",
			text:     "https://github.com/foo/bar/issues/12",
			expected: []Reference{{Owner: "foo", Name: "bar"}},
		},
		{
			name:     "single segment URLs are ignored",
			text:     "https://github.com/foo and https://github.com/ and http://github.com/x/y",
			expected: []Reference{},
		},
		{
			name:     "custom host",
			text:     "https://gitlab.example.com/team/tool https://github.com/other/repo",
			host:     "gitlab.example.com",
			expected: []Reference{{Owner: "team", Name: "tool"}},
		},
		{
			name:     "limit applies to raw matches before deduplication",
			text:     "https://github.com/a/one https://github.com/a/one https://github.com/b/two",
			limit:    2,
			expected: []Reference{{Owner: "a", Name: "one"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractReferences(tc.text, tc.host, tc.limit))
		})
	}
}

func TestExtractReferences_Idempotent(t *testing.T) {
	text := "https://github.com/z/last https://github.com/a/first) https://github.com/m/mid."
	first := ExtractReferences(text, "", 0)
	second := ExtractReferences(text, "", 0)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestReference_StringAndURL(t *testing.T) {
	ref := Reference{Owner: "foo", Name: "bar.js"}
	assert.Equal(t, "foo/bar.js", ref.String())
	assert.Equal(t, "https://github.com/foo/bar.js", ref.URL(""))
	assert.Equal(t, "https://git.example.com/foo/bar.js", ref.URL("git.example.com"))
}
