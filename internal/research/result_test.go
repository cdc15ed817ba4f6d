package research

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadResults(t *testing.T) {
	want := []SearchResult{
		{Title: "A", URL: "u1", Snippet: "s1", SearchKeyword: "go"},
		{Title: "B", URL: "u2", Snippet: "s2", Content: "<p>c</p>", SearchKeyword: "go"},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json list",
			file: "results.json",
			content: `[
  {"title":"A","url":"u1","snippet":"s1","searchKeyword":"go"},
  {"title":"B","url":"u2","snippet":"s2","content":"<p>c</p>","searchKeyword":"go"}
]`,
		},
		{
			name:    "json envelope",
			file:    "results.json",
			content: `{"results":[{"title":"A","url":"u1","snippet":"s1","searchKeyword":"go"},{"title":"B","url":"u2","snippet":"s2","content":"<p>c</p>","searchKeyword":"go"}]}`,
		},
		{
			name: "yaml list",
			file: "results.yaml",
			content: `- title: A
  url: u1
  snippet: s1
  searchKeyword: go
- title: B
  url: u2
  snippet: s2
  content: <p>c</p>
  searchKeyword: go
`,
		},
		{
			name: "yaml envelope",
			file: "results.yml",
			content: `results:
  - title: A
    url: u1
    snippet: s1
    searchKeyword: go
  - title: B
    url: u2
    snippet: s2
    content: <p>c</p>
    searchKeyword: go
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadResults(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadResultsErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadResults(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := LoadResults(writeFile(t, "results.csv", "a,b"))
		assert.ErrorContains(t, err, "unsupported")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := LoadResults(writeFile(t, "results.json", "[{"))
		assert.Error(t, err)
	})

	t.Run("empty yaml", func(t *testing.T) {
		got, err := LoadResults(writeFile(t, "results.yaml", ""))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestKeywordOf(t *testing.T) {
	assert.Equal(t, "", KeywordOf(nil))
	assert.Equal(t, "go", KeywordOf([]SearchResult{{SearchKeyword: "  "}, {SearchKeyword: " go "}, {SearchKeyword: "rust"}}))
}

func TestEqual(t *testing.T) {
	a := []SearchResult{{Title: "A"}, {Title: "B"}}
	assert.True(t, Equal(a, []SearchResult{{Title: "A"}, {Title: "B"}}))
	assert.False(t, Equal(a, []SearchResult{{Title: "B"}, {Title: "A"}}))
	assert.False(t, Equal(a, a[:1]))
	assert.True(t, Equal(nil, []SearchResult{}))
}

func TestTitleSegment(t *testing.T) {
	tests := map[string]string{
		"Go Generics Guide | Example Site": "Go Generics Guide",
		"Intro - Part 1 | Blog":            "Intro",
		"No separators here":               "No separators here",
		"  padded  ":                       "padded",
		"":                                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, TitleSegment(in), "TitleSegment(%q)", in)
	}
}

func TestSentences(t *testing.T) {
	assert.Nil(t, Sentences("   ", 0))
	assert.Equal(t, []string{"One.", "Two!", "Three?", "Four"}, Sentences("One. Two!\nThree?  Four", 0))
	assert.Equal(t, []string{"One.", "Two!"}, Sentences("One. Two! Three.", 2))
	assert.Equal(t, []string{"Version 1.2 is out."}, Sentences("Version 1.2 is out.", 0))
	assert.Equal(t, "One. Two.", Summary("One. Two. Three.", 2))
}
