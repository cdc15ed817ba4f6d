package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestFileName(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
	}{
		{keyword: "go generics", want: "go-generics.md"},
		{keyword: "  multiple   spaces\tand\ttabs ", want: "multiple-spaces-and-tabs.md"},
		{keyword: "a/b\\c", want: "a-b-c.md"},
		{keyword: "../escape", want: "-escape.md"},
		{keyword: "Keep Case", want: "Keep-Case.md"},
		{keyword: "", want: DefaultFileName},
		{keyword: "   ", want: DefaultFileName},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.keyword))
		})
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := Save(dir, "go generics", "# Analysis")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "go-generics.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Analysis", string(data))
}

func TestSaveFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := Save(file, "kw", "text")
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestCopy(t *testing.T) {
	cb := &fakeClipboard{}
	require.NoError(t, Copy(cb, "analysis"))
	assert.Equal(t, "analysis", cb.text)

	boom := errors.New("no display")
	err := Copy(&fakeClipboard{err: boom}, "analysis")
	assert.ErrorIs(t, err, ErrExportFailed)
	assert.ErrorIs(t, err, boom)
}
