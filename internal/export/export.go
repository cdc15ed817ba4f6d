// Package export copies a finished analysis to the clipboard or saves it as
// a markdown file.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/mark3labs/stylewiz/internal/logger"
)

// ErrExportFailed wraps every clipboard or file error.
var ErrExportFailed = errors.New("export failed")

// DefaultFileName is used when the keyword is empty.
const DefaultFileName = "analysis.md"

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard uses the OS clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// Copy writes text to cb.
func Copy(cb Clipboard, text string) error {
	if cb == nil {
		cb = SystemClipboard{}
	}
	if err := cb.WriteAll(text); err != nil {
		return fmt.Errorf("%w: copying to clipboard: %w", ErrExportFailed, err)
	}
	logger.Debug("Copied %d bytes to clipboard", len(text))
	return nil
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeChars   = strings.NewReplacer("/", "-", "\\", "-", "\x00", "")
)

// FileName returns "<keyword>.md" with whitespace runs and path separators
// replaced by hyphens.
func FileName(keyword string) string {
	name := strings.TrimSpace(keyword)
	name = whitespaceRun.ReplaceAllString(name, "-")
	name = unsafeChars.Replace(name)
	name = strings.Trim(name, ".")
	if name == "" {
		return DefaultFileName
	}
	return name + ".md"
}

// Save writes text to dir/FileName(keyword) and returns the path.
func Save(dir, keyword, text string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %w", ErrExportFailed, dir, err)
	}

	path := filepath.Join(dir, FileName(keyword))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %w", ErrExportFailed, path, err)
	}
	logger.Info("Saved analysis to %s", path)
	return path, nil
}
