// Package state persists an unfinished wizard run so it can be resumed.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/stylewiz/internal/logger"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

const draftFile = "draft.json"

// Draft is a saved wizard run.
type Draft struct {
	Run     string          `json:"run"`
	SavedAt time.Time       `json:"saved_at"`
	Wizard  wizard.Snapshot `json:"wizard"`
}

// Path returns the draft file location inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, draftFile)
}

// Load reads the draft from dataDir. It returns (nil, nil) when no draft
// exists.
func Load(dataDir string) (*Draft, error) {
	data, err := os.ReadFile(Path(dataDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		logger.Warn("Failed to parse draft JSON: %v", err)
		return nil, fmt.Errorf("parsing draft: %w", err)
	}
	return &d, nil
}

// Save writes the draft to dataDir, creating it if needed.
func Save(dataDir string, d *Draft) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if d.SavedAt.IsZero() {
		d.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling draft: %w", err)
	}

	// Write beside the target and rename so a crash never leaves a partial draft
	tmp, err := os.CreateTemp(dataDir, draftFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp draft file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing draft file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing draft file: %w", err)
	}

	path := Path(dataDir)
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing draft file: %w", err)
	}

	logger.Debug("Draft saved to %s", path)
	return nil
}

// Clear removes the draft. A missing draft is not an error.
func Clear(dataDir string) error {
	err := os.Remove(Path(dataDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing draft: %w", err)
	}
	return nil
}
