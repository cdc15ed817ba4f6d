package hooks

import "time"

// Config is the top-level configuration for hooks loaded from .stylewiz.hooks.yml.
type Config struct {
	Version int         `yaml:"version"`
	Hooks   HooksConfig `yaml:"hooks"`
}

// HooksConfig contains all hook configurations.
type HooksConfig struct {
	// OnGenerate runs after every successful generation with the analysis
	// on stdin.
	OnGenerate []*HookConfig `yaml:"on_generate"`
	// OnExport runs after every successful export.
	OnExport []*HookConfig `yaml:"on_export"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout"` // seconds, default 30
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30

// timeout returns the configured timeout, or DefaultTimeout when unset.
func (h *HookConfig) timeout() time.Duration {
	if h.Timeout <= 0 {
		return DefaultTimeout * time.Second
	}
	return time.Duration(h.Timeout) * time.Second
}
