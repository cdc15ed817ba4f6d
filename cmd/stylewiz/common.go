package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/stylewiz/internal/config"
	"github.com/mark3labs/stylewiz/internal/logger"
	"github.com/mark3labs/stylewiz/internal/nats"
	"github.com/mark3labs/stylewiz/internal/runlog"
	"github.com/spf13/cobra"
)

// configFlags are the config keys that can be overridden on the command line.
var configFlags struct {
	model            string
	generator        string
	endpoint         string
	dataDir          string
	exportDir        string
	contentType      string
	reviewTemplate   string
	analysisTemplate string
	noHistory        bool
}

// addConfigFlags registers the config override flags on cmd.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&configFlags.model, "model", "m", "", "Model ID (overrides config)")
	f.StringVar(&configFlags.generator, "generator", "", "Generator backend: stub or http")
	f.StringVar(&configFlags.endpoint, "endpoint", "", "HTTP generator endpoint")
	f.StringVar(&configFlags.dataDir, "data-dir", "", "Data directory for history and drafts (default: .stylewiz)")
	f.StringVar(&configFlags.exportDir, "export-dir", "", "Directory analyses are saved to")
	f.StringVarP(&configFlags.contentType, "content-type", "c", "", "Content type profile: pillar, cluster, howto, listicle, comparison")
	f.StringVar(&configFlags.reviewTemplate, "review-template", "", "Custom review prompt template file")
	f.StringVar(&configFlags.analysisTemplate, "analysis-template", "", "Custom analysis prompt template file")
	f.BoolVar(&configFlags.noHistory, "no-history", false, "Do not record this run in the history log")
}

// loadConfig loads the layered config, applies explicitly set flags on top
// and configures the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, val string) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst = val
		}
	}
	override("model", &cfg.Model, configFlags.model)
	override("generator", &cfg.Generator, configFlags.generator)
	override("endpoint", &cfg.Endpoint, configFlags.endpoint)
	override("data-dir", &cfg.DataDir, configFlags.dataDir)
	override("export-dir", &cfg.ExportDir, configFlags.exportDir)
	override("content-type", &cfg.ContentType, configFlags.contentType)
	override("review-template", &cfg.ReviewTemplate, configFlags.reviewTemplate)
	override("analysis-template", &cfg.AnalysisTemplate, configFlags.analysisTemplate)
	if flags.Lookup("no-history") != nil && flags.Changed("no-history") {
		cfg.History = !configFlags.noHistory
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return cfg, nil
}

// openHistory starts the embedded NATS server in the data dir and returns
// the run store. The returned close function must always be called.
func openHistory(ctx context.Context, dataDir string) (*runlog.Store, func(), error) {
	bus, err := nats.Open(ctx, filepath.Join(dataDir, "nats"))
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open history: %w", err)
	}
	closeFn := func() {
		if err := bus.Close(); err != nil {
			logger.Warn("Error shutting down NATS: %v", err)
		}
	}
	return runlog.NewStore(bus.JetStream, bus.Stream), closeFn, nil
}
