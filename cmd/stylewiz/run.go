package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/stylewiz/internal/config"
	"github.com/mark3labs/stylewiz/internal/export"
	"github.com/mark3labs/stylewiz/internal/generator"
	"github.com/mark3labs/stylewiz/internal/hooks"
	"github.com/mark3labs/stylewiz/internal/logger"
	"github.com/mark3labs/stylewiz/internal/research"
	"github.com/mark3labs/stylewiz/internal/runlog"
	"github.com/mark3labs/stylewiz/internal/state"
	"github.com/mark3labs/stylewiz/internal/template"
	"github.com/mark3labs/stylewiz/internal/tui"
	"github.com/mark3labs/stylewiz/internal/wizard"
	"github.com/spf13/cobra"
)

var runFlags struct {
	results     string
	keyword     string
	headless    bool
	resume      bool
	copy        bool
	save        bool
	temperature float64
	maxTokens   int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the style analysis wizard",
	Long: `Run the style analysis wizard.

Without --headless a full-screen wizard guides you through the five steps.
With --headless every step is taken automatically from the flags and config,
the analysis is printed to stdout and optionally copied or saved.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.results, "results", "r", "", "Search results file (JSON or YAML)")
	runCmd.Flags().StringVarP(&runFlags.keyword, "keyword", "k", "", "Keyword (default: the keyword stored in the results)")
	runCmd.Flags().BoolVar(&runFlags.headless, "headless", false, "Run without TUI")
	runCmd.Flags().BoolVar(&runFlags.resume, "resume", false, "Resume the last unfinished run")
	runCmd.Flags().BoolVar(&runFlags.copy, "copy", false, "Headless: copy the analysis to the clipboard")
	runCmd.Flags().BoolVar(&runFlags.save, "save", false, "Headless: save the analysis as <keyword>.md in the export dir")
	runCmd.Flags().Float64Var(&runFlags.temperature, "temperature", 0, "Sampling temperature passed to the generator")
	runCmd.Flags().IntVar(&runFlags.maxTokens, "max-tokens", 0, "Max tokens passed to the generator")
	addConfigFlags(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	gen, err := generator.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	set, err := template.LoadSet(cfg.ReviewTemplate, cfg.AnalysisTemplate)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	contentType, err := template.ParseContentType(cfg.ContentType)
	if err != nil {
		return err
	}

	var results []research.SearchResult
	if runFlags.results != "" {
		results, err = research.LoadResults(runFlags.results)
		if err != nil {
			return err
		}
	}

	var draft *state.Draft
	if runFlags.resume {
		draft, err = state.Load(cfg.DataDir)
		if err != nil {
			return err
		}
		if draft == nil {
			return fmt.Errorf("no unfinished run to resume in %s", cfg.DataDir)
		}
	}

	keyword := runFlags.keyword
	if keyword == "" {
		keyword = research.KeywordOf(results)
	}
	runID := runlog.NewRunID(keyword)
	if draft != nil {
		runID = draft.Run
		if keyword == "" {
			keyword = draft.Wizard.Context.Keyword
		}
	}

	ctx := cmd.Context()
	if runFlags.headless {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	opts := []wizard.Option{
		wizard.WithTemplates(set),
		wizard.WithContentType(contentType),
	}
	if cfg.History {
		store, closeHistory, err := openHistory(ctx, cfg.DataDir)
		if err != nil {
			return err
		}
		defer closeHistory()
		opts = append(opts, wizard.WithObserver(runlog.NewRecorder(store, runID, keyword)))
	}

	hooksCfg, err := hooks.LoadConfig(".")
	if err != nil {
		return err
	}
	if hooksCfg != nil {
		workDir, _ := os.Getwd()
		opts = append(opts, wizard.WithObserver(hooks.NewRunner(ctx, hooksCfg, workDir, runID)))
	}

	ctrl := wizard.New(gen, opts...)
	if draft != nil {
		if err := ctrl.Restore(draft.Wizard); err != nil {
			return fmt.Errorf("failed to restore draft: %w", err)
		}
		logger.Info("Resumed run %s at %s step", runID, draft.Wizard.Step)
	}

	model := generator.ModelConfig{
		ID:          cfg.Model,
		Temperature: runFlags.temperature,
		MaxTokens:   runFlags.maxTokens,
	}

	if runFlags.headless {
		return runHeadless(ctx, ctrl, cfg, model, keyword, results)
	}

	err = tui.Run(ctx, tui.Options{
		Controller:  ctrl,
		Config:      cfg,
		Keyword:     runFlags.keyword,
		ResultsPath: runFlags.results,
		Results:     results,
	})
	ctrl.Cancel()
	if err != nil {
		return err
	}
	return finishInteractive(ctrl, cfg.DataDir, runID)
}

// finishInteractive clears the draft of a finished run or saves the state
// of an unfinished one.
func finishInteractive(ctrl *wizard.Controller, dataDir, runID string) error {
	step := ctrl.Step()
	if step == wizard.StepDone {
		return state.Clear(dataDir)
	}
	if step == wizard.StepConfig && ctrl.Context().Model.ID == "" {
		return nil
	}
	if err := state.Save(dataDir, &state.Draft{Run: runID, Wizard: ctrl.Snapshot()}); err != nil {
		return err
	}
	fmt.Printf("Run %s saved at the %s step. Resume with 'stylewiz run --resume'.\n", runID, step.Title())
	return nil
}

// runHeadless drives the controller through every remaining step.
func runHeadless(ctx context.Context, ctrl *wizard.Controller, cfg *config.Config, model generator.ModelConfig, keyword string, results []research.SearchResult) error {
	for ctrl.Step() != wizard.StepDone {
		step := ctrl.Step()
		var err error
		switch step {
		case wizard.StepConfig:
			err = ctrl.Advance(wizard.ConfigOutput{Model: model})
		case wizard.StepSearch:
			if len(results) == 0 {
				results = ctrl.Context().SearchResults
			}
			err = ctrl.Advance(wizard.SearchOutput{Keyword: keyword, Results: results})
		case wizard.StepReview:
			err = ctrl.Advance(wizard.ReviewOutput{})
		case wizard.StepAnalysis:
			wctx := ctrl.Context()
			if !wctx.HasResult() || wctx.Stale {
				fmt.Fprintf(os.Stderr, "Generating analysis with %s...\n", wctx.Model.ID)
				if _, err := ctrl.Generate(ctx); err != nil {
					return err
				}
			}
			err = ctrl.Advance(wizard.AnalysisOutput{})
		}
		if err != nil {
			return fmt.Errorf("%s step: %w", step, err)
		}
	}

	wctx := ctrl.Context()
	if !wctx.HasResult() {
		return fmt.Errorf("run finished without an analysis: %w", wizard.ErrMissingPrerequisite)
	}
	text := wctx.AnalysisResult.Text

	var exportErr error
	if runFlags.copy {
		err := export.Copy(export.SystemClipboard{}, text)
		ctrl.Exported(tui.TargetClipboard, err)
		if err != nil {
			exportErr = errors.Join(exportErr, err)
		} else {
			fmt.Fprintln(os.Stderr, "Copied analysis to clipboard")
		}
	}
	if runFlags.save {
		path, err := export.Save(cfg.ExportDir, wctx.Keyword, text)
		target := path
		if err != nil {
			target = export.FileName(wctx.Keyword)
		}
		ctrl.Exported(target, err)
		if err != nil {
			exportErr = errors.Join(exportErr, err)
		} else {
			fmt.Fprintf(os.Stderr, "Saved analysis to %s\n", path)
		}
	}

	fmt.Println(text)
	if exportErr != nil {
		return exportErr
	}
	return state.Clear(cfg.DataDir)
}
