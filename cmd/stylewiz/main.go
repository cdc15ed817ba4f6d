package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/stylewiz/internal/logger"
	"github.com/mark3labs/stylewiz/internal/tui/theme"
	"github.com/spf13/cobra"
)

const logoText = "▄▀▀ ▀█▀ █▄█ █   █▀▀ █ █ █ █ ▀█▀\n▄██  █   █  █▄▄ ██▄ ▀▄▀▄▀ █ █▄▄"

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stylewiz",
	Short: "Guided writing style analysis from search research",
}

func init() {
	rootCmd.Long = theme.Current().S().Title.Render(logoText) + `

stylewiz walks you through a five step wizard: pick a model, load the search
results gathered for a keyword, review the prompt built from them, generate a
writing style analysis and export it to the clipboard or a markdown file.

Every run is recorded in an embedded NATS JetStream log (see 'stylewiz history')
and an unfinished run can be resumed with 'stylewiz run --resume'.`

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(genTemplateCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(historyCmd)
}
