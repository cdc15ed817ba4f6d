package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/stylewiz/internal/config"
	"github.com/mark3labs/stylewiz/internal/template"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project     bool
	force       bool
	model       string
	generator   string
	endpoint    string
	contentType string
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create stylewiz configuration file",
	Long: `Create a stylewiz configuration file with sensible defaults.

By default, creates a global config at ~/.config/stylewiz/stylewiz.yml.
Use --project to create a project-local config in the current directory.
API keys are best kept in STYLEWIZ_API_KEY or a .env file.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().StringVarP(&setupFlags.model, "model", "m", "", "Default model ID")
	setupCmd.Flags().StringVar(&setupFlags.generator, "generator", config.GeneratorStub, "Generator backend: stub or http")
	setupCmd.Flags().StringVar(&setupFlags.endpoint, "endpoint", "", "HTTP generator endpoint")
	setupCmd.Flags().StringVarP(&setupFlags.contentType, "content-type", "c", string(template.Pillar), "Default content type")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	ct, err := template.ParseContentType(setupFlags.contentType)
	if err != nil {
		return err
	}

	cfg := config.Defaults()
	cfg.Model = setupFlags.model
	cfg.Generator = setupFlags.generator
	cfg.Endpoint = setupFlags.endpoint
	cfg.ContentType = string(ct)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Config written to: %s\n\n", targetPath)
	fmt.Println("Run 'stylewiz run' to get started.")
	return nil
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
