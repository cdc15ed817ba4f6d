package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/stylewiz/internal/template"
	"github.com/spf13/cobra"
)

var genTemplateFlags struct {
	output string
	force  bool
}

var genTemplateCmd = &cobra.Command{
	Use:       "gen-template <review|analysis>",
	Short:     "Write a built-in prompt template for customization",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"review", "analysis"},
	RunE:      runGenTemplate,
}

func init() {
	genTemplateCmd.Flags().StringVarP(&genTemplateFlags.output, "output", "o", "", "Output file (default: <kind>-template.md, - for stdout)")
	genTemplateCmd.Flags().BoolVarP(&genTemplateFlags.force, "force", "f", false, "Overwrite an existing file")
}

func runGenTemplate(cmd *cobra.Command, args []string) error {
	var content, configKey string
	switch args[0] {
	case "review":
		content, configKey = template.DefaultReviewTemplate, "review_template"
	case "analysis":
		content, configKey = template.DefaultAnalysisTemplate, "analysis_template"
	default:
		return fmt.Errorf("unknown template %q (want review or analysis)", args[0])
	}

	out := genTemplateFlags.output
	if out == "-" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}
	if out == "" {
		out = args[0] + "-template.md"
	}

	if !genTemplateFlags.force && fileExists(out) {
		return fmt.Errorf("file already exists: %s\n\nUse --force to overwrite", out)
	}
	if err := os.WriteFile(out, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}

	fmt.Printf("Template written to: %s\n\n", out)
	fmt.Printf("Set '%s: %s' in stylewiz.yml to use it.\n", configKey, out)
	return nil
}
