package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/stylewiz/internal/research"
	"github.com/mark3labs/stylewiz/internal/template"
	"github.com/spf13/cobra"
)

var resolveFlags struct {
	template string
	keyword  string
	results  string
	binds    []string
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [template-file]",
	Short: "Resolve placeholders in a prompt template",
	Long: `Resolve placeholders in a prompt template and print the result.

The template is read from the given file, or the built-in review template is
used. --keyword binds both [KEYWORD] and [keyword]; --results formats a search
results file and binds it to [CONTENT]. Extra bindings are given as
--bind '[TOKEN]=value' and take precedence when listed first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveFlags.keyword, "keyword", "k", "", "Value for [KEYWORD] and [keyword]")
	resolveCmd.Flags().StringVarP(&resolveFlags.results, "results", "r", "", "Search results file whose formatted research fills [CONTENT]")
	resolveCmd.Flags().StringArrayVarP(&resolveFlags.binds, "bind", "b", nil, "Extra binding as [TOKEN]=value (repeatable)")
}

// parseBinding splits "[TOKEN]=value" at the first '='.
func parseBinding(s string) (template.Binding, error) {
	placeholder, value, ok := strings.Cut(s, "=")
	if !ok || placeholder == "" {
		return template.Binding{}, fmt.Errorf("invalid binding %q, want [TOKEN]=value", s)
	}
	return template.Bind(placeholder, value), nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	tmpl := template.DefaultReviewTemplate
	if len(args) == 1 {
		var err error
		tmpl, err = template.LoadFromFile(args[0])
		if err != nil {
			return err
		}
	}

	var bindings []template.Binding
	for _, s := range resolveFlags.binds {
		b, err := parseBinding(s)
		if err != nil {
			return err
		}
		bindings = append(bindings, b)
	}

	if cmd.Flags().Changed("keyword") {
		bindings = append(bindings,
			template.Bind(template.PlaceholderKeyword, resolveFlags.keyword),
			template.Bind(template.PlaceholderKeywordLower, resolveFlags.keyword),
		)
	}
	if resolveFlags.results != "" {
		results, err := research.LoadResults(resolveFlags.results)
		if err != nil {
			return err
		}
		bindings = append(bindings, template.Bind(template.PlaceholderContent, research.Format(results)))
	}

	out := template.Resolve(tmpl, bindings...)
	fmt.Fprint(cmd.OutOrStdout(), out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(cmd.OutOrStdout())
	}

	if pending := template.Placeholders(out); len(pending) > 0 {
		fmt.Fprintf(os.Stderr, "Unresolved placeholders: %s\n", strings.Join(pending, ", "))
	}
	return nil
}
