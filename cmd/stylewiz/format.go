package main

import (
	"fmt"

	"github.com/mark3labs/stylewiz/internal/research"
	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:   "format <results-file>",
	Short: "Print the research text built from a search results file",
	Long: `Print the research text built from a search results file.

Each result becomes a markdown block with its title, source URL and content
(HTML is converted to markdown, the snippet is used when content is missing).
Blocks are separated by horizontal rules in the order of the file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := research.LoadResults(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), research.Format(results))
		return nil
	},
}
