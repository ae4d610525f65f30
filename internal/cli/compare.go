package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <file-a> <file-b>",
	Short: "Compare the AI-likeness of two texts side by side",
	Long: `Compare scores two documents with the same rules and reports the delta
and which one shows more AI-typical patterns.

Example:
  veracity compare draft.md final.md
  veracity compare a.txt b.docx --md comparison.md`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	addOutputFlags(compareCmd)
	addLLMFlags(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	p, _, cleanup, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := p.CompareFiles(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}

	return emitReport(cmd, cfg, report)
}
