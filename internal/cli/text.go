package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/veracity/internal/ingest"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/spf13/cobra"
)

var (
	inlineText  string
	textSubject string
)

// textCmd represents the text command
var textCmd = &cobra.Command{
	Use:   "text [file|-]",
	Short: "Score how AI-like a text's writing pattern looks",
	Long: `Text scores a sample with fixed heuristics:
- Sentence length burstiness and uniformity
- AI-typical stock phrases and transition words
- Lexical diversity and predictability

Supported files: .txt .md .html .pdf .docx. Use "-" to read stdin.

Example:
  veracity text essay.md
  veracity text report.pdf --json report.json --md report.md
  cat draft.txt | veracity text -
  veracity text --text "Paste a paragraph here..."`,
	Args: cobra.MaximumNArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringVar(&inlineText, "text", "", "analyze this text instead of a file")
	textCmd.Flags().StringVar(&textSubject, "subject", "", "subject shown in the report")
	addOutputFlags(textCmd)
	addLLMFlags(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	if inlineText == "" && len(args) == 0 {
		return fmt.Errorf("provide a file, \"-\" for stdin, or --text")
	}

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	p, _, cleanup, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	var report *model.Report

	switch {
	case inlineText != "":
		report, err = p.AnalyzeText(ctx, textSubject, inlineText)
	case args[0] == "-":
		var raw []byte
		raw, err = readInput(cmd.InOrStdin(), cfg.Analysis.MaxFileBytes)
		if err != nil {
			return err
		}
		subject := textSubject
		if subject == "" {
			subject = "stdin"
		}
		report, err = p.AnalyzeText(ctx, subject, string(raw))
	default:
		fmt.Fprintf(os.Stderr, "⚙️  Analyzing %s\n", args[0])
		report, err = p.AnalyzeFile(ctx, args[0])
		if err == nil && textSubject != "" {
			report.Subject = textSubject
		}
	}
	if err != nil {
		return err
	}

	return emitReport(cmd, cfg, report)
}

// readInput reads all of r, failing with ingest.ErrFileTooLarge past maxBytes.
// A non-positive limit means ingest.DefaultMaxBytes, as for files.
func readInput(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = ingest.DefaultMaxBytes
	}

	raw, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("stdin exceeds %d bytes: %w", maxBytes, ingest.ErrFileTooLarge)
	}
	return raw, nil
}
