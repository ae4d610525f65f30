package cli

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/ppiankov/veracity/internal/pipeline"
	"github.com/ppiankov/veracity/internal/store"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved reports",
	Long: `History lists, shows and deletes reports saved with --save
(or history.enabled in the config file).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		entries, err := st.List(context.Background(), historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved reports.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tSCORE\tLABEL\tANALYZED\tSUBJECT")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
				e.ID, e.Kind, e.Score, e.Label, e.AnalyzedAt.Local().Format("2006-01-02 15:04"), truncateSubject(e.Subject))
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		report, err := st.Get(context.Background(), args[0])
		if err != nil {
			return err
		}

		renderer := pipeline.NewRenderer(false)
		if historyJSON {
			return renderer.WriteJSON(cmd.OutOrStdout(), report)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderer.Markdown(report))
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err := st.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)

	historyListCmd.Flags().IntVar(&historyLimit, "limit", store.DefaultListLimit, "number of reports to list")
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "print the report as JSON")
}

func openHistory() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.History.Path, slog.Default())
}

func truncateSubject(s string) string {
	r := []rune(s)
	if len(r) <= 60 {
		return s
	}
	return string(r[:59]) + "…"
}
