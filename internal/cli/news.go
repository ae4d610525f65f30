package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// newsCmd represents the news command
var newsCmd = &cobra.Command{
	Use:   "news <url|headline>",
	Short: "Score how credible a news URL or headline looks",
	Long: `News checks credibility signals of a news item:
- Clickbait wording and suspicious domain extensions
- Source authority of the publishing host
- Author byline and contact information (fetched pages)
- Emotive language density
- Outbound citations and attributed statements

URLs are fetched (robots.txt aware, rate limited, cached) unless --no-fetch
is given. Anything else is scored as a headline.

Example:
  veracity news https://www.reuters.com/world/some-story
  veracity news "You won't believe what this senator said"
  veracity news https://example.xyz/story --no-fetch --json -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNews,
}

func init() {
	rootCmd.AddCommand(newsCmd)

	addOutputFlags(newsCmd)
	addHTTPFlags(newsCmd)
	addLLMFlags(newsCmd)
}

func runNews(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	p, _, cleanup, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 3*cfg.HTTP.Timeout+5*time.Second)
	defer cancel()

	fmt.Fprintf(os.Stderr, "⚙️  Checking %s\n", query)
	report, err := p.CheckNews(ctx, query)
	if err != nil {
		return err
	}

	return emitReport(cmd, cfg, report)
}
