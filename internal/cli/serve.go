package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/veracity/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyses over a JSON HTTP API",
	Long: `Serve starts an HTTP API:
  POST /api/v1/text      {"text": "...", "subject": "..."}
  POST /api/v1/compare   {"a": "...", "b": "..."}
  POST /api/v1/news      {"query": "https://... or a headline"}
  GET  /api/v1/history   ?limit=20 (requires --save or history.enabled)
  GET  /api/v1/history/:id
  GET  /healthz
  GET  /metrics          (Prometheus)

Example:
  veracity serve --addr :8080 --save`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	addHTTPFlags(serveCmd)
	addLLMFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	p, st, cleanup, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var history server.History
	if st != nil {
		history = st
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg.Server, p, history, nil).Run(ctx)
}
