// Rangend serves the document-generation HTTP API: uploads, modernization
// and rollout runs, document inspection and generation history.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rangen-network/rangen/internal/server"
	"github.com/rangen-network/rangen/pkg/util"
	"github.com/rangen-network/rangen/pkg/version"
)

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rangend",
		Short:         "Radio network configuration generation server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `Rangend is the HTTP server behind the rangen workflows.

It accepts planning tables and station documents over HTTP, runs the
modernization and rollout engines, and keeps uploads, generated documents
and generation history.

Example config (rangend.yaml):

  listen: ":8080"
  data_dir: /srv/rangen
  redis_addr: 127.0.0.1:6379
  audit_log: /var/log/rangen/audit.log
  max_upload_mb: 50`,
		Version: version.Info(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				util.SetLogLevel("debug")
			}
			util.SetJSONFormat()

			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}

			srv, err := server.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe(cfg.Listen) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			util.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "rangend.yaml", "Config file path")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
