package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rana718/Seedbed/internal/server"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API on the configured port.

Routes:
- POST /generate   {"count", "db_type", "table_name", "insert_into_many"}
- POST /clear      {"db_type", "table_name"}
- POST /staff      {"db_type"}
- GET  /healthz
- GET  /metrics

Every backend with a connection string set is opened at startup. Requests
for a backend that is not configured fail with backend_unavailable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Server.Port
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		set, err := openBackends(ctx, cfg, "")
		if err != nil {
			color.Red("❌ Failed to connect: %v", err)
			return err
		}
		defer set.Close()
		printBackends(set)

		if ensure, _ := cmd.Flags().GetBool("ensure-schema"); ensure {
			if err := set.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("failed to prepare schema: %w", err)
			}
			color.Green("✅ Schema ready")
		}

		d, err := newDispatcher(cfg, set)
		if err != nil {
			return err
		}

		srv := server.New(d, server.Options{
			CORSOrigins: cfg.Server.CORSOrigins,
			Pinger:      set,
		})

		addr := fmt.Sprintf(":%d", port)
		color.Green("🚀 Seedbed listening on http://localhost%s", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config, 3000)")
	serveCmd.Flags().Bool("ensure-schema", true, "create missing tables and indexes before serving")
	rootCmd.AddCommand(serveCmd)
}
