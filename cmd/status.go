package cmd

import (
	"context"
	"time"

	"github.com/Rana718/Seedbed/internal/config"
	"github.com/Rana718/Seedbed/internal/database"
	"github.com/Rana718/Seedbed/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend configuration and connectivity",
	Long: `Show, for MySQL and MongoDB:
- whether a connection string is set
- the masked connection string and dedup policy
- whether the backend answers a ping

Use it to check the environment before running serve or generate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		healthy := 0
		for _, b := range types.Backends() {
			if reportBackend(ctx, cfg, b) {
				healthy++
			}
		}

		if healthy == 0 {
			color.Red("❌ No backend reachable")
			return nil
		}
		color.Green("✅ %d of %d backends reachable", healthy, len(types.Backends()))
		return nil
	},
}

func reportBackend(ctx context.Context, cfg *config.Config, backend types.DBType) bool {
	var (
		url   string
		err   error
		dedup string
	)
	switch backend {
	case types.DBMySQL:
		url, err = cfg.RelationalURL()
		dedup = cfg.Relational.Dedup
	case types.DBMongoDB:
		url, err = cfg.DocumentURI()
		dedup = cfg.Document.Dedup
	}
	if err != nil {
		color.Yellow("⚪ %s: not configured (%v)", backend, err)
		return false
	}

	color.Cyan("🔌 %s: %s (dedup: %s)", backend, maskDBURL(url), dedup)

	a, err := database.NewAdapter(ctx, backend, cfg, nil)
	if err != nil {
		color.Red("   ❌ %v", err)
		return false
	}
	defer a.Close()

	color.Green("   ✅ reachable")
	return true
}

// maskDBURL masks credentials in a connection string for display.
func maskDBURL(url string) string {
	if len(url) < 20 {
		return "***"
	}
	return url[:10] + "***" + url[len(url)-10:]
}
