package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Rana718/Seedbed/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	logJSON  bool
	Version  = "0.3.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔════════════════════════════════════════════╗",
		"║                                            ║",
		"║     🌱  S E E D B E D                       ║",
		"║     synthetic data for MySQL and MongoDB   ║",
		"║                                            ║",
		"╚════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("        ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "seedbed",
	Short: "Generate random records into MySQL and MongoDB",
	Long: `
Seedbed fills a relational database and a MongoDB database with plausible
random records: addresses, clients, contracts, employees, payments, projects,
tasks, technologies and staff.

Backends:
- MySQL (also PostgreSQL and SQLite through relational.provider)
- MongoDB

Connection strings are read from MYSQL_URL and MONGODB_URI (see
seedbed.config.json to rename them).`,
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(newLogger())
		return config.Init(cfgFile)
	},

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("Seedbed version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./seedbed.config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func newLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if logJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
