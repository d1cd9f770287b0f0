package cmd

import (
	"context"

	"github.com/Rana718/Seedbed/internal/dispatch"
	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/export"
	"github.com/Rana718/Seedbed/internal/records"
	"github.com/Rana718/Seedbed/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print every record of a table",
	Long: `Read every record of one table from a single backend and print it as
JSON, YAML or CSV.

Examples:
  seedbed fetch --db mongodb
  seedbed fetch --table client --db mysql --output yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		table, _ := cmd.Flags().GetString("table")
		dbType, _ := cmd.Flags().GetString("db")
		output, _ := cmd.Flags().GetString("output")

		kind, backend, err := checkTarget(table, dbType)
		if err != nil {
			return err
		}
		if backend == types.DBBoth {
			return errs.InvalidArgument("fetch", "--db both is not supported, pick mysql or mongodb")
		}
		if err := export.CheckFormat(output); err != nil {
			return err
		}

		ctx := context.Background()
		set, err := openBackends(ctx, cfg, dbType)
		if err != nil {
			color.Red("❌ Failed to connect: %v", err)
			return err
		}
		defer set.Close()

		d, err := newDispatcher(cfg, set)
		if err != nil {
			return err
		}

		batch, err := d.Fetch(ctx, dispatch.FetchRequest{DBType: dbType, TableName: table})
		if err != nil {
			color.Red("❌ Fetch failed: %v", err)
			return err
		}

		if dir, _ := cmd.Flags().GetString("out-dir"); dir != "" {
			path, err := export.ToFile(dir, kind, batch, output)
			if err != nil {
				return err
			}
			color.Green("✅ Exported %d records to %s", len(batch), path)
			return nil
		}
		return export.Write(cmd.OutOrStdout(), kind, batch, output)
	},
}

func init() {
	fetchCmd.Flags().StringP("table", "t", string(records.KindStaff), "table to read")
	fetchCmd.Flags().String("db", string(types.DBMySQL), "source backend: mysql or mongodb")
	fetchCmd.Flags().String("out-dir", "", "write the export to a timestamped file in this directory")
	fetchCmd.Flags().StringP("output", "o", "json", "output format: json, yaml or csv")
	rootCmd.AddCommand(fetchCmd)
}
