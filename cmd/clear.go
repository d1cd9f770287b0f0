package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/Seedbed/internal/dispatch"
	"github.com/Rana718/Seedbed/internal/types"
	"github.com/Rana718/Seedbed/internal/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record of a table",
	Long: `Delete every record of one table (or collection) on MySQL, MongoDB or both.

Examples:
  seedbed clear --table payment --db mysql
  seedbed clear --table staff --db both`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		table, _ := cmd.Flags().GetString("table")
		dbType, _ := cmd.Flags().GetString("db")
		force, _ := cmd.Flags().GetBool("force")

		if _, _, err := checkTarget(table, dbType); err != nil {
			return err
		}

		msg := fmt.Sprintf("⚠️  Delete every %s record on %s?", table, dbType)
		if !utils.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), msg, force) {
			color.Yellow("Clear cancelled")
			return nil
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

		res, err := d.Clear(ctx, dispatch.ClearRequest{DBType: dbType, TableName: table})
		if res != nil {
			for _, b := range types.Backends() {
				if n, ok := res.Deleted[b]; ok {
					color.Cyan("🗑️  %s: %d deleted from %s", b, n, res.Kind)
				}
			}
		}
		if err != nil {
			color.Red("❌ Clear failed: %v", err)
			return err
		}

		color.Green("✅ Cleared %s", res.DBType)
		return nil
	},
}

func init() {
	clearCmd.Flags().StringP("table", "t", "", "table to clear")
	clearCmd.Flags().String("db", string(types.DBMySQL), "target backend: mysql, mongodb or both")
	clearCmd.Flags().BoolP("force", "f", false, "skip the confirmation prompt")
	clearCmd.MarkFlagRequired("table")
	rootCmd.AddCommand(clearCmd)
}
