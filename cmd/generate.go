package cmd

import (
	"context"

	"github.com/Rana718/Seedbed/internal/dispatch"
	"github.com/Rana718/Seedbed/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate random records into a backend",
	Long: `Generate random records and write them to MySQL, MongoDB or both.

Examples:
  seedbed generate --table client --count 100 --db mysql
  seedbed generate --many --count 10 --db both

--many generates count records of every table (staff excluded) and ignores
--table. With --db both each backend receives the same records; a failure on
one backend does not roll back the other.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		table, _ := cmd.Flags().GetString("table")
		count, _ := cmd.Flags().GetInt("count")
		dbType, _ := cmd.Flags().GetString("db")
		many, _ := cmd.Flags().GetBool("many")

		if err := checkCount(cfg, count); err != nil {
			return err
		}
		if many {
			_, err = types.ParseDBType(dbType)
		} else {
			_, _, err = checkTarget(table, dbType)
		}
		if err != nil {
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

		res, err := d.Generate(ctx, dispatch.GenerateRequest{
			Count:          count,
			DBType:         dbType,
			TableName:      table,
			InsertIntoMany: many,
		})
		if res != nil {
			printWriteStats(res)
		}
		if err != nil {
			color.Red("❌ Generate failed: %v", err)
			return err
		}

		color.Green("✅ Generated %d", res.Count)
		return nil
	},
}

func printWriteStats(res *dispatch.GenerateResult) {
	for _, b := range types.Backends() {
		stats, ok := res.Stats[b]
		if !ok {
			continue
		}
		color.Cyan("📊 %s: %d written, %d skipped of %d", b, stats.Written, stats.Skipped, stats.Attempted)
	}
}

func init() {
	generateCmd.Flags().StringP("table", "t", "", "table to fill: address, client, contract, employee, payment, project, task, technology, staff")
	generateCmd.Flags().IntP("count", "n", 10, "number of records to generate")
	generateCmd.Flags().String("db", string(types.DBMySQL), "target backend: mysql, mongodb or both")
	generateCmd.Flags().Bool("many", false, "generate count records of every table")
	rootCmd.AddCommand(generateCmd)
}
