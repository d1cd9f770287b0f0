package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Rana718/Seedbed/internal/database/relational"
	"github.com/Rana718/Seedbed/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the tables and indexes",
	Long: `Create every missing table on the relational backend and the unique
indexes on MongoDB. Existing tables and data are left untouched.

With --schema-file an extra SQL script (for example lookup tables or indexes)
runs on the relational backend afterwards, statement by statement.

With --print the relational schema for the configured provider is written to
stdout and no connection is made.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if printOnly, _ := cmd.Flags().GetBool("print"); printOnly {
			a, err := relational.New(relational.Options{Provider: cfg.Relational.Provider})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.SchemaSQL())
			return nil
		}

		dbType, _ := cmd.Flags().GetString("db")
		schemaFile, _ := cmd.Flags().GetString("schema-file")

		var script []byte
		if schemaFile != "" {
			if script, err = os.ReadFile(schemaFile); err != nil {
				return fmt.Errorf("failed to read schema file: %w", err)
			}
		}

		ctx := context.Background()
		set, err := openBackends(ctx, cfg, dbType)
		if err != nil {
			color.Red("❌ Failed to connect: %v", err)
			return err
		}
		defer set.Close()
		printBackends(set)

		if err := set.EnsureSchema(ctx); err != nil {
			color.Red("❌ Setup failed: %v", err)
			return err
		}

		if script != nil {
			a, _ := set.Get(types.DBMySQL)
			ra, ok := a.(*relational.Adapter)
			if !ok {
				return fmt.Errorf("--schema-file needs the relational backend (use --db mysql or both)")
			}
			n, err := ra.ExecScript(ctx, string(script))
			if err != nil {
				color.Red("❌ %s failed after %d statements: %v", schemaFile, n, err)
				return err
			}
			color.Cyan("📜 Applied %d statements from %s", n, schemaFile)
		}

		color.Green("✅ Schema ready")
		return nil
	},
}

func init() {
	setupCmd.Flags().String("db", string(types.DBBoth), "backend to prepare: mysql, mongodb or both")
	setupCmd.Flags().String("schema-file", "", "SQL script to run on the relational backend after the built-in tables")
	setupCmd.Flags().Bool("print", false, "print the relational schema instead of applying it")
	rootCmd.AddCommand(setupCmd)
}
