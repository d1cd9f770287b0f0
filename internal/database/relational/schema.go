package relational

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rana718/Seedbed/internal/database/common"
	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/records"
	"github.com/Rana718/Seedbed/internal/types"
)

func (a *Adapter) FormatColumnType(column types.SchemaColumn) string {
	parts := []string{a.dialect.columnType(column)}
	switch {
	case column.IsPrimary && column.IsAutoIncrement && a.dialect.Name == "sqlite":
		parts = append(parts, "PRIMARY KEY AUTOINCREMENT")
	case column.IsPrimary:
		parts = append(parts, "PRIMARY KEY")
	default:
		if !column.Nullable {
			parts = append(parts, "NOT NULL")
		}
		if column.IsUnique {
			parts = append(parts, "UNIQUE")
		}
	}
	return strings.Join(parts, " ")
}

func (a *Adapter) GenerateCreateTableSQL(table types.SchemaTable) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (", a.dialect.quote(table.Name)))
	for i, column := range table.Columns {
		comma := ","
		if i == len(table.Columns)-1 {
			comma = ""
		}
		lines = append(lines, fmt.Sprintf("  %s %s%s", a.dialect.quote(column.Name), a.FormatColumnType(column), comma))
	}
	lines = append(lines, ")"+a.dialect.tableSuffix+";")
	return strings.Join(lines, "\n")
}

// SchemaSQL is the bootstrap script for every kind, legacy staff included.
func (a *Adapter) SchemaSQL() string {
	var script []string
	for _, k := range records.AllKinds() {
		script = append(script, a.GenerateCreateTableSQL(records.SpecFor(k).Schema()))
	}
	return strings.Join(script, "\n\n") + "\n"
}

// EnsureSchema creates any missing table. Existing tables are left untouched.
func (a *Adapter) EnsureSchema(ctx context.Context) error {
	for _, k := range records.AllKinds() {
		stmt := a.GenerateCreateTableSQL(records.SpecFor(k).Schema())
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return errs.WriteFailure("relational.ensure_schema", err, "failed to execute %q", firstLine(stmt))
		}
	}
	a.logger.Info("schema ensured", "tables", len(records.AllKinds()))
	return nil
}

// ExecScript runs a user-supplied SQL script statement by statement, for
// tables laid out differently from the built-in schema. It stops at the first
// failing statement.
func (a *Adapter) ExecScript(ctx context.Context, script string) (int, error) {
	stmts := common.ParseSQLStatements(script)
	for i, stmt := range stmts {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return i, errs.WriteFailure("relational.exec_script", err, "statement %d: %q", i+1, firstLine(stmt))
		}
	}
	a.logger.Info("schema script applied", "statements", len(stmts))
	return len(stmts), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
