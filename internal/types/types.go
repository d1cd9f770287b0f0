package types

import (
	"fmt"
	"strings"

	"github.com/Rana718/Seedbed/internal/errs"
)

// DBType selects which backend a request is routed to.
type DBType string

const (
	DBMySQL   DBType = "mysql"
	DBMongoDB DBType = "mongodb"
	DBBoth    DBType = "both"
)

// Backends lists the concrete backends "both" fans out to, in reporting order.
func Backends() []DBType {
	return []DBType{DBMySQL, DBMongoDB}
}

func ParseDBType(s string) (DBType, error) {
	switch DBType(strings.ToLower(strings.TrimSpace(s))) {
	case DBMySQL:
		return DBMySQL, nil
	case DBMongoDB:
		return DBMongoDB, nil
	case DBBoth:
		return DBBoth, nil
	case "":
		return "", errs.InvalidArgument("parse db_type", "db_type is required")
	default:
		return "", errs.InvalidArgument("parse db_type", "unsupported db_type %q", s)
	}
}

func (d DBType) String() string {
	return string(d)
}

type ColumnType int

const (
	ColumnString ColumnType = iota
	ColumnInt
	ColumnFloat
	ColumnDate
)

func (c ColumnType) String() string {
	switch c {
	case ColumnString:
		return "string"
	case ColumnInt:
		return "int"
	case ColumnFloat:
		return "float"
	case ColumnDate:
		return "date"
	default:
		return fmt.Sprintf("column_type(%d)", int(c))
	}
}

type SchemaTable struct {
	Name    string
	Columns []SchemaColumn
}

type SchemaColumn struct {
	Name            string
	Type            ColumnType
	Nullable        bool
	IsPrimary       bool
	IsUnique        bool
	IsAutoIncrement bool
}
