package records

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/types"
)

// Kind tags which entity shape a record or batch belongs to. The value doubles
// as table name, collection name and dispatch key.
type Kind string

const (
	KindAddress    Kind = "address"
	KindClient     Kind = "client"
	KindContract   Kind = "contract"
	KindEmployee   Kind = "employee"
	KindPayment    Kind = "payment"
	KindProject    Kind = "project"
	KindTask       Kind = "task"
	KindTechnology Kind = "technology"

	// KindStaff is the single-table shape served before the other kinds
	// existed. It is addressable by name but not part of Kinds().
	KindStaff Kind = "staff"
)

type Column struct {
	Name string
	Type types.ColumnType
}

// Spec is the fixed storage shape of one kind.
type Spec struct {
	Kind    Kind
	Table   string
	Tag     string
	Columns []Column
	// Key is the natural key column used for dedup, empty when the kind has none.
	Key string
	// KeyIsPrimary marks kinds whose natural key is also the row's primary key.
	KeyIsPrimary bool
}

func (k Kind) String() string {
	return string(k)
}

var specs = map[Kind]*Spec{
	KindAddress: {
		Kind: KindAddress, Table: "address", Tag: "Address",
		Columns: []Column{
			{"city", types.ColumnString},
			{"street", types.ColumnString},
			{"street_number", types.ColumnString},
			{"postal_code", types.ColumnString},
		},
	},
	KindClient: {
		Kind: KindClient, Table: "client", Tag: "Client", Key: "email",
		Columns: []Column{
			{"first_name", types.ColumnString},
			{"last_name", types.ColumnString},
			{"email", types.ColumnString},
			{"phone_number", types.ColumnString},
		},
	},
	KindContract: {
		Kind: KindContract, Table: "contract", Tag: "Contract",
		Columns: []Column{
			{"type_of_contract", types.ColumnString},
			{"start_date", types.ColumnDate},
			{"end_date", types.ColumnDate},
			{"salary", types.ColumnInt},
		},
	},
	KindEmployee: {
		Kind: KindEmployee, Table: "employee", Tag: "Employee", Key: "email",
		Columns: []Column{
			{"first_name", types.ColumnString},
			{"last_name", types.ColumnString},
			{"email", types.ColumnString},
			{"phone_number", types.ColumnString},
			{"position", types.ColumnString},
			{"contract_date", types.ColumnDate},
		},
	},
	KindPayment: {
		Kind: KindPayment, Table: "payment", Tag: "Payment",
		Columns: []Column{
			{"amount", types.ColumnFloat},
			{"payment_due_date", types.ColumnDate},
			{"method", types.ColumnString},
		},
	},
	KindProject: {
		Kind: KindProject, Table: "project", Tag: "Project",
		Columns: []Column{
			{"name", types.ColumnString},
			{"description", types.ColumnString},
			{"start_date", types.ColumnDate},
			{"end_date", types.ColumnDate},
			{"status", types.ColumnString},
		},
	},
	KindTask: {
		Kind: KindTask, Table: "task", Tag: "Task",
		Columns: []Column{
			{"name", types.ColumnString},
			{"description", types.ColumnString},
			{"start_date", types.ColumnDate},
			{"end_date", types.ColumnDate},
			{"status", types.ColumnString},
		},
	},
	KindTechnology: {
		Kind: KindTechnology, Table: "technology", Tag: "Technology",
		Columns: []Column{
			{"name", types.ColumnString},
			{"description", types.ColumnString},
		},
	},
	KindStaff: {
		Kind: KindStaff, Table: "staff", Tag: "Staff", Key: "id", KeyIsPrimary: true,
		Columns: []Column{
			{"id", types.ColumnInt},
			{"name", types.ColumnString},
			{"department", types.ColumnString},
			{"salary", types.ColumnInt},
			{"phone", types.ColumnString},
			{"hire_date", types.ColumnDate},
		},
	},
}

var canonical = []Kind{
	KindAddress,
	KindClient,
	KindContract,
	KindEmployee,
	KindPayment,
	KindProject,
	KindTask,
	KindTechnology,
}

// Kinds returns the canonical entity kinds in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(canonical))
	copy(out, canonical)
	return out
}

// AllKinds returns Kinds() plus the legacy staff kind.
func AllKinds() []Kind {
	return append(Kinds(), KindStaff)
}

func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return "", errs.InvalidArgument("parse table_name", "table_name is required")
	}
	if _, ok := specs[Kind(name)]; !ok {
		return "", errs.InvalidArgument("parse table_name", "unsupported table_name %q", s)
	}
	return Kind(name), nil
}

// SpecFor returns the storage shape of k, or nil for an unknown kind.
func SpecFor(k Kind) *Spec {
	return specs[k]
}

func (k Kind) Valid() bool {
	_, ok := specs[k]
	return ok
}

func (s *Spec) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

func (s *Spec) keyIndex() int {
	if s.Key == "" {
		return -1
	}
	for i, c := range s.Columns {
		if c.Name == s.Key {
			return i
		}
	}
	return -1
}

// KeyArg converts a natural key back to the column's stored type.
func (s *Spec) KeyArg(key string) (any, error) {
	i := s.keyIndex()
	if i < 0 {
		return nil, fmt.Errorf("%s has no natural key", s.Kind)
	}
	if s.Columns[i].Type != types.ColumnInt {
		return key, nil
	}
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s key %q is not an integer", s.Kind, key)
	}
	return n, nil
}

// KeyField is the dotted document path of the natural key, e.g. "Client.email".
func (s *Spec) KeyField() string {
	if s.Key == "" {
		return ""
	}
	return s.Tag + "." + s.Key
}

// Schema describes the relational table for the kind. Kinds whose natural key
// is not their primary key get a surrogate auto-increment id.
func (s *Spec) Schema() types.SchemaTable {
	table := types.SchemaTable{Name: s.Table}
	if !s.KeyIsPrimary {
		table.Columns = append(table.Columns, types.SchemaColumn{
			Name:            "id",
			Type:            types.ColumnInt,
			IsPrimary:       true,
			IsAutoIncrement: true,
		})
	}
	for _, c := range s.Columns {
		col := types.SchemaColumn{Name: c.Name, Type: c.Type}
		if c.Name == s.Key {
			col.IsPrimary = s.KeyIsPrimary
			col.IsUnique = !s.KeyIsPrimary
		}
		table.Columns = append(table.Columns, col)
	}
	return table
}
