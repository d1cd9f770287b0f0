package records

import (
	"github.com/Rana718/Seedbed/internal/errs"
)

// Batch is an ordered, possibly heterogeneous, list of records.
type Batch []Record

// Group is the run of records of one kind inside a batch.
type Group struct {
	Kind    Kind
	Records []Record
}

// Partition groups records by kind, keeping the order in which kinds first
// appear and the order of records inside each kind.
func (b Batch) Partition() []Group {
	var groups []Group
	index := make(map[Kind]int)
	for _, r := range b {
		k := r.Kind()
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Kind: k})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// Validate rejects nil elements and elements whose kind has no storage shape.
func (b Batch) Validate() error {
	for i, r := range b {
		if r == nil {
			return errs.InvalidArgument("validate batch", "record %d is nil", i)
		}
		if !r.Kind().Valid() {
			return errs.InvalidArgument("validate batch", "record %d has unknown kind %q", i, r.Kind())
		}
	}
	return nil
}

// Kinds returns the distinct kinds of the batch in first-seen order.
func (b Batch) Kinds() []Kind {
	groups := b.Partition()
	out := make([]Kind, len(groups))
	for i, g := range groups {
		out[i] = g.Kind
	}
	return out
}
