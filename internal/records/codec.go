package records

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

func values(r Record) []any {
	ptrs := r.fields()
	out := make([]any, len(ptrs))
	for i, p := range ptrs {
		switch v := p.(type) {
		case *string:
			out[i] = *v
		case *int:
			out[i] = *v
		case *float64:
			out[i] = *v
		case *Date:
			out[i] = *v
		}
	}
	return out
}

func document(r Record) bson.D {
	spec := specs[r.Kind()]
	ptrs := r.fields()
	inner := make(bson.D, 0, len(ptrs))
	for i, p := range ptrs {
		var v any
		switch f := p.(type) {
		case *string:
			v = *f
		case *int:
			v = int64(*f)
		case *float64:
			v = *f
		case *Date:
			v = f.String()
		}
		inner = append(inner, bson.E{Key: spec.Columns[i].Name, Value: v})
	}
	return bson.D{{Key: spec.Tag, Value: inner}}
}

func naturalKey(r Record) (string, bool) {
	idx := specs[r.Kind()].keyIndex()
	if idx < 0 {
		return "", false
	}
	switch v := r.fields()[idx].(type) {
	case *string:
		return *v, true
	case *int:
		return strconv.Itoa(*v), true
	}
	return "", false
}

// ScanRow reads one row whose columns are in Spec.Columns order.
func ScanRow(k Kind, row Scanner) (Record, error) {
	r := New(k)
	if r == nil {
		return nil, fmt.Errorf("unknown kind %q", k)
	}
	if err := row.Scan(r.fields()...); err != nil {
		return nil, err
	}
	return r, nil
}

// FromDocument decodes a document of the form { Tag: { field: value } }.
// Nested documents must already be normalised to map[string]any. Every field
// of the kind has to be present with a compatible type.
func FromDocument(k Kind, doc map[string]any) (Record, error) {
	spec := specs[k]
	if spec == nil {
		return nil, fmt.Errorf("unknown kind %q", k)
	}
	raw, ok := doc[spec.Tag]
	if !ok {
		return nil, fmt.Errorf("missing %q sub-document", spec.Tag)
	}
	inner, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q is %T, not a sub-document", spec.Tag, raw)
	}

	r := New(k)
	for i, p := range r.fields() {
		name := spec.Columns[i].Name
		v, ok := inner[name]
		if !ok {
			return nil, fmt.Errorf("%s.%s: missing field", spec.Tag, name)
		}
		if err := assign(p, v); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", spec.Tag, name, err)
		}
	}
	return r, nil
}

func assign(dst any, v any) error {
	switch d := dst.(type) {
	case *string:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		*d = s
	case *int:
		n, err := toInt(v)
		if err != nil {
			return err
		}
		*d = n
	case *float64:
		switch n := v.(type) {
		case float64:
			*d = n
		case int32:
			*d = float64(n)
		case int64:
			*d = float64(n)
		case int:
			*d = float64(n)
		default:
			return fmt.Errorf("expected number, got %T", v)
		}
	case *Date:
		switch t := v.(type) {
		case string:
			parsed, err := ParseDate(t)
			if err != nil {
				return err
			}
			*d = parsed
		case time.Time:
			*d = NewDate(t.Date())
		case bson.DateTime:
			*d = NewDate(t.Time().UTC().Date())
		default:
			return fmt.Errorf("expected date string, got %T", v)
		}
	default:
		return fmt.Errorf("unsupported field type %T", dst)
	}
	return nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
