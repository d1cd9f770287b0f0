package records

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout is the only format dates are stored and read with.
const DateLayout = "2006-01-02"

// Date is a calendar day without time of day or zone.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Date()), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) AddDays(n int) Date {
	return NewDate(d.Time.AddDate(0, 0, n).Date())
}

// Value stores the date as a YYYY-MM-DD string.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan accepts the string, byte and time forms drivers hand back for date
// columns. Anything else is an error.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
	case time.Time:
		*d = NewDate(v.Date())
	case nil:
		return fmt.Errorf("date is NULL")
	default:
		return fmt.Errorf("cannot scan %T into date", src)
	}
	return nil
}

// MarshalJSON shadows the embedded time.Time encoding, which would emit a
// full RFC 3339 timestamp.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	return d.UnmarshalText([]byte(s[1 : len(s)-1]))
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
