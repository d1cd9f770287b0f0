package records

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Rana718/Seedbed/internal/errs"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func docToMap(d bson.D) map[string]any {
	out := make(map[string]any, len(d))
	for _, e := range d {
		if nested, ok := e.Value.(bson.D); ok {
			out[e.Key] = docToMap(nested)
			continue
		}
		out[e.Key] = e.Value
	}
	return out
}

func sampleRecords() []Record {
	start := NewDate(2023, time.March, 14)
	return []Record{
		&Address{City: "Warsaw", Street: "Main Street", StreetNumber: "12", PostalCode: "00-123"},
		&Client{FirstName: "Anna", LastName: "Nowak", Email: "anna.nowak42@example.com", PhoneNumber: "+48 6123456789"},
		&Contract{TypeOfContract: "B2B", StartDate: start, EndDate: start.AddDays(200), Salary: 12000},
		&Employee{FirstName: "Jan", LastName: "Kowalski", Email: "jan.kowalski7@example.com", PhoneNumber: "+48 612345678", Position: "IT", ContractDate: NewDate(2015, time.June, 1)},
		&Payment{Amount: 1234.56, PaymentDueDate: NewDate(2024, time.January, 2), Method: "PayPal"},
		&Project{Name: "Project A", Description: "Internal tooling", StartDate: start, EndDate: NewDate(2025, time.May, 5), Status: "In Progress"},
		&Task{Name: "Task B", Description: "Write docs", StartDate: start, EndDate: start, Status: "Completed"},
		&Technology{Name: "Go", Description: "Compiled language with built-in concurrency"},
		&Staff{ID: 42, Name: "Ewa", Department: "HR", Salary: 45000, Phone: "+48 7000000000", HireDate: NewDate(2019, time.July, 20)},
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range AllKinds() {
		got, err := ParseKind(" " + strings.ToUpper(string(k)) + " ")
		if err != nil {
			t.Fatalf("ParseKind(%q) failed: %v", k, err)
		}
		if got != k {
			t.Errorf("Expected %q, got %q", k, got)
		}
	}

	for _, bad := range []string{"", "bogus", "staffs"} {
		_, err := ParseKind(bad)
		if !errs.Is(err, errs.CodeInvalidArgument) {
			t.Errorf("ParseKind(%q): expected invalid argument, got %v", bad, err)
		}
	}
}

func TestKindsExcludesStaff(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 8 {
		t.Fatalf("Expected 8 canonical kinds, got %d", len(kinds))
	}
	for _, k := range kinds {
		if k == KindStaff {
			t.Error("staff must not be a canonical kind")
		}
	}
	kinds[0] = "mutated"
	if Kinds()[0] != KindAddress {
		t.Error("Kinds must return a copy")
	}
	if len(AllKinds()) != 9 {
		t.Errorf("Expected 9 kinds including staff, got %d", len(AllKinds()))
	}
}

func TestNewMatchesKind(t *testing.T) {
	for _, k := range AllKinds() {
		r := New(k)
		if r == nil {
			t.Fatalf("New(%q) returned nil", k)
		}
		if r.Kind() != k {
			t.Errorf("New(%q).Kind() = %q", k, r.Kind())
		}
		if got, want := len(r.Values()), len(SpecFor(k).Columns); got != want {
			t.Errorf("%s: %d values for %d columns", k, got, want)
		}
	}
	if New("bogus") != nil {
		t.Error("Expected nil for unknown kind")
	}
}

func TestNaturalKeys(t *testing.T) {
	for _, r := range sampleRecords() {
		key, ok := r.NaturalKey()
		switch r.Kind() {
		case KindClient:
			if !ok || key != "anna.nowak42@example.com" {
				t.Errorf("client key = %q, %v", key, ok)
			}
		case KindEmployee:
			if !ok || key != "jan.kowalski7@example.com" {
				t.Errorf("employee key = %q, %v", key, ok)
			}
		case KindStaff:
			if !ok || key != "42" {
				t.Errorf("staff key = %q, %v", key, ok)
			}
		default:
			if ok {
				t.Errorf("%s should have no natural key, got %q", r.Kind(), key)
			}
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, r := range sampleRecords() {
		doc := r.Document()
		if len(doc) != 1 || doc[0].Key != SpecFor(r.Kind()).Tag {
			t.Fatalf("%s: expected single %q key, got %v", r.Kind(), SpecFor(r.Kind()).Tag, doc)
		}

		decoded, err := FromDocument(r.Kind(), docToMap(doc))
		if err != nil {
			t.Fatalf("%s: decode failed: %v", r.Kind(), err)
		}
		if !reflect.DeepEqual(decoded, r) {
			t.Errorf("%s: round trip mismatch\nwant %+v\ngot  %+v", r.Kind(), r, decoded)
		}
	}
}

func TestFromDocumentRejectsIncomplete(t *testing.T) {
	cases := map[string]map[string]any{
		"missing tag":   {"Other": map[string]any{}},
		"not a doc":     {"Technology": "Go"},
		"missing field": {"Technology": map[string]any{"name": "Go"}},
		"wrong type":    {"Technology": map[string]any{"name": "Go", "description": int32(3)}},
	}
	for name, doc := range cases {
		if _, err := FromDocument(KindTechnology, doc); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	bad := map[string]any{"Payment": map[string]any{
		"amount": 10.5, "payment_due_date": "2024-13-45", "method": "Cash",
	}}
	if _, err := FromDocument(KindPayment, bad); err == nil {
		t.Error("Expected malformed date to fail")
	}
}

func TestFromDocumentNumericWidening(t *testing.T) {
	doc := map[string]any{"Contract": map[string]any{
		"type_of_contract": "UoP",
		"start_date":       "2022-01-01",
		"end_date":         "2023-01-01",
		"salary":           int32(5000),
	}}
	r, err := FromDocument(KindContract, doc)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if r.(*Contract).Salary != 5000 {
		t.Errorf("Expected salary 5000, got %d", r.(*Contract).Salary)
	}

	doc["Contract"].(map[string]any)["salary"] = 5000.5
	if _, err := FromDocument(KindContract, doc); err == nil {
		t.Error("Expected fractional salary to fail")
	}
}

type fakeRow []any

func (f fakeRow) Scan(dest ...any) error {
	if len(dest) != len(f) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = f[i].(string)
		case *int:
			*p = f[i].(int)
		case *float64:
			*p = f[i].(float64)
		case *Date:
			if err := p.Scan(f[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func TestScanRow(t *testing.T) {
	row := fakeRow{"Project A", "Internal tooling", []byte("2023-03-14"), "2025-05-05", "In Progress"}
	r, err := ScanRow(KindProject, row)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	p := r.(*Project)
	if p.StartDate != NewDate(2023, time.March, 14) || p.EndDate.String() != "2025-05-05" {
		t.Errorf("unexpected dates %s %s", p.StartDate, p.EndDate)
	}

	bad := fakeRow{"Project A", "x", "14/03/2023", "2025-05-05", "Completed"}
	if _, err := ScanRow(KindProject, bad); err == nil {
		t.Error("Expected malformed date to fail the scan")
	}
}

func TestDateScanAndEncode(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2021, 2, 3, 15, 4, 5, 0, time.FixedZone("x", 3600))); err != nil {
		t.Fatalf("scan time failed: %v", err)
	}
	if d != NewDate(2021, time.February, 3) {
		t.Errorf("Expected 2021-02-03, got %s", d)
	}
	if err := d.Scan(nil); err == nil {
		t.Error("Expected NULL to fail")
	}
	if err := d.Scan(12); err == nil {
		t.Error("Expected int to fail")
	}

	v, err := d.Value()
	if err != nil || v != "2021-02-03" {
		t.Errorf("Value() = %v, %v", v, err)
	}

	b, err := json.Marshal(&Payment{Amount: 10, PaymentDueDate: d, Method: "Cash"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(b), `"payment_due_date":"2021-02-03"`) {
		t.Errorf("unexpected JSON %s", b)
	}

	var back Payment
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.PaymentDueDate != d {
		t.Errorf("Expected %s, got %s", d, back.PaymentDueDate)
	}
}

func TestPartition(t *testing.T) {
	b := Batch{
		&Client{Email: "a"},
		&Address{City: "x"},
		&Client{Email: "b"},
		&Technology{Name: "Go"},
		&Address{City: "y"},
	}
	groups := b.Partition()
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}
	order := []Kind{KindClient, KindAddress, KindTechnology}
	sizes := []int{2, 2, 1}
	for i, g := range groups {
		if g.Kind != order[i] || len(g.Records) != sizes[i] {
			t.Errorf("group %d: got %s x%d", i, g.Kind, len(g.Records))
		}
	}
	if groups[0].Records[1].(*Client).Email != "b" {
		t.Error("Expected record order to be preserved inside a group")
	}

	homogeneous := Batch{&Task{}, &Task{}}
	if len(homogeneous.Partition()) != 1 {
		t.Error("Expected a homogeneous batch to yield one group")
	}
	if len(Batch(nil).Partition()) != 0 {
		t.Error("Expected no groups for an empty batch")
	}
}

func TestValidate(t *testing.T) {
	if err := (Batch{&Client{}, &Staff{}}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (Batch{&Client{}, nil}).Validate(); !errs.Is(err, errs.CodeInvalidArgument) {
		t.Errorf("Expected invalid argument for nil element, got %v", err)
	}
}

func TestSchema(t *testing.T) {
	client := SpecFor(KindClient).Schema()
	if client.Columns[0].Name != "id" || !client.Columns[0].IsAutoIncrement {
		t.Errorf("Expected surrogate id first, got %+v", client.Columns[0])
	}
	var email bool
	for _, c := range client.Columns {
		if c.Name == "email" {
			email = c.IsUnique && !c.IsPrimary
		}
	}
	if !email {
		t.Error("Expected client email to be unique")
	}

	staff := SpecFor(KindStaff).Schema()
	if staff.Columns[0].Name != "id" || !staff.Columns[0].IsPrimary || staff.Columns[0].IsAutoIncrement {
		t.Errorf("Expected staff id to be a plain primary key, got %+v", staff.Columns[0])
	}
	if len(staff.Columns) != len(SpecFor(KindStaff).Columns) {
		t.Error("staff must not get a surrogate id")
	}
	if SpecFor(KindClient).KeyField() != "Client.email" {
		t.Errorf("unexpected key field %q", SpecFor(KindClient).KeyField())
	}
}
