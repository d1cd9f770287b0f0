package records

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Record is one generated entity. The set of implementations is closed: only
// the variants in this package satisfy it.
type Record interface {
	Kind() Kind
	// Values returns the column-ordered values of the row, matching Spec.Columns.
	Values() []any
	// Document returns the record nested under its tag, { Tag: { field: value } }.
	Document() bson.D
	// NaturalKey returns the dedup key, false when the kind has none.
	NaturalKey() (string, bool)

	fields() []any
}

type Address struct {
	City         string `json:"city" yaml:"city"`
	Street       string `json:"street" yaml:"street"`
	StreetNumber string `json:"street_number" yaml:"street_number"`
	PostalCode   string `json:"postal_code" yaml:"postal_code"`
}

type Client struct {
	FirstName   string `json:"first_name" yaml:"first_name"`
	LastName    string `json:"last_name" yaml:"last_name"`
	Email       string `json:"email" yaml:"email"`
	PhoneNumber string `json:"phone_number" yaml:"phone_number"`
}

type Contract struct {
	TypeOfContract string `json:"type_of_contract" yaml:"type_of_contract"`
	StartDate      Date   `json:"start_date" yaml:"start_date"`
	EndDate        Date   `json:"end_date" yaml:"end_date"`
	Salary         int    `json:"salary" yaml:"salary"`
}

type Employee struct {
	FirstName    string `json:"first_name" yaml:"first_name"`
	LastName     string `json:"last_name" yaml:"last_name"`
	Email        string `json:"email" yaml:"email"`
	PhoneNumber  string `json:"phone_number" yaml:"phone_number"`
	Position     string `json:"position" yaml:"position"`
	ContractDate Date   `json:"contract_date" yaml:"contract_date"`
}

type Payment struct {
	Amount         float64 `json:"amount" yaml:"amount"`
	PaymentDueDate Date    `json:"payment_due_date" yaml:"payment_due_date"`
	Method         string  `json:"method" yaml:"method"`
}

type Project struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	StartDate   Date   `json:"start_date" yaml:"start_date"`
	EndDate     Date   `json:"end_date" yaml:"end_date"`
	Status      string `json:"status" yaml:"status"`
}

type Task struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	StartDate   Date   `json:"start_date" yaml:"start_date"`
	EndDate     Date   `json:"end_date" yaml:"end_date"`
	Status      string `json:"status" yaml:"status"`
}

type Technology struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type Staff struct {
	ID         int    `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Department string `json:"department" yaml:"department"`
	Salary     int    `json:"salary" yaml:"salary"`
	Phone      string `json:"phone" yaml:"phone"`
	HireDate   Date   `json:"hire_date" yaml:"hire_date"`
}

func (*Address) Kind() Kind    { return KindAddress }
func (*Client) Kind() Kind     { return KindClient }
func (*Contract) Kind() Kind   { return KindContract }
func (*Employee) Kind() Kind   { return KindEmployee }
func (*Payment) Kind() Kind    { return KindPayment }
func (*Project) Kind() Kind    { return KindProject }
func (*Task) Kind() Kind       { return KindTask }
func (*Technology) Kind() Kind { return KindTechnology }
func (*Staff) Kind() Kind      { return KindStaff }

// fields returns pointers to the struct fields in Spec.Columns order. Scanning,
// document decoding and value extraction all go through it.
func (r *Address) fields() []any {
	return []any{&r.City, &r.Street, &r.StreetNumber, &r.PostalCode}
}

func (r *Client) fields() []any {
	return []any{&r.FirstName, &r.LastName, &r.Email, &r.PhoneNumber}
}

func (r *Contract) fields() []any {
	return []any{&r.TypeOfContract, &r.StartDate, &r.EndDate, &r.Salary}
}

func (r *Employee) fields() []any {
	return []any{&r.FirstName, &r.LastName, &r.Email, &r.PhoneNumber, &r.Position, &r.ContractDate}
}

func (r *Payment) fields() []any {
	return []any{&r.Amount, &r.PaymentDueDate, &r.Method}
}

func (r *Project) fields() []any {
	return []any{&r.Name, &r.Description, &r.StartDate, &r.EndDate, &r.Status}
}

func (r *Task) fields() []any {
	return []any{&r.Name, &r.Description, &r.StartDate, &r.EndDate, &r.Status}
}

func (r *Technology) fields() []any {
	return []any{&r.Name, &r.Description}
}

func (r *Staff) fields() []any {
	return []any{&r.ID, &r.Name, &r.Department, &r.Salary, &r.Phone, &r.HireDate}
}

func (r *Address) Values() []any    { return values(r) }
func (r *Client) Values() []any     { return values(r) }
func (r *Contract) Values() []any   { return values(r) }
func (r *Employee) Values() []any   { return values(r) }
func (r *Payment) Values() []any    { return values(r) }
func (r *Project) Values() []any    { return values(r) }
func (r *Task) Values() []any       { return values(r) }
func (r *Technology) Values() []any { return values(r) }
func (r *Staff) Values() []any      { return values(r) }

func (r *Address) Document() bson.D    { return document(r) }
func (r *Client) Document() bson.D     { return document(r) }
func (r *Contract) Document() bson.D   { return document(r) }
func (r *Employee) Document() bson.D   { return document(r) }
func (r *Payment) Document() bson.D    { return document(r) }
func (r *Project) Document() bson.D    { return document(r) }
func (r *Task) Document() bson.D       { return document(r) }
func (r *Technology) Document() bson.D { return document(r) }
func (r *Staff) Document() bson.D      { return document(r) }

func (r *Address) NaturalKey() (string, bool)    { return naturalKey(r) }
func (r *Client) NaturalKey() (string, bool)     { return naturalKey(r) }
func (r *Contract) NaturalKey() (string, bool)   { return naturalKey(r) }
func (r *Employee) NaturalKey() (string, bool)   { return naturalKey(r) }
func (r *Payment) NaturalKey() (string, bool)    { return naturalKey(r) }
func (r *Project) NaturalKey() (string, bool)    { return naturalKey(r) }
func (r *Task) NaturalKey() (string, bool)       { return naturalKey(r) }
func (r *Technology) NaturalKey() (string, bool) { return naturalKey(r) }
func (r *Staff) NaturalKey() (string, bool)      { return naturalKey(r) }

// New returns the zero record of kind k, or nil for an unknown kind.
func New(k Kind) Record {
	switch k {
	case KindAddress:
		return &Address{}
	case KindClient:
		return &Client{}
	case KindContract:
		return &Contract{}
	case KindEmployee:
		return &Employee{}
	case KindPayment:
		return &Payment{}
	case KindProject:
		return &Project{}
	case KindTask:
		return &Task{}
	case KindTechnology:
		return &Technology{}
	case KindStaff:
		return &Staff{}
	default:
		return nil
	}
}
