package seeder

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/records"
)

var (
	clientDomains   = []string{"gmail.com", "yahoo.com", "outlook.com", "example.com"}
	employeeDomains = []string{"company.com", "corporate.com", "business.com"}

	contractTypes = []string{"B2B", "UoP", "Mandate Contract", "Contract of Employment"}
	positions     = []string{"HR", "IT", "Finance", "Sales", "Administration", "Public Relations"}
	departments   = []string{"HR", "IT", "Finance", "Sales"}
	methods       = []string{"Credit Card", "Bank Transfer", "PayPal", "Cash", "Cryptocurrency"}
	statuses      = []string{"Not Started", "In Progress", "Completed"}

	projectNames        = []string{"Project A", "Project B", "Project C", "Project D"}
	projectDescriptions = []string{
		"A project focused on AI research.",
		"A new web development initiative.",
		"A marketing campaign for a new product.",
		"A system upgrade for internal software.",
	}
	taskNames        = []string{"Task A", "Task B", "Task C", "Task D"}
	taskDescriptions = []string{
		"Task to research new technology.",
		"Task for setting up a new server.",
		"Task to write documentation.",
		"Task for a software code review.",
	}
)

// Technologies is the canonical name/description table. A generated
// technology is always one of these pairs.
var Technologies = []records.Technology{
	{Name: "Rust Programming", Description: "A systems programming language focused on performance and safety."},
	{Name: "Machine Learning", Description: "A subset of artificial intelligence that focuses on algorithms and models that allow machines to learn from data."},
	{Name: "Blockchain", Description: "A decentralized technology for secure and transparent transactions."},
	{Name: "Quantum Computing", Description: "A new field of computing that uses quantum mechanics to process information."},
	{Name: "Artificial Intelligence", Description: "A field of study in computer science that involves creating intelligent machines capable of performing tasks that usually require human intelligence."},
	{Name: "Cloud Computing", Description: "A model of computing where services and resources are provided over the internet."},
	{Name: "Internet of Things", Description: "A network of physical devices, vehicles, buildings, and other objects embedded with sensors and software for the purpose of connecting and exchanging data."},
}

// Generator produces random records. It is not safe for concurrent use; build
// one per request.
type Generator struct {
	f           faker
	maxAttempts int
	maxCount    int
	now         func() time.Time
}

func NewGenerator(words WordLists, opts Options) *Generator {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	maxCount := opts.MaxCount
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Generator{
		f: faker{
			rand:   rand.New(rand.NewSource(seed)),
			words:  words,
			policy: opts.Policy,
		},
		maxAttempts: maxAttempts,
		maxCount:    maxCount,
		now:         now,
	}
}

// MaxCount reports the largest count Generate accepts.
func (g *Generator) MaxCount() int {
	return g.maxCount
}

func (g *Generator) checkCount(count int) error {
	if count < 0 {
		return errs.InvalidArgument("generate", "count must not be negative, got %d", count)
	}
	if count > g.maxCount {
		return errs.InvalidArgument("generate", "count %d exceeds the limit of %d", count, g.maxCount)
	}
	return nil
}

// Generate returns exactly count records of kind k.
func (g *Generator) Generate(k records.Kind, count int) (records.Batch, error) {
	if err := g.checkCount(count); err != nil {
		return nil, err
	}
	if !k.Valid() {
		return nil, errs.InvalidArgument("generate", "unsupported kind %q", k)
	}

	batch := records.Batch{}
	seen := NewUniqueSet(g.maxAttempts)
	for i := 0; i < count; i++ {
		r, err := g.one(k, seen)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", k, err)
		}
		batch = append(batch, r)
	}
	return batch, nil
}

// GenerateMany returns count records of every canonical kind, grouped by kind
// in records.Kinds() order.
func (g *Generator) GenerateMany(count int) (records.Batch, error) {
	if err := g.checkCount(count); err != nil {
		return nil, err
	}
	batch := records.Batch{}
	for _, k := range records.Kinds() {
		part, err := g.Generate(k, count)
		if err != nil {
			return nil, err
		}
		batch = append(batch, part...)
	}
	return batch, nil
}

func (g *Generator) one(k records.Kind, seen *UniqueSet) (records.Record, error) {
	switch k {
	case records.KindAddress:
		return g.address()
	case records.KindClient:
		return g.client(seen)
	case records.KindContract:
		return g.contract(), nil
	case records.KindEmployee:
		return g.employee(seen)
	case records.KindPayment:
		return g.payment(), nil
	case records.KindProject:
		return g.project(), nil
	case records.KindTask:
		return g.task(), nil
	case records.KindTechnology:
		return g.technology(), nil
	case records.KindStaff:
		return g.staff(seen)
	}
	return nil, errs.InvalidArgument("generate", "unsupported kind %q", k)
}

func (g *Generator) address() (*records.Address, error) {
	city, err := g.f.city()
	if err != nil {
		return nil, err
	}
	street, err := g.f.street()
	if err != nil {
		return nil, err
	}
	return &records.Address{
		City:         city,
		Street:       street,
		StreetNumber: strconv.Itoa(g.f.between(1, 200)),
		PostalCode:   g.f.postalCode(),
	}, nil
}

func (g *Generator) names() (string, string, error) {
	first, err := g.f.firstName()
	if err != nil {
		return "", "", err
	}
	last, err := g.f.lastName()
	if err != nil {
		return "", "", err
	}
	return first, last, nil
}

func (g *Generator) client(seen *UniqueSet) (*records.Client, error) {
	first, last, err := g.names()
	if err != nil {
		return nil, err
	}
	email, err := seen.Draw("client.email", func() string {
		return g.f.email(first, last, clientDomains)
	})
	if err != nil {
		return nil, err
	}
	phone, err := seen.Draw("client.phone", g.f.mobile10)
	if err != nil {
		return nil, err
	}
	return &records.Client{FirstName: first, LastName: last, Email: email, PhoneNumber: phone}, nil
}

func (g *Generator) contract() *records.Contract {
	year := g.now().Year()
	start := g.f.date(year-5, year)
	return &records.Contract{
		TypeOfContract: g.f.choice(contractTypes),
		StartDate:      start,
		EndDate:        start.AddDays(g.f.between(180, 1825)),
		Salary:         g.f.between(3000, 25000),
	}
}

func (g *Generator) employee(seen *UniqueSet) (*records.Employee, error) {
	first, last, err := g.names()
	if err != nil {
		return nil, err
	}
	email, err := seen.Draw("employee.email", func() string {
		return g.f.email(first, last, employeeDomains)
	})
	if err != nil {
		return nil, err
	}
	phone, err := seen.Draw("employee.phone", g.f.mobile9)
	if err != nil {
		return nil, err
	}
	return &records.Employee{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		PhoneNumber:  phone,
		Position:     g.f.choice(positions),
		ContractDate: g.f.date(2010, 2024),
	}, nil
}

func (g *Generator) payment() *records.Payment {
	year := g.now().Year()
	return &records.Payment{
		Amount:         g.f.amount(10, 10000),
		PaymentDueDate: g.f.date(year-3, year),
		Method:         g.f.choice(methods),
	}
}

func (g *Generator) project() *records.Project {
	start, end := g.span()
	return &records.Project{
		Name:        g.f.choice(projectNames),
		Description: g.f.choice(projectDescriptions),
		StartDate:   start,
		EndDate:     end,
		Status:      g.f.choice(statuses),
	}
}

func (g *Generator) task() *records.Task {
	start, end := g.span()
	return &records.Task{
		Name:        g.f.choice(taskNames),
		Description: g.f.choice(taskDescriptions),
		StartDate:   start,
		EndDate:     end,
		Status:      g.f.choice(statuses),
	}
}

// span picks a start year in [2022, 2024] and an end year in [start, 2025].
// Month and day are drawn independently, so end may precede start within the
// same year.
func (g *Generator) span() (records.Date, records.Date) {
	startYear := g.f.between(2022, 2024)
	endYear := g.f.between(startYear, 2025)
	return g.f.date(startYear, startYear), g.f.date(endYear, endYear)
}

func (g *Generator) technology() *records.Technology {
	t := Technologies[g.f.rand.Intn(len(Technologies))]
	return &t
}

func (g *Generator) staff(seen *UniqueSet) (*records.Staff, error) {
	name, err := g.f.firstName()
	if err != nil {
		return nil, err
	}
	id, err := seen.Draw("staff.id", func() string {
		return strconv.Itoa(g.f.between(1, 999_999))
	})
	if err != nil {
		return nil, err
	}
	phone, err := seen.Draw("staff.phone", g.f.mobile10)
	if err != nil {
		return nil, err
	}
	n, _ := strconv.Atoi(id)
	return &records.Staff{
		ID:         n,
		Name:       name,
		Department: g.f.choice(departments),
		Salary:     g.f.between(5000, 74999),
		Phone:      phone,
		HireDate:   g.f.date(2017, 2021),
	}, nil
}
