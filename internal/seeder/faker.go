package seeder

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/records"
)

type faker struct {
	rand   *rand.Rand
	words  WordLists
	policy WordListPolicy
}

// between returns an int in [lo, hi].
func (f *faker) between(lo, hi int) int {
	return lo + f.rand.Intn(hi-lo+1)
}

// between64 returns an int64 in [lo, hi).
func (f *faker) between64(lo, hi int64) int64 {
	return lo + f.rand.Int63n(hi-lo)
}

func (f *faker) choice(options []string) string {
	return options[f.rand.Intn(len(options))]
}

// word picks from a loaded list, applying the empty-list policy.
func (f *faker) word(list []string, name, fallback string) (string, error) {
	if len(list) == 0 {
		if f.policy == Strict {
			return "", errs.ResourceUnavailable("generate", "word list %q is empty", name)
		}
		return fallback, nil
	}
	return list[f.rand.Intn(len(list))], nil
}

func (f *faker) firstName() (string, error) {
	return f.word(f.words.FirstNames, "first_names", fallbackFirstName)
}

func (f *faker) lastName() (string, error) {
	return f.word(f.words.LastNames, "last_names", fallbackLastName)
}

func (f *faker) city() (string, error) {
	return f.word(f.words.Cities, "cities", fallbackCity)
}

func (f *faker) street() (string, error) {
	return f.word(f.words.Streets, "streets", fallbackStreet)
}

// date returns a day in a year from [fromYear, toYear]. Days stop at 28 so
// every month is valid.
func (f *faker) date(fromYear, toYear int) records.Date {
	return records.NewDate(f.between(fromYear, toYear), time.Month(f.between(1, 12)), f.between(1, 28))
}

func (f *faker) email(first, last string, domains []string) string {
	local := strings.ToLower(strings.ReplaceAll(first+"."+last, " ", ""))
	return fmt.Sprintf("%s%d@%s", local, f.between(1, 9999), f.choice(domains))
}

// mobile10 is "+48 " followed by ten digits.
func (f *faker) mobile10() string {
	return fmt.Sprintf("+48 %d", f.between64(6_000_000_000, 9_000_000_000))
}

// mobile9 is "+48 " followed by nine digits.
func (f *faker) mobile9() string {
	return fmt.Sprintf("+48 %d", f.between64(600_000_000, 999_999_999))
}

func (f *faker) postalCode() string {
	return fmt.Sprintf("%02d-%03d", f.between(10, 99), f.between(100, 999))
}

func (f *faker) amount(lo, hi float64) float64 {
	v := lo + f.rand.Float64()*(hi-lo)
	return math.Round(v*100) / 100
}
