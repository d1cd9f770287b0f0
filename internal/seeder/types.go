package seeder

import "time"

// WordListPolicy decides what happens when a word list is empty.
type WordListPolicy int

const (
	// Fallback substitutes a fixed placeholder and keeps generating.
	Fallback WordListPolicy = iota
	// Strict fails the generate call with a resource_unavailable error.
	Strict
)

const DefaultMaxAttempts = 1000

// DefaultMaxCount caps the records of one kind a single call may produce.
const DefaultMaxCount = 100_000

// Placeholders used by the Fallback policy.
const (
	fallbackFirstName = "John"
	fallbackLastName  = "Doe"
	fallbackCity      = "Warsaw"
	fallbackStreet    = "Main Street"
)

type WordLists struct {
	FirstNames []string
	LastNames  []string
	Cities     []string
	Streets    []string
}

// WordListPaths points at newline-separated word files.
type WordListPaths struct {
	FirstNames string
	LastNames  string
	Cities     string
	Streets    string
}

type Options struct {
	// Seed makes the output reproducible. Zero seeds from the clock.
	Seed        int64
	MaxAttempts int
	// MaxCount bounds count in Generate and GenerateMany. Defaults to
	// DefaultMaxCount.
	MaxCount int
	Policy   WordListPolicy
	// Now anchors the "last N years" date ranges. Defaults to time.Now.
	Now func() time.Time
}
