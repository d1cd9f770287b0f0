package seeder

import (
	"github.com/Rana718/Seedbed/internal/errs"
)

// UniqueSet remembers values drawn during one generate call, per namespace.
type UniqueSet struct {
	maxAttempts int
	seen        map[string]map[string]struct{}
}

func NewUniqueSet(maxAttempts int) *UniqueSet {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &UniqueSet{
		maxAttempts: maxAttempts,
		seen:        make(map[string]map[string]struct{}),
	}
}

// Draw calls candidate until it yields a value not yet seen in namespace, at
// most maxAttempts times.
func (u *UniqueSet) Draw(namespace string, candidate func() string) (string, error) {
	set, ok := u.seen[namespace]
	if !ok {
		set = make(map[string]struct{})
		u.seen[namespace] = set
	}
	for i := 0; i < u.maxAttempts; i++ {
		v := candidate()
		if _, dup := set[v]; dup {
			continue
		}
		set[v] = struct{}{}
		return v, nil
	}
	return "", errs.ResourceExhausted("unique draw", "no unused %s value after %d attempts", namespace, u.maxAttempts)
}

func (u *UniqueSet) Len(namespace string) int {
	return len(u.seen[namespace])
}
