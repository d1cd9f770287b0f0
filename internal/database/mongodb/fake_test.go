package mongodb

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var errFakeDuplicate = errors.New("E11000 duplicate key error")

// fakeStore is an in-memory stand-in for a database: documents are stored as
// marshalled BSON so reads go through the same decoding path as the driver.
type fakeStore struct {
	mu    sync.Mutex
	colls map[string]*fakeCollection
}

func newFakeStore() *fakeStore {
	return &fakeStore{colls: make(map[string]*fakeCollection)}
}

func (s *fakeStore) get(name string) *fakeCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.colls[name]
	if !ok {
		c = &fakeCollection{}
		s.colls[name] = c
	}
	return c
}

func (s *fakeStore) collection(name string) collection {
	return s.get(name)
}

type fakeCollection struct {
	mu     sync.Mutex
	docs   [][]byte
	unique []string

	insertErr error
	findErr   error
	cursorErr error
}

func (c *fakeCollection) addRaw(doc any) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	c.mu.Lock()
	c.docs = append(c.docs, raw)
	c.mu.Unlock()
}

func (c *fakeCollection) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

func decodeRaw(raw []byte) map[string]any {
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return map[string]any{}
	}
	return normalizeDocument(doc)
}

func (c *fakeCollection) duplicate(candidate map[string]any) bool {
	for _, path := range c.unique {
		v, ok := lookupPath(candidate, path)
		if !ok {
			continue
		}
		want := keyString(v)
		for _, raw := range c.docs {
			if got, ok := lookupPath(decodeRaw(raw), path); ok && keyString(got) == want {
				return true
			}
		}
	}
	return false
}

func (c *fakeCollection) InsertMany(_ context.Context, docs []any, ignoreDuplicates bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.insertErr != nil {
		return 0, c.insertErr
	}
	inserted := 0
	for _, d := range docs {
		raw, err := bson.Marshal(d)
		if err != nil {
			return 0, err
		}
		if c.duplicate(decodeRaw(raw)) {
			if ignoreDuplicates {
				continue
			}
			return 0, errFakeDuplicate
		}
		c.docs = append(c.docs, raw)
		inserted++
	}
	return inserted, nil
}

func (c *fakeCollection) DeleteAll(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := int64(len(c.docs))
	c.docs = nil
	return n, nil
}

func (c *fakeCollection) FindAll(context.Context) (cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.findErr != nil {
		return nil, c.findErr
	}
	docs := make([][]byte, len(c.docs))
	copy(docs, c.docs)
	return &fakeCursor{docs: docs, pos: -1, err: c.cursorErr}, nil
}

func (c *fakeCollection) FindValues(_ context.Context, path string, values []any) ([]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.findErr != nil {
		return nil, c.findErr
	}
	wanted := make(map[string]bool, len(values))
	for _, v := range values {
		wanted[keyString(v)] = true
	}
	var found []any
	for _, raw := range c.docs {
		if v, ok := lookupPath(decodeRaw(raw), path); ok && wanted[keyString(v)] {
			found = append(found, v)
		}
	}
	return found, nil
}

func (c *fakeCollection) EnsureUniqueIndex(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.unique {
		if p == path {
			return nil
		}
	}
	c.unique = append(c.unique, path)
	return nil
}

type fakeCursor struct {
	docs [][]byte
	pos  int
	err  error
}

func (c *fakeCursor) Next(context.Context) bool {
	c.pos++
	return c.pos < len(c.docs)
}

func (c *fakeCursor) Decode(val any) error {
	return bson.Unmarshal(c.docs[c.pos], val)
}

func (c *fakeCursor) Err() error {
	if c.pos >= len(c.docs) {
		return c.err
	}
	return nil
}

func (c *fakeCursor) Close(context.Context) error { return nil }
