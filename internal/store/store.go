// Package store keeps recent enhancement results in memory.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/vearutop/photoenhance"
)

// ErrNotFound is returned for unknown or evicted result IDs.
var ErrNotFound = errors.New("result not found")

// Entry is a stored result.
type Entry struct {
	ID      string
	Created time.Time
	Result  *photoenhance.EnhanceResult
}

// Results is a bounded in-memory LRU of results, safe for concurrent use.
type Results struct {
	cache *lru.Cache
}

// New creates a store that keeps at most size results.
func New(size int) (*Results, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Results{cache: c}, nil
}

// Put stores a result under a new random ID.
func (s *Results) Put(res *photoenhance.EnhanceResult) Entry {
	e := Entry{
		ID:      uuid.NewString(),
		Created: time.Now(),
		Result:  res,
	}
	s.cache.Add(e.ID, e)
	return e
}

// Get returns a stored result.
func (s *Results) Get(id string) (Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Entry{}, ErrNotFound
	}
	v, ok := s.cache.Get(id)
	if !ok {
		return Entry{}, ErrNotFound
	}
	return v.(Entry), nil
}

// Len returns the number of stored results.
func (s *Results) Len() int {
	return s.cache.Len()
}
