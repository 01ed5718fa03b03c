package hashset

import (
	"fmt"

	"github.com/cognicore/wordharvest/pkg/wordharvest/internalerr"
)

// DefaultSize is the bucket count used when none is configured.
//
// The table never grows. A table much smaller than the vocabulary keeps memory
// bounded but lengthens every chain; a table much larger wastes bucket headers.
const DefaultSize = 100000

// Set is a fixed-size hash table with chained buckets that remembers every
// token it has seen. Tokens are only ever added.
//
// A Set must only be used from one goroutine.
type Set struct {
	buckets [][]string
	size    int
	count   int
}

// Stats summarizes how tokens are spread across buckets.
type Stats struct {
	Buckets      int
	UsedBuckets  int
	Tokens       int
	LongestChain int
	LoadFactor   float64
}

// New allocates an empty set with size buckets.
func New(size int) (*Set, error) {
	if size < 1 {
		return nil, fmt.Errorf("table size %d: %w", size, internalerr.ErrInvalidConfig)
	}
	return &Set{
		buckets: make([][]string, size),
		size:    size,
	}, nil
}

// Index returns the bucket that token hashes to.
func (s *Set) Index(token string) int {
	return int(Hash(token) % uint64(s.size))
}

// ContainsOrInsert reports whether token was newly added. A token already
// present leaves the set unchanged and yields false.
func (s *Set) ContainsOrInsert(token string) bool {
	if s.buckets == nil {
		s.buckets = make([][]string, s.size)
	}
	idx := s.Index(token)
	for _, t := range s.buckets[idx] {
		if t == token {
			return false
		}
	}
	s.buckets[idx] = append(s.buckets[idx], token)
	s.count++
	return true
}

// Contains reports whether token is stored.
func (s *Set) Contains(token string) bool {
	if s.buckets == nil {
		return false
	}
	for _, t := range s.buckets[s.Index(token)] {
		if t == token {
			return true
		}
	}
	return false
}

// Len returns the number of distinct tokens stored.
func (s *Set) Len() int { return s.count }

// Size returns the bucket count.
func (s *Set) Size() int { return s.size }

// Each calls fn for every stored token, bucket by bucket in index order and
// in insertion order within a bucket.
func (s *Set) Each(fn func(index int, token string)) {
	for i, bucket := range s.buckets {
		for _, t := range bucket {
			fn(i, t)
		}
	}
}

// Stats computes bucket occupancy figures.
func (s *Set) Stats() Stats {
	st := Stats{Buckets: s.size, Tokens: s.count}
	for _, bucket := range s.buckets {
		if len(bucket) == 0 {
			continue
		}
		st.UsedBuckets++
		if len(bucket) > st.LongestChain {
			st.LongestChain = len(bucket)
		}
	}
	st.LoadFactor = float64(s.count) / float64(s.size)
	return st
}

// Destroy releases every token and bucket. Calling it again is a no-op.
// A destroyed set is empty; inserting into it allocates a fresh table of the
// same size.
func (s *Set) Destroy() {
	s.buckets = nil
	s.count = 0
}
