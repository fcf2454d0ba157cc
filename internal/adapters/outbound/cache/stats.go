package cache

import "sync/atomic"

type Stats struct {
	hits    atomic.Uint64
	misses  atomic.Uint64
	evicted atomic.Uint64
}

func NewStats() *Stats { return &Stats{} }

func (s *Stats) IncHit()             { s.hits.Add(1) }
func (s *Stats) IncMiss()            { s.misses.Add(1) }
func (s *Stats) AddEvicted(n uint64) { s.evicted.Add(n) }

func (s *Stats) Snapshot() (hits, misses, evicted uint64) {
	return s.hits.Load(), s.misses.Load(), s.evicted.Load()
}
