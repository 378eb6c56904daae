// Package cache keeps search results and loaded rotation systems around, so
// that repeated requests from the shell or the worker skip the work.
package cache

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reachgen/placement"
	"github.com/domino14/reachgen/reach"
)

// Results maps a search key to its placements, stored packed. When the
// cache is full it starts over empty; searches are cheap enough that a
// smarter eviction policy has not been worth it.
type Results struct {
	sync.Mutex
	entries map[uint64][]placement.Tiny
	max     int
	hits    uint64
	misses  uint64
}

func NewResults(max int) *Results {
	return &Results{entries: make(map[uint64][]placement.Tiny), max: max}
}

// Key hashes everything a search result depends on. kickTable is the name
// or path the rotation system was resolved from, as given to RotationSystem.
func Key(field reach.Field, spawn placement.Placement, backend reach.Backend,
	kickTable string, mode reach.Mode, minimize bool) uint64 {

	h := xxhash.New()
	var buf [8]byte
	for _, col := range field {
		for _, w := range col {
			binary.LittleEndian.PutUint64(buf[:], w)
			h.Write(buf[:])
		}
	}
	binary.LittleEndian.PutUint16(buf[:2], uint16(spawn.Pack()))
	buf[2] = byte(mode)
	buf[3] = 0
	if minimize {
		buf[3] = 1
	}
	h.Write(buf[:4])
	h.Write([]byte(backend))
	h.Write([]byte{0})
	h.Write([]byte(kickTable))
	return h.Sum64()
}

func (c *Results) Get(key uint64) ([]placement.Placement, bool) {
	c.Lock()
	defer c.Unlock()
	packed, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	out := make([]placement.Placement, len(packed))
	for i, t := range packed {
		out[i] = t.Unpack()
	}
	return out, true
}

func (c *Results) Put(key uint64, plms []placement.Placement) {
	packed := make([]placement.Tiny, len(plms))
	for i, p := range plms {
		packed[i] = p.Pack()
	}
	c.Lock()
	defer c.Unlock()
	if c.max > 0 && len(c.entries) >= c.max {
		log.Debug().Int("entries", len(c.entries)).Msg("result-cache-full-resetting")
		c.entries = make(map[uint64][]placement.Tiny)
	}
	c.entries[key] = packed
}

// Load returns the cached placements for key, running loadFunc and caching
// its result on a miss. The lock is not held while loadFunc runs, so two
// callers missing on the same key may both compute it.
func (c *Results) Load(key uint64, loadFunc func() ([]placement.Placement, error)) ([]placement.Placement, error) {
	if plms, ok := c.Get(key); ok {
		return plms, nil
	}
	plms, err := loadFunc()
	if err != nil {
		return nil, err
	}
	c.Put(key, plms)
	return plms, nil
}

func (c *Results) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.entries)
}

func (c *Results) Stats() (hits, misses uint64) {
	c.Lock()
	defer c.Unlock()
	return c.hits, c.misses
}
