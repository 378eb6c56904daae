package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/reachgen/piece"
	"github.com/domino14/reachgen/placement"
	"github.com/domino14/reachgen/reach"
)

func somePlacements() []placement.Placement {
	return []placement.Placement{
		placement.New(piece.T, piece.North, 0, 0),
		placement.New(piece.I, piece.East, 9, 3),
		placement.New(piece.Z, piece.West, 4, 17),
	}
}

func TestResultsGetPut(t *testing.T) {
	is := is.New(t)
	c := NewResults(10)
	_, ok := c.Get(1)
	is.True(!ok)

	c.Put(1, somePlacements())
	got, ok := c.Get(1)
	is.True(ok)
	is.Equal(got, somePlacements())
	is.Equal(c.Len(), 1)

	hits, misses := c.Stats()
	is.Equal(hits, uint64(1))
	is.Equal(misses, uint64(1))
}

func TestResultsResetWhenFull(t *testing.T) {
	is := is.New(t)
	c := NewResults(2)
	c.Put(1, nil)
	c.Put(2, nil)
	is.Equal(c.Len(), 2)
	c.Put(3, somePlacements())
	is.Equal(c.Len(), 1)
	_, ok := c.Get(1)
	is.True(!ok)
	_, ok = c.Get(3)
	is.True(ok)
}

func TestResultsLoad(t *testing.T) {
	is := is.New(t)
	c := NewResults(0)
	calls := 0
	load := func() ([]placement.Placement, error) {
		calls++
		return somePlacements(), nil
	}
	for range 3 {
		plms, err := c.Load(42, load)
		is.NoErr(err)
		is.Equal(len(plms), 3)
	}
	is.Equal(calls, 1)

	boom := errors.New("boom")
	_, err := c.Load(43, func() ([]placement.Placement, error) { return nil, boom })
	is.True(errors.Is(err, boom))
	is.Equal(c.Len(), 1)
}

func TestKey(t *testing.T) {
	is := is.New(t)
	var field reach.Field
	spawn := placement.New(piece.T, piece.North, 3, 19)
	base := Key(field, spawn, reach.BackendU64, "srs", reach.SoftDrop, true)
	is.Equal(base, Key(field, spawn, reach.BackendU64, "srs", reach.SoftDrop, true))

	other := field.Set(3, 0)
	high := field.Set(3, 100)
	variants := []uint64{
		Key(other, spawn, reach.BackendU64, "srs", reach.SoftDrop, true),
		Key(high, spawn, reach.BackendTall, "srs", reach.SoftDrop, true),
		Key(field, placement.New(piece.T, piece.East, 3, 19), reach.BackendU64, "srs", reach.SoftDrop, true),
		Key(field, spawn, reach.BackendTall, "srs", reach.SoftDrop, true),
		Key(field, spawn, reach.BackendU64, "none", reach.SoftDrop, true),
		Key(field, spawn, reach.BackendU64, "srs", reach.HardDrop, true),
		Key(field, spawn, reach.BackendU64, "srs", reach.SoftDrop, false),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d hashed the same as the base key", i)
		}
	}
}

func TestRotationSystemCached(t *testing.T) {
	is := is.New(t)
	a, err := RotationSystem("srs")
	is.NoErr(err)
	b, err := RotationSystem("srs")
	is.NoErr(err)
	is.True(a == b)
	is.Equal(a.Name(), "srs")

	_, err = RotationSystem("testdata/does-not-exist.yaml")
	is.True(err != nil)
}
