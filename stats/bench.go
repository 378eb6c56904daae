package stats

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/reachgen/board"
	"github.com/domino14/reachgen/piece"
	"github.com/domino14/reachgen/reach"
)

type BenchOptions struct {
	Boards   int
	Seed     uint64
	Rows     int
	Density  float64
	Garbage  int
	SpawnX   int
	SpawnY   int
	Minimize bool
	Threads  int
}

func DefaultBenchOptions() BenchOptions {
	return BenchOptions{
		Boards:   100,
		Seed:     1,
		Rows:     8,
		Density:  0.45,
		Garbage:  2,
		SpawnX:   4,
		SpawnY:   20,
		Minimize: true,
	}
}

// Report collects per-search timings, in microseconds, and placement counts
// over a benchmark run.
type Report struct {
	Backend    reach.Backend
	Mode       reach.Mode
	Boards     int
	Searches   int
	Elapsed    time.Duration
	Micros     Summary
	Placements Summary
	PerShape   [piece.NumShapes]Summary
}

func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "backend %v, %v, %d boards, %d searches in %v\n",
		r.Backend, r.Mode, r.Boards, r.Searches, r.Elapsed)
	fmt.Fprintf(&sb, "  search us:  %v\n", r.Micros)
	fmt.Fprintf(&sb, "  placements: %v\n", r.Placements)
	for _, s := range piece.Shapes {
		fmt.Fprintf(&sb, "  %v us:       %v\n", s, r.PerShape[s])
	}
	return sb.String()
}

func benchRNG(seed uint64) *frand.RNG {
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return frand.NewCustom(key, 1024, 12)
}

// Bench searches every shape on opts.Boards random fields and summarizes the
// results. The same seed always produces the same fields.
func Bench(ctx context.Context, eng *reach.Engine, opts BenchOptions) (*Report, error) {
	if opts.Boards <= 0 {
		return nil, fmt.Errorf("need a positive number of boards, got %d", opts.Boards)
	}
	rng := benchRNG(opts.Seed)
	spawns := reach.SpawnsFor(opts.SpawnX, opts.SpawnY)

	var micros, counts []float64
	var perShape [piece.NumShapes][]float64
	searchTime := &Running{}
	ts := time.Now()

	for i := range opts.Boards {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		field := board.Random[reach.Field](opts.Rows, opts.Density, rng)
		field, _ = board.AddGarbage(field, opts.Garbage, rng)

		start := time.Now()
		all, err := reach.GenerateAll(ctx, eng, field, spawns, opts.Minimize, opts.Threads)
		if err != nil {
			return nil, err
		}
		// Searches ran in parallel, so each gets an equal share of the batch.
		us := float64(time.Since(start).Microseconds()) / float64(len(spawns))
		for j, plms := range all {
			micros = append(micros, us)
			counts = append(counts, float64(len(plms)))
			shape := spawns[j].Piece.Shape
			perShape[shape] = append(perShape[shape], us)
			searchTime.Push(us)
		}
		if (i+1)%100 == 0 {
			log.Debug().Int("boards", i+1).
				Float64("mean-us", searchTime.Mean()).
				Float64("moe95-us", searchTime.MarginOfError(95)).
				Msg("bench-progress")
		}
	}

	r := &Report{
		Backend:    eng.Backend(),
		Mode:       eng.Mode(),
		Boards:     opts.Boards,
		Searches:   len(micros),
		Elapsed:    time.Since(ts),
		Micros:     Summarize(micros),
		Placements: Summarize(counts),
	}
	for s := range perShape {
		r.PerShape[s] = Summarize(perShape[s])
	}
	return r, nil
}
