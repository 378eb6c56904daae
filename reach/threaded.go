package reach

import (
	"context"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/reachgen/piece"
	"github.com/domino14/reachgen/placement"
)

// GenerateAll runs one independent search per spawn, at most threads at a
// time, or one per cpu when threads is not positive. Result i belongs to
// spawns[i]. Searches share nothing but the read-only field.
func GenerateAll(ctx context.Context, e *Engine, field Field, spawns []placement.Placement,
	minimize bool, threads int) ([][]placement.Placement, error) {

	out := make([][]placement.Placement, len(spawns))
	g, ctx := errgroup.WithContext(ctx)
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	g.SetLimit(threads)
	for i, spawn := range spawns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plms, err := e.Generate(field, spawn, minimize)
			if err != nil {
				return err
			}
			out[i] = plms
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Debug().Err(err).Msg("generate-all-stopped")
		return nil, err
	}
	return out, nil
}

// SpawnsFor returns the spawn of every shape at the given centre, in North.
func SpawnsFor(cx, cy int) []placement.Placement {
	spawns := make([]placement.Placement, 0, piece.NumShapes)
	for _, s := range piece.Shapes {
		spawns = append(spawns, placement.FromCenter(piece.Piece{Shape: s, Orientation: piece.North}, cx, cy))
	}
	return spawns
}
