// Package worker serves placement searches over NATS request/reply.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/reachgen/board"
	"github.com/domino14/reachgen/cache"
	"github.com/domino14/reachgen/config"
	"github.com/domino14/reachgen/placement"
	"github.com/domino14/reachgen/reach"
)

type engineKey struct {
	backend reach.Backend
	mode    reach.Mode
	kicks   string
}

// SearchWorker answers Requests. Engines are built on first use for each
// backend, mode and kick table combination and shared afterwards.
type SearchWorker struct {
	config  *WorkerConfig
	results *cache.Results

	mu      sync.Mutex
	engines map[engineKey]*reach.Engine
}

func NewSearchWorker(cfg *WorkerConfig) *SearchWorker {
	return &SearchWorker{
		config:  cfg,
		results: cache.NewResults(cfg.Config.GetInt(config.ConfigCacheSize)),
		engines: make(map[engineKey]*reach.Engine),
	}
}

// options resolves the engine a request runs on from its overrides and the
// worker's defaults. Kick tables are identified by the name or path they
// were configured under, not by the name a table file gives itself.
func (w *SearchWorker) options(req *Request) (engineKey, error) {
	cfg := w.config.Config
	backend := reach.Backend(cfg.GetString(config.ConfigBackend))
	if req.Backend != "" {
		backend = reach.Backend(req.Backend)
	}
	modeName := cfg.GetString(config.ConfigDropMode)
	if req.Mode != "" {
		modeName = req.Mode
	}
	mode, err := reach.ParseMode(modeName)
	if err != nil {
		return engineKey{}, err
	}
	kicks := cfg.GetString(config.ConfigKickTable)
	if req.Kicks != "" {
		if !slices.Contains(w.config.AllowedKicks, req.Kicks) {
			return engineKey{}, fmt.Errorf("kick table %q is not served here", req.Kicks)
		}
		kicks = req.Kicks
	}
	return engineKey{backend, mode, kicks}, nil
}

func (w *SearchWorker) engine(key engineKey) (*reach.Engine, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.engines[key]; ok {
		return e, nil
	}
	rs, err := cache.RotationSystem(key.kicks)
	if err != nil {
		return nil, err
	}
	e, err := reach.NewEngine(key.backend, rs, key.mode)
	if err != nil {
		return nil, err
	}
	w.engines[key] = e
	return e, nil
}

func (w *SearchWorker) handle(req *Request) *Response {
	opts, err := w.options(req)
	if err != nil {
		return errorResponse("could not set up engine", err)
	}
	eng, err := w.engine(opts)
	if err != nil {
		return errorResponse("could not set up engine", err)
	}
	field, err := board.Parse[reach.Field](req.Board)
	if err != nil {
		return errorResponse("could not parse board", err)
	}
	spawn, err := req.spawn()
	if err != nil {
		return errorResponse("could not parse spawn", err)
	}

	if req.Target != nil {
		target, err := req.Target.ToPlacement()
		if err != nil {
			return errorResponse("could not parse target", err)
		}
		ok, err := eng.CanReach(field, spawn, target)
		if err != nil {
			return errorResponse("search failed", err)
		}
		return &Response{Reachable: &ok}
	}

	minimize := w.config.Config.GetBool(config.ConfigMinimize)
	if req.Minimize != nil {
		minimize = *req.Minimize
	}
	key := cache.Key(field, spawn, opts.backend, opts.kicks, opts.mode, minimize)
	cached := true
	plms, err := w.results.Load(key, func() ([]placement.Placement, error) {
		cached = false
		return eng.Generate(field, spawn, minimize)
	})
	if err != nil {
		return errorResponse("search failed", err)
	}
	return &Response{
		Placements: lo.Map(plms, func(p placement.Placement, _ int) Placement { return FromPlacement(p) }),
		Cached:     cached,
	}
}

// Handle decodes a JSON Request and returns the encoded Response.
func (w *SearchWorker) Handle(data []byte) []byte {
	var resp *Response
	req := &Request{}
	if err := json.Unmarshal(data, req); err != nil {
		resp = errorResponse("could not decode request", err)
	} else {
		resp = w.handle(req)
	}
	if resp.Error != "" {
		log.Debug().Str("error", resp.Error).Msg("request-failed")
	}
	out, err := json.Marshal(resp)
	if err != nil {
		// Should never happen; the response types are plain data.
		return []byte(`{"error":"could not encode response"}`)
	}
	return out
}

// Run serves requests on the configured subject until ctx is done.
func (w *SearchWorker) Run(ctx context.Context, nc *nats.Conn) error {
	sub, err := nc.Subscribe(w.config.Subject, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("recv")
		if err := m.Respond(w.Handle(m.Data)); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("subject", w.config.Subject).Msg("listening")

	<-ctx.Done()
	log.Info().Msg("worker shutting down")
	if err := sub.Drain(); err != nil {
		return err
	}
	return ctx.Err()
}
