package worker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/reachgen/board"
	"github.com/domino14/reachgen/config"
	"github.com/domino14/reachgen/piece"
	"github.com/domino14/reachgen/placement"
)

func newTestWorker() *SearchWorker {
	return NewSearchWorker(NewWorkerConfig(config.DefaultConfig()))
}

func roundTrip(t *testing.T, w *SearchWorker, req *Request) *Response {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	resp := &Response{}
	if err := json.Unmarshal(w.Handle(data), resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHandleBlankO(t *testing.T) {
	is := is.New(t)
	w := newTestWorker()
	req := &Request{Board: string(board.Blank), Shape: "O", X: 4, Y: 20}

	resp := roundTrip(t, w, req)
	is.Equal(resp.Error, "")
	is.Equal(len(resp.Placements), 9)
	is.True(!resp.Cached)
	for i, p := range resp.Placements {
		is.Equal(p.Shape, "O")
		is.Equal(p.Orientation, "N")
		is.Equal(p.X, i)
		is.Equal(p.Y, 0)
		is.Equal(placement.Tiny(p.Tiny).Unpack(), placement.New(piece.O, piece.North, i, 0))
	}

	again := roundTrip(t, w, req)
	is.True(again.Cached)
	is.Equal(again.Placements, resp.Placements)

	off := false
	req.Minimize = &off
	all := roundTrip(t, w, req)
	is.Equal(len(all.Placements), 36)
	is.True(!all.Cached)
}

func TestHandleCanReach(t *testing.T) {
	is := is.New(t)
	w := newTestWorker()
	target := FromPlacement(placement.New(piece.T, piece.South, 2, 0))
	req := &Request{
		Board:  string(board.TSlot),
		Shape:  "t",
		X:      4,
		Y:      18,
		Center: true,
		Target: &target,
	}
	resp := roundTrip(t, w, req)
	is.Equal(resp.Error, "")
	is.True(resp.Reachable != nil)
	is.True(*resp.Reachable)

	req.Mode = "hard"
	resp = roundTrip(t, w, req)
	is.True(resp.Reachable != nil)
	is.True(!*resp.Reachable)
}

func TestHandleBackendOverride(t *testing.T) {
	is := is.New(t)
	w := newTestWorker()
	base := roundTrip(t, w, &Request{Board: string(board.Well), Shape: "I", X: 4, Y: 18, Center: true})
	is.Equal(base.Error, "")
	for _, backend := range []string{"u32", "tall", "packed256"} {
		resp := roundTrip(t, w, &Request{Board: string(board.Well), Shape: "I", X: 4, Y: 18,
			Center: true, Backend: backend})
		is.Equal(resp.Error, "")
		is.Equal(resp.Placements, base.Placements)
	}
	is.Equal(len(w.engines), 4)
}

func TestHandleTallBoard(t *testing.T) {
	is := is.New(t)
	w := newTestWorker()
	// 70 rows; the only block is column 0, row 69.
	text := "#.........\n" + strings.Repeat("..........\n", 69)
	req := &Request{Board: text, Shape: "O", X: 4, Y: 100, Backend: "tall"}

	resp := roundTrip(t, w, req)
	is.Equal(resp.Error, "")
	is.Equal(len(resp.Placements), 10)
	var onTop, under bool
	for _, p := range resp.Placements {
		onTop = onTop || (p.X == 0 && p.Y == 70)
		under = under || (p.X == 0 && p.Y == 0)
		is.Equal(placement.Tiny(p.Tiny).Unpack(), placement.New(piece.O, piece.North, p.X, p.Y))
	}
	is.True(onTop)
	is.True(under)

	// The default backend holds 64 rows.
	req.Backend = ""
	resp = roundTrip(t, w, req)
	is.True(strings.Contains(resp.Error, "search failed"))
}

func TestHandleCustomKickTable(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	is.NoErr(os.WriteFile(path, []byte("name: custom\nkicks:\n  T:\n    N->E: [[0, 0]]\n"), 0o644))
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigKickTable, path)
	w := NewSearchWorker(NewWorkerConfig(cfg))

	req := &Request{Board: string(board.TSlot), Shape: "T", X: 4, Y: 18, Center: true}
	custom := roundTrip(t, w, req)
	is.Equal(custom.Error, "")
	is.True(!custom.Cached)

	req.Kicks = path
	again := roundTrip(t, w, req)
	is.True(again.Cached) // same table, named by path or by default

	req.Kicks = "srs"
	srs := roundTrip(t, w, req)
	is.Equal(srs.Error, "")
	is.True(!srs.Cached)
	is.Equal(len(w.engines), 2)
}

func TestHandleErrors(t *testing.T) {
	w := newTestWorker()
	tall := "#.........\n" + strings.Repeat("..........\n", 9)
	testcases := []struct {
		name string
		req  *Request
		want string
	}{
		{"bad shape", &Request{Shape: "Q"}, "could not parse spawn"},
		{"bad orientation", &Request{Shape: "T", Orientation: "up"}, "could not parse spawn"},
		{"bad board", &Request{Board: "..x?......", Shape: "T"}, "could not parse board"},
		{"ragged board", &Request{Board: "...\n..........", Shape: "T"}, "could not parse board"},
		{"bad backend", &Request{Shape: "T", Backend: "u128"}, "could not set up engine"},
		{"bad mode", &Request{Shape: "T", Mode: "medium"}, "could not set up engine"},
		{"kick file", &Request{Shape: "T", Kicks: "/etc/passwd"}, "could not set up engine"},
		{"too tall", &Request{Board: tall, Shape: "T", Backend: "u8"}, "search failed"},
		{"bad target", &Request{Shape: "T", Target: &Placement{Shape: "T", Orientation: "x"}},
			"could not parse target"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			resp := roundTrip(t, w, tc.req)
			assert.Contains(t, resp.Error, tc.want)
			assert.Empty(t, resp.Placements)
		})
	}

	resp := &Response{}
	assert.NoError(t, json.Unmarshal(w.Handle([]byte("{not json")), resp))
	assert.Contains(t, resp.Error, "could not decode request")
}

func TestPlacementWire(t *testing.T) {
	is := is.New(t)
	p := placement.New(piece.L, piece.West, 7, 33)
	wire := FromPlacement(p)
	is.Equal(wire.Shape, "L")
	is.Equal(wire.Orientation, "W")
	back, err := wire.ToPlacement()
	is.NoErr(err)
	is.Equal(back, p)
}

// loopback answers requests with a worker in the same process.
type loopback struct {
	w        *SearchWorker
	requests int
}

func (l *loopback) Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error) {
	l.requests++
	return &nats.Msg{Subject: subj, Data: l.w.Handle(data)}, nil
}

func (l *loopback) LastError() error {
	return nil
}

func TestClient(t *testing.T) {
	is := is.New(t)
	w := newTestWorker()
	conn := &loopback{w: w}
	c := NewClient(conn, w.config)

	plms, err := c.Generate(&Request{Board: string(board.Blank), Shape: "O", X: 4, Y: 20})
	is.NoErr(err)
	is.Equal(len(plms), 9)
	is.Equal(plms[3], placement.New(piece.O, piece.North, 3, 0))

	req := &Request{Board: string(board.TSlot), Shape: "T", X: 4, Y: 18, Center: true}
	ok, err := c.CanReach(req, placement.New(piece.T, piece.South, 2, 0))
	is.NoErr(err)
	is.True(ok)
	// Overlaps the stack.
	ok, err = c.CanReach(req, placement.New(piece.T, piece.North, 0, 0))
	is.NoErr(err)
	is.True(!ok)

	// Generate drops a target left over from an earlier CanReach.
	plms, err = c.Generate(req)
	is.NoErr(err)
	is.True(len(plms) > 0)

	_, err = c.Generate(&Request{Shape: "Q"})
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "could not parse spawn"))
	is.Equal(conn.requests, 5)
}
