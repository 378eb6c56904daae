package worker

import (
	"fmt"

	"github.com/domino14/reachgen/piece"
	"github.com/domino14/reachgen/placement"
)

// Request asks for every landed placement of one piece on a board. If
// Target is set the worker answers whether that placement is reachable
// instead.
type Request struct {
	// Board is the field in the text format board.Parse reads, top row first.
	Board       string `json:"board"`
	Shape       string `json:"shape"`
	Orientation string `json:"orientation,omitempty"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	// Center means X and Y give the rotation centre rather than the
	// bottom-left corner of the bounding box.
	Center bool `json:"center,omitempty"`

	// These override the worker's defaults when set.
	Backend  string `json:"backend,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Kicks    string `json:"kicks,omitempty"`
	Minimize *bool  `json:"minimize,omitempty"`

	Target *Placement `json:"target,omitempty"`
}

// Placement is the wire form of a placement. Tiny carries the packed
// encoding for clients that store results compactly.
type Placement struct {
	Shape       string `json:"shape"`
	Orientation string `json:"orientation"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Tiny        uint16 `json:"tiny,omitempty"`
}

type Response struct {
	Placements []Placement `json:"placements,omitempty"`
	Reachable  *bool       `json:"reachable,omitempty"`
	Cached     bool        `json:"cached,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func FromPlacement(p placement.Placement) Placement {
	return Placement{
		Shape:       p.Piece.Shape.String(),
		Orientation: p.Piece.Orientation.Letter(),
		X:           p.X,
		Y:           p.Y,
		Tiny:        uint16(p.Pack()),
	}
}

func (p Placement) ToPlacement() (placement.Placement, error) {
	s, err := piece.ParseShape(p.Shape)
	if err != nil {
		return placement.Placement{}, err
	}
	o, err := piece.ParseOrientation(p.Orientation)
	if err != nil {
		return placement.Placement{}, err
	}
	return placement.New(s, o, p.X, p.Y), nil
}

// spawn resolves the piece and position the request starts from.
func (r *Request) spawn() (placement.Placement, error) {
	s, err := piece.ParseShape(r.Shape)
	if err != nil {
		return placement.Placement{}, err
	}
	o := piece.North
	if r.Orientation != "" {
		if o, err = piece.ParseOrientation(r.Orientation); err != nil {
			return placement.Placement{}, err
		}
	}
	p := piece.Piece{Shape: s, Orientation: o}
	if r.Center {
		return placement.FromCenter(p, r.X, r.Y), nil
	}
	return placement.Placement{Piece: p, X: r.X, Y: r.Y}, nil
}

func errorResponse(message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{Error: msg}
}
