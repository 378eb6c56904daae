package worker

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reachgen/placement"
)

// Requester is the part of a NATS connection the client uses. *nats.Conn
// satisfies it.
type Requester interface {
	Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error)
	LastError() error
}

// Client sends searches to a worker.
type Client struct {
	nc      Requester
	subject string
	timeout time.Duration
}

func NewClient(nc Requester, cfg *WorkerConfig) *Client {
	return &Client{nc: nc, subject: cfg.Subject, timeout: cfg.RequestTimeout}
}

func (c *Client) do(req *Request) (*Response, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	res, err := c.nc.Request(c.subject, data, c.timeout)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		return nil, err
	}
	resp := &Response{}
	if err := json.Unmarshal(res.Data, resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("worker returned: " + resp.Error)
	}
	return resp, nil
}

// Generate asks the worker for every landed placement.
func (c *Client) Generate(req *Request) ([]placement.Placement, error) {
	req.Target = nil
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	out := make([]placement.Placement, len(resp.Placements))
	for i, p := range resp.Placements {
		if out[i], err = p.ToPlacement(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CanReach asks the worker whether target is reachable from the request's
// spawn.
func (c *Client) CanReach(req *Request, target placement.Placement) (bool, error) {
	t := FromPlacement(target)
	req.Target = &t
	resp, err := c.do(req)
	if err != nil {
		return false, err
	}
	if resp.Reachable == nil {
		return false, errors.New("worker reply has no answer")
	}
	return *resp.Reachable, nil
}
