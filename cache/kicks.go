package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/reachgen/kicks"
)

type rotationSystems struct {
	sync.Mutex
	loaded map[string]kicks.RotationSystem
}

var globalRotationSystems = &rotationSystems{loaded: make(map[string]kicks.RotationSystem)}

// RotationSystem resolves name with kicks.Named the first time it is asked
// for and hands back the same instance afterwards.
func RotationSystem(name string) (kicks.RotationSystem, error) {
	c := globalRotationSystems
	c.Lock()
	defer c.Unlock()
	if rs, ok := c.loaded[name]; ok {
		log.Debug().Str("key", name).Msg("getting rotation system from cache")
		return rs, nil
	}
	log.Debug().Str("key", name).Msg("loading rotation system into cache")
	rs, err := kicks.Named(name)
	if err != nil {
		return nil, err
	}
	c.loaded[name] = rs
	return rs, nil
}
