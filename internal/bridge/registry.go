package bridge

import (
	"sync"

	"github.com/sirupsen/logrus"
	mqttclient "github.com/tetragramaton/smartfarm-go/internal/client/mqtt"
	mqttIface "github.com/tetragramaton/smartfarm-go/internal/interface/mqtt"
)

// Registry owns the bridge for the connection settings currently in use.
// Asking for different settings closes the previous bridge before a new
// one is built, so at most one broker session is alive.
type Registry struct {
	transport mqttclient.Config
	factory   mqttIface.Factory
	log       *logrus.Entry

	mu      sync.Mutex
	bridges map[Config]*Bridge
}

func NewRegistry(transport mqttclient.Config, factory mqttIface.Factory, logger *logrus.Entry) *Registry {
	return &Registry{
		transport: transport,
		factory:   factory,
		log:       logger,
		bridges:   make(map[Config]*Bridge),
	}
}

// Acquire returns the bridge for cfg, building it if needed.
func (r *Registry) Acquire(cfg Config) *Bridge {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.bridges[cfg]; ok {
		return b
	}
	for key, old := range r.bridges {
		r.log.WithField("broker", key.Address()).Info("connection settings changed, closing previous bridge")
		old.Close()
		delete(r.bridges, key)
	}

	b := New(cfg, r.transport, r.factory, r.log)
	r.bridges[cfg] = b
	return b
}

// Current returns the live bridge, or nil before the first Acquire.
func (r *Registry) Current() *Bridge {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bridges {
		return b
	}
	return nil
}

func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, b := range r.bridges {
		b.Close()
		delete(r.bridges, key)
	}
}
