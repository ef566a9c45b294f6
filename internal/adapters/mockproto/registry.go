// Package mockproto is an in-memory protocol provider. It backs the demo
// binary and the application tests: rooms, members and failures are
// scripted through Simulate methods instead of a network.
package mockproto

import (
	"sync"

	"github.com/dkeye/Conclave/internal/protocol"
)

// Registry implements protocol.Registry over a scriptable provider set.
type Registry struct {
	mu        sync.Mutex
	providers []*Provider
	sinks     protocol.SinkList[protocol.ProviderSink]
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Providers() []protocol.Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.Provider, len(r.providers))
	for i, p := range r.providers {
		out[i] = p
	}
	return out
}

func (r *Registry) AddProviderSink(s protocol.ProviderSink) (remove func()) {
	return r.sinks.Add(s)
}

// Register adds the provider if unknown, marks it registered and fires
// ProviderRegistered.
func (r *Registry) Register(p *Provider) {
	r.mu.Lock()
	known := false
	for _, q := range r.providers {
		if q == p {
			known = true
			break
		}
	}
	if !known {
		r.providers = append(r.providers, p)
	}
	r.mu.Unlock()

	p.setRegistered(true)
	r.fire(protocol.ProviderEvent{Type: protocol.ProviderRegistered, Provider: p})
}

// Unregister fires ProviderUnregistering, then marks the provider
// unregistered. The provider stays in the registry for re-registration.
func (r *Registry) Unregister(p *Provider) {
	r.fire(protocol.ProviderEvent{Type: protocol.ProviderUnregistering, Provider: p})
	p.setRegistered(false)
}

func (r *Registry) fire(evt protocol.ProviderEvent) {
	for _, s := range r.sinks.Snapshot() {
		s(evt)
	}
}
