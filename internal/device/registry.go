package device

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the devices of the system and their capability sets,
// probed once when a device is added
type Registry struct {
	mu      sync.RWMutex
	devices map[string]Device
	caps    map[string]Capabilities
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]Device),
		caps:    make(map[string]Capabilities),
	}
}

// Add registers d. Keys must be unique.
func (r *Registry) Add(d Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[d.Key()]; exists {
		return fmt.Errorf("device %q already registered", d.Key())
	}
	r.devices[d.Key()] = d
	r.caps[d.Key()] = Probe(d)
	return nil
}

// Get returns the device registered under key
func (r *Registry) Get(key string) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[key]
	return d, ok
}

// Capabilities returns the capability set of d. Devices whose key was never
// added are probed on every call.
func (r *Registry) Capabilities(d Device) Capabilities {
	if d == nil {
		return Capabilities{}
	}
	r.mu.RLock()
	c, ok := r.caps[d.Key()]
	r.mu.RUnlock()
	if ok {
		return c
	}
	return Probe(d)
}

// All returns the registered devices ordered by key
func (r *Registry) All() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
