package devices

import "sync"

// Constructor builds a fresh, unopened Device instance.
type Constructor func() Device

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register associates a driver type name with a constructor. Intended to
// be called from each driver package's init(), mirroring database/sql's
// driver registration pattern.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = ctor
}

// New constructs a Device for the given registered driver name. Per the
// factory contract, an unknown name returns (nil, false) rather than an
// error — the caller decides whether that is fatal.
func New(name string) (Device, bool) {
	registryMu.RLock()
	ctor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// RegisteredNames returns the currently registered driver type names.
func RegisteredNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
