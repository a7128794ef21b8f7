package player

import "fmt"

// Backend names accepted by FactoryFor.
const (
	BackendLocal = "local"
	BackendMPV   = "mpv"
)

// FactoryFor returns the device factory for a named backend.
func FactoryFor(name string) (Factory, error) {
	switch name {
	case "", BackendLocal:
		return LocalFactory, nil
	case BackendMPV:
		return MPVFactory, nil
	default:
		return nil, fmt.Errorf("unknown player backend %q", name)
	}
}
