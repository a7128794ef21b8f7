//go:build !linux

package notify

// New returns a no-op notifier on non-Linux platforms.
func New() (Notifier, error) {
	return discard{}, nil
}
