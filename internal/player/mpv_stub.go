//go:build !libmpv

package player

import "errors"

// MPVFactory is unavailable without the libmpv build tag.
func MPVFactory(_ Media, _ Listener) (Device, error) {
	return nil, errors.New("libmpv backend is not enabled; build with -tags libmpv")
}
