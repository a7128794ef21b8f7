//go:build windows

// Package stderr is a no-op on Windows, where the audio backends do not
// write to the process stderr.
package stderr

import "github.com/sirupsen/logrus"

// Capture is a no-op on Windows.
func Capture(_ logrus.FieldLogger) (stop func(), err error) {
	return func() {}, nil
}
