//go:build !windows

// Package stderr captures output that C audio libraries (ALSA, libmpv)
// write directly to file descriptor 2, bypassing os.Stderr, and forwards
// it to the logger so it does not corrupt the TUI.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Capture redirects fd 2 to a pipe until the returned stop function is
// called. Captured lines are logged at warn level.
func Capture(log logrus.FieldLogger) (stop func(), err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		forward(r, log)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = syscall.Dup2(orig, int(os.Stderr.Fd()))
			_ = syscall.Close(orig)
			w.Close()
			wg.Wait()
			r.Close()
		})
	}, nil
}

func forward(r *os.File, log logrus.FieldLogger) {
	entry := log.WithField("source", "stderr")
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			entry.Warn(line)
		}
	}
}
