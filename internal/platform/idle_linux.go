//go:build linux

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"tempo/internal/core/timekeeper"
)

// xprintidleProvider asks the X server through xprintidle. Pure Wayland
// sessions have no equivalent and report unsupported.
type xprintidleProvider struct {
	path string
	run  func(path string) ([]byte, error)
}

func newIdleProvider() timekeeper.IdleChecker {
	if os.Getenv("DISPLAY") == "" {
		logrus.WithFields(logrus.Fields{
			"function": "newIdleProvider",
			"session":  os.Getenv("XDG_SESSION_TYPE"),
		}).Info("no X display, idle detection unavailable")
		return unsupportedIdleProvider{}
	}
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "newIdleProvider",
		}).Info("xprintidle not found, idle detection unavailable")
		return unsupportedIdleProvider{}
	}
	return &xprintidleProvider{path: path, run: runCommand}
}

func runCommand(path string) ([]byte, error) {
	return exec.Command(path).Output()
}

func (provider *xprintidleProvider) IdleDuration() (time.Duration, error) {
	output, err := provider.run(provider.path)
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseIdleMillis(output)
}
