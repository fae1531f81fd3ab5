//go:build darwin

package platform

import "tempo/internal/core/timekeeper"

func newIdleProvider() timekeeper.IdleChecker {
	return unsupportedIdleProvider{}
}
