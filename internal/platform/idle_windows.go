//go:build windows

package platform

import (
	"errors"
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"tempo/internal/core/timekeeper"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	procGetTickCount64   = kernel32.NewProc("GetTickCount64")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type lastInputProvider struct{}

func newIdleProvider() timekeeper.IdleChecker {
	if err := procGetLastInputInfo.Find(); err != nil {
		return unsupportedIdleProvider{}
	}
	return lastInputProvider{}
}

func (lastInputProvider) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	result, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		if err == nil {
			err = errors.New("unknown error")
		}
		return 0, fmt.Errorf("get last input info: %w", err)
	}

	ticks, _, _ := procGetTickCount64.Call()
	// dwTime wraps every 49.7 days; compare in the same 32-bit space.
	idleMillis := uint32(ticks) - info.dwTime
	return time.Duration(idleMillis) * time.Millisecond, nil
}
