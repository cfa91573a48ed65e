//go:build linux || darwin || freebsd || openbsd || netbsd || dragonfly

package mem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func lockPlatform(b []byte) error {
	if err := unix.Mlock(b); err != nil {
		return fmt.Errorf("mem: mlock failed: %w", err)
	}
	return nil
}

func unlockPlatform(b []byte) error {
	if err := unix.Munlock(b); err != nil {
		return fmt.Errorf("mem: munlock failed: %w", err)
	}
	return nil
}
