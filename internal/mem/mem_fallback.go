//go:build !linux && !darwin && !freebsd && !openbsd && !netbsd && !dragonfly

package mem

// Page locking is unavailable here; buffers are still wiped on release.
func lockPlatform(_ []byte) error {
	return nil
}

func unlockPlatform(_ []byte) error {
	return nil
}
