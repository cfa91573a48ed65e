// Package mem holds the memory primitives used by secret cells: a zero-fill
// that the compiler cannot elide, and page locking for buffers that must not
// reach swap.
package mem

import (
	"runtime"
	"sync/atomic"

	"github.com/awnumar/memguard"
)

// sink absorbs a read of every wiped buffer so the preceding stores are observable.
var sink atomic.Uint64

// Wipe overwrites b with zeros.
// The stores are followed by a read folded into an atomic counter, which keeps
// them live even when b is about to become unreachable.
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}

	memguard.WipeBytes(b)

	var sum uint64
	for _, v := range b {
		sum += uint64(v)
	}
	sink.Add(sum)
	runtime.KeepAlive(b)
}

// Lock pins the pages backing b into physical memory.
func Lock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return lockPlatform(b)
}

// Unlock releases a lock taken by Lock.
func Unlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unlockPlatform(b)
}
