// Package ssalloc implements the allocator interface used to own buffers
// for evaluation outputs: a narrow allocate/reallocate/free contract, a
// plain heap implementation, and a bounded implementation that turns an
// exhausted ceiling into a MEMORY_EXCEEDED FailureOr instead of
// aborting.
package ssalloc

import (
	"github.com/hugr-lab/supersonic/ssfail"
)

// Allocator is the narrow buffer-ownership interface evaluation uses to
// own its output storage. It deliberately has the same shape as
// arrow/memory.Allocator (Allocate, Reallocate, Free) so a host already
// using Arrow for its own data can share one allocator across both;
// Heap below adapts an arrow/memory.Allocator into this interface
// (which additionally returns a FailureOr instead of panicking).
type Allocator interface {
	// Allocate requests a zeroed buffer of at least size bytes. On
	// success the returned slice has length == size; actualBytes
	// reports how many bytes the allocator actually reserved for
	// accounting purposes (>= size).
	Allocate(size int) ssfail.FailureOr[AllocResult]

	// Reallocate resizes a previously-allocated buffer in place where
	// possible, preserving its existing contents up to min(old, new)
	// length.
	Reallocate(newSize int, buf []byte) ssfail.FailureOr[AllocResult]

	// Free releases a buffer previously returned by Allocate or
	// Reallocate. Passing a buffer not owned by this allocator is a
	// contract violation.
	Free(buf []byte)
}

// AllocResult is what a successful allocation returns: the buffer itself
// and the number of bytes charged against any ceiling the allocator
// enforces.
type AllocResult struct {
	Buf         []byte
	ActualBytes int
}
