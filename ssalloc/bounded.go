package ssalloc

import (
	"log/slog"
	"sync"

	"github.com/hugr-lab/supersonic/ssfail"
)

// Bounded wraps another Allocator and enforces a memory ceiling, turning
// an exhausted ceiling into a MEMORY_EXCEEDED FailureOr rather than
// aborting. It charges each allocation's requested size against the
// ceiling (and releases len(buf) on Free), mirroring the outstanding-allocation bookkeeping of
// arrow/memory.CheckedAllocator but returning an error instead of
// panicking when the ceiling is hit.
//
// Bounded is safe for concurrent use by independent evaluation trees
// that share one ceiling: callers don't need their own locking just to
// share a cap.
type Bounded struct {
	backing   Allocator
	ceiling   int64
	mu        sync.Mutex
	allocated int64
	logger    *slog.Logger
}

// NewBounded wraps backing with a ceiling of ceilingBytes. A ceiling <= 0
// means unbounded (pass-through to backing). Diagnostics (ceiling
// exhaustion) are silent; use NewBoundedWithLogger to surface them.
func NewBounded(backing Allocator, ceilingBytes int64) *Bounded {
	return &Bounded{backing: backing, ceiling: ceilingBytes}
}

// NewBoundedWithLogger is NewBounded plus an optional *slog.Logger that
// receives a Warn-level record each time an allocation is rejected for
// exceeding the ceiling. A nil logger behaves exactly like NewBounded;
// logging is an optional constructor parameter here, never ambient global
// state.
func NewBoundedWithLogger(backing Allocator, ceilingBytes int64, logger *slog.Logger) *Bounded {
	return &Bounded{backing: backing, ceiling: ceilingBytes, logger: logger}
}

// InUse reports the number of bytes currently charged against the
// ceiling.
func (b *Bounded) InUse() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.allocated
}

func (b *Bounded) reserve(delta int64) *ssfail.Exception {
	if b.ceiling <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.allocated+delta > b.ceiling {
		if b.logger != nil {
			b.logger.Warn("ssalloc: allocation rejected, ceiling exceeded",
				"requested_bytes", delta, "ceiling_bytes", b.ceiling, "in_use_bytes", b.allocated)
		}
		return ssfail.Newf(ssfail.MemoryExceeded,
			"allocation of %d bytes would exceed ceiling of %d bytes (%d already in use)",
			delta, b.ceiling, b.allocated)
	}
	b.allocated += delta
	return nil
}

func (b *Bounded) release(delta int64) {
	if b.ceiling <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allocated -= delta
	if b.allocated < 0 {
		b.allocated = 0
	}
}

// Allocate reserves size bytes against the ceiling before delegating to
// the backing allocator; on ceiling exhaustion it fails fast without
// touching the backing allocator at all.
func (b *Bounded) Allocate(size int) ssfail.FailureOr[AllocResult] {
	if err := b.reserve(int64(size)); err != nil {
		return ssfail.Failure[AllocResult](err)
	}
	res := b.backing.Allocate(size)
	if res.IsFailure() {
		b.release(int64(size))
		return res
	}
	return res
}

// Reallocate adjusts the ceiling charge by the size delta before
// delegating.
func (b *Bounded) Reallocate(newSize int, buf []byte) ssfail.FailureOr[AllocResult] {
	delta := int64(newSize - len(buf))
	if delta > 0 {
		if err := b.reserve(delta); err != nil {
			return ssfail.Failure[AllocResult](err)
		}
	}
	res := b.backing.Reallocate(newSize, buf)
	if res.IsFailure() {
		if delta > 0 {
			b.release(delta)
		}
		return res
	}
	if delta < 0 {
		b.release(-delta)
	}
	return res
}

// Free releases buf and its ceiling charge.
func (b *Bounded) Free(buf []byte) {
	b.release(int64(len(buf)))
	b.backing.Free(buf)
}
