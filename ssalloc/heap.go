package ssalloc

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/supersonic/ssfail"
)

// Heap adapts an arrow/memory.Allocator into this package's Allocator
// interface. Construction takes the backing allocator as an explicit
// parameter rather than reaching for a process-wide default, so callers
// that want a shared or pooled allocator can supply one.
type Heap struct {
	backing memory.Allocator
}

// NewHeap wraps backing (e.g. memory.NewGoAllocator(), or
// memory.DefaultAllocator) as an Allocator. A nil backing uses
// memory.NewGoAllocator().
func NewHeap(backing memory.Allocator) *Heap {
	if backing == nil {
		backing = memory.NewGoAllocator()
	}
	return &Heap{backing: backing}
}

// Allocate never fails for the plain heap allocator — arrow/memory.Allocator
// panics on true OOM the same way Go's own make() would. The FailureOr
// error channel exists for Bounded's policy ceilings, not for
// genuine system OOM.
func (h *Heap) Allocate(size int) ssfail.FailureOr[AllocResult] {
	buf := h.backing.Allocate(size)
	return ssfail.Success(AllocResult{Buf: buf, ActualBytes: size})
}

// Reallocate resizes buf to newSize, preserving existing contents.
func (h *Heap) Reallocate(newSize int, buf []byte) ssfail.FailureOr[AllocResult] {
	resized := h.backing.Reallocate(newSize, buf)
	return ssfail.Success(AllocResult{Buf: resized, ActualBytes: newSize})
}

// Free releases buf back to the backing allocator.
func (h *Heap) Free(buf []byte) {
	h.backing.Free(buf)
}
