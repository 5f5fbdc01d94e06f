package dynarray

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// Allocator is a storage backend for Arrays.
//
// Calloc returns size zeroed bytes. Realloc resizes b to size bytes,
// preserving the first min(len(b), size) bytes; the contents of any added
// tail are unspecified. Free releases b. A failing Calloc or Realloc must
// leave b untouched.
type Allocator interface {
	Calloc(size int) ([]byte, error)
	Realloc(b []byte, size int) ([]byte, error)
	Free(b []byte) error
}

// MetricsSource is implemented by allocators that keep usage counters.
type MetricsSource interface {
	Metrics() AllocatorMetrics
}

// DefaultAllocator is used by Arrays created without WithAllocator.
// It is safe to use from multiple goroutines.
var DefaultAllocator Allocator = NewHeapAllocator()

// HeapAllocator hands out ordinary Go slices. Free only updates the
// counters; the garbage collector reclaims the memory.
type HeapAllocator struct {
	bytesInUse atomic.Int64
	allocs     atomic.Uint64
	frees      atomic.Uint64
	reallocs   atomic.Uint64
}

// NewHeapAllocator creates a HeapAllocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{}
}

// Calloc returns a zeroed slice of size bytes.
func (h *HeapAllocator) Calloc(size int) ([]byte, error) {
	b, err := makeBytes(size)
	if err != nil {
		return nil, errors.Wrapf(err, "heap: calloc %d bytes", size)
	}
	h.allocs.Add(1)
	h.bytesInUse.Add(int64(size))
	return b, nil
}

// Realloc shrinks b in place or moves it into a larger slice.
func (h *HeapAllocator) Realloc(b []byte, size int) ([]byte, error) {
	if size >= 0 && size <= cap(b) {
		h.reallocs.Add(1)
		h.bytesInUse.Add(int64(size - len(b)))
		return b[:size], nil
	}
	nb, err := makeBytes(size)
	if err != nil {
		return nil, errors.Wrapf(err, "heap: realloc %d bytes", size)
	}
	copy(nb, b)
	h.reallocs.Add(1)
	h.bytesInUse.Add(int64(size - len(b)))
	return nb, nil
}

// Free records the release of b.
func (h *HeapAllocator) Free(b []byte) error {
	h.frees.Add(1)
	h.bytesInUse.Add(-int64(len(b)))
	return nil
}

// Metrics returns a snapshot of the allocator counters.
func (h *HeapAllocator) Metrics() AllocatorMetrics {
	return AllocatorMetrics{
		BytesInUse: h.bytesInUse.Load(),
		Allocs:     h.allocs.Load(),
		Frees:      h.frees.Load(),
		Reallocs:   h.reallocs.Load(),
	}
}

// makeBytes turns the runtime's "len out of range" panic into an error.
// Requests the runtime accepts but the OS cannot back still abort.
func makeBytes(size int) (b []byte, err error) {
	if size < 0 {
		return nil, errors.Errorf("negative size %d", size)
	}
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, errors.Errorf("%v", r)
		}
	}()
	return make([]byte, size), nil
}
