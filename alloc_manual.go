package dynarray

import (
	"github.com/pkg/errors"
	"modernc.org/memory"
)

// ManualAllocator takes storage from memory mapped outside the Go heap.
// Buffers live until freed, so every Array backed by it must be Freed and
// the allocator Closed when no longer needed.
//
// Not goroutine-safe; wrap it with Synchronized to share it.
type ManualAllocator struct {
	mem      memory.Allocator
	inUse    int64
	allocs   uint64
	frees    uint64
	reallocs uint64
	closed   bool
}

// NewManualAllocator creates an empty ManualAllocator.
func NewManualAllocator() *ManualAllocator {
	return &ManualAllocator{}
}

// Calloc returns size zeroed bytes.
func (m *ManualAllocator) Calloc(size int) ([]byte, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	b, err := m.mem.Calloc(size)
	if err != nil {
		return nil, errors.Wrapf(err, "manual: calloc %d bytes", size)
	}
	m.allocs++
	m.inUse += int64(size)
	return b, nil
}

// Realloc resizes b, moving it when it cannot grow in place.
func (m *ManualAllocator) Realloc(b []byte, size int) ([]byte, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	nb, err := m.mem.Realloc(b, size)
	if err != nil {
		return nil, errors.Wrapf(err, "manual: realloc %d to %d bytes", len(b), size)
	}
	m.reallocs++
	m.inUse += int64(size - len(b))
	return nb, nil
}

// Free returns b to the allocator.
func (m *ManualAllocator) Free(b []byte) error {
	if err := m.checkOpen(); err != nil {
		return err
	}
	if err := m.mem.Free(b); err != nil {
		return errors.Wrap(err, "manual: free")
	}
	m.frees++
	m.inUse -= int64(len(b))
	return nil
}

// Close unmaps everything the allocator still holds. Slices handed out
// earlier must not be touched afterwards.
func (m *ManualAllocator) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return errors.Wrap(m.mem.Close(), "manual: close")
}

// Metrics returns a snapshot of the allocator counters.
func (m *ManualAllocator) Metrics() AllocatorMetrics {
	return AllocatorMetrics{
		BytesInUse: m.inUse,
		Allocs:     m.allocs,
		Frees:      m.frees,
		Reallocs:   m.reallocs,
	}
}

func (m *ManualAllocator) checkOpen() error {
	if m.closed {
		return errors.New("manual: allocator closed")
	}
	return nil
}
