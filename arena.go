package dynarray

import (
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
)

// DefaultChunkSize is the default chunk size for new arena allocators (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk represents a single memory chunk within an arena.
type chunk struct {
	buf    []byte  // backing memory
	offset uintptr // allocation offset within buf
}

// ArenaAllocator is a chunked bump allocator. Freeing an individual buffer
// only reclaims space when it is the most recent allocation in its chunk;
// everything else is reclaimed in bulk by Reset or Release.
//
// Typical usage: one ArenaAllocator per request, many short-lived Arrays
// backed by it, then Reset() at the end of the request. Reset and Release
// reclaim the storage of every Array still holding some: those Arrays
// panic with KindReleased on use, and their Free only invalidates the
// handle.
//
// Not goroutine-safe; wrap it with Synchronized to share it.
type ArenaAllocator struct {
	chunks       []chunk
	chunkSize    int
	currentChunk *chunk
	allocs       uint64
	frees        uint64
	reallocs     uint64
	epoch        atomic.Uint64
}

// NewArenaAllocator creates an ArenaAllocator with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArenaAllocator(chunkSize int) *ArenaAllocator {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &ArenaAllocator{chunkSize: chunkSize}
	a.grow(chunkSize)
	return a
}

// Calloc returns size zeroed bytes carved from the current chunk.
func (a *ArenaAllocator) Calloc(size int) ([]byte, error) {
	if a.chunks == nil {
		return nil, errors.New("arena: use after Release()")
	}
	if size < 0 {
		return nil, errors.Errorf("arena: negative size %d", size)
	}
	b, err := a.bump(size)
	if err != nil {
		return nil, err
	}
	// Chunks are reused after Reset, so the bytes may be dirty.
	clear(b)
	a.allocs++
	return b, nil
}

// Realloc grows b in place when it is the last allocation of the current
// chunk and the chunk has room; otherwise it copies into a new allocation.
func (a *ArenaAllocator) Realloc(b []byte, size int) ([]byte, error) {
	if a.chunks == nil {
		return nil, errors.New("arena: use after Release()")
	}
	if size < 0 {
		return nil, errors.Errorf("arena: negative size %d", size)
	}
	c := a.currentChunk
	if start, ok := a.tail(c, b); ok && start+uintptr(size) <= uintptr(len(c.buf)) {
		c.offset = start + uintptr(size)
		a.reallocs++
		return c.buf[start : start+uintptr(size) : start+uintptr(size)], nil
	}
	if size <= len(b) {
		a.reallocs++
		return b[:size:size], nil
	}
	nb, err := a.bump(size)
	if err != nil {
		return nil, err
	}
	copy(nb, b)
	a.reallocs++
	return nb, nil
}

// Free rolls the current chunk back when b is its last allocation.
func (a *ArenaAllocator) Free(b []byte) error {
	if a.chunks == nil {
		return errors.New("arena: use after Release()")
	}
	if start, ok := a.tail(a.currentChunk, b); ok {
		a.currentChunk.offset = start
	}
	a.frees++
	return nil
}

// EnsureCapacity ensures the current chunk has at least n free bytes.
// If not, it grows the arena with a new chunk.
func (a *ArenaAllocator) EnsureCapacity(n int) {
	a.panicIfReleased()
	c := a.currentChunk
	if uintptr(n)+alignPtr(c.offset) > uintptr(len(c.buf)) {
		a.grow(n)
	}
}

// Reset resets allocation offsets to zero but keeps allocated chunks for reuse.
// Every buffer handed out before Reset becomes invalid.
func (a *ArenaAllocator) Reset() {
	a.panicIfReleased()
	a.epoch.Add(1)
	for i := range a.chunks {
		a.chunks[i].offset = 0
	}
	a.currentChunk = &a.chunks[0]
}

// Release drops all chunks and makes the arena unusable.
// Any subsequent operations will fail or panic.
func (a *ArenaAllocator) Release() {
	a.epoch.Add(1)
	a.chunks = nil
	a.currentChunk = nil
}

// Epoch counts the Resets and Releases so far. Buffers handed out in an
// earlier epoch are no longer owned by their caller.
func (a *ArenaAllocator) Epoch() uint64 {
	return a.epoch.Load()
}

// bump hands out n bytes from the current chunk, moving on to the next
// (or a new) chunk when it does not fit.
func (a *ArenaAllocator) bump(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	c := a.currentChunk
	off := alignPtr(c.offset)
	if off+uintptr(n) > uintptr(len(c.buf)) {
		if err := a.advance(n); err != nil {
			return nil, err
		}
		c = a.currentChunk
		off = alignPtr(c.offset)
	}
	end := off + uintptr(n)
	c.offset = end
	return c.buf[off:end:end], nil
}

// advance moves to the next chunk that can hold n bytes, reusing chunks
// kept by Reset before growing.
func (a *ArenaAllocator) advance(n int) error {
	for i := range a.chunks {
		c := &a.chunks[i]
		if c == a.currentChunk || c.offset != 0 {
			continue
		}
		if n <= len(c.buf) {
			a.currentChunk = c
			return nil
		}
	}
	size := a.chunkSize
	if n > size {
		size = n
	}
	buf, err := makeBytes(size)
	if err != nil {
		return errors.Wrapf(err, "arena: grow by %d bytes", size)
	}
	a.chunks = append(a.chunks, chunk{buf: buf})
	a.currentChunk = &a.chunks[len(a.chunks)-1]
	return nil
}

// grow appends a new chunk of at least min bytes.
func (a *ArenaAllocator) grow(min int) {
	size := a.chunkSize
	if min > size {
		size = min
	}
	buf := make([]byte, size)
	a.chunks = append(a.chunks, chunk{buf: buf, offset: 0})
	a.currentChunk = &a.chunks[len(a.chunks)-1]
}

// tail reports whether b ends exactly at c's allocation offset and, if so,
// where b starts within c.buf.
func (a *ArenaAllocator) tail(c *chunk, b []byte) (uintptr, bool) {
	if c == nil || len(b) == 0 || len(c.buf) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(c.buf)))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if p < base || p+uintptr(len(b)) != base+c.offset {
		return 0, false
	}
	return p - base, true
}

// panicIfReleased panics if the arena has been released.
func (a *ArenaAllocator) panicIfReleased() {
	if a.chunks == nil {
		panic("arena: use after Release()")
	}
}

// alignPtr aligns the offset up to pointer size alignment.
func alignPtr(off uintptr) uintptr {
	const align = unsafe.Sizeof(uintptr(0))
	mask := align - 1
	return (off + mask) & ^mask
}
