package dynarray

import (
	"math"

	"go.uber.org/zap"
)

// Array is a resizable array of fixed-width, type-erased elements stored
// contiguously. Every slot in [0, Len()) is valid storage; growing
// zero-fills the new slots and shrinking discards the trailing ones.
//
// An Array has a single owner and is not goroutine-safe. The owner must
// call Free exactly once. When the allocator reclaims the storage in bulk
// (ArenaAllocator.Reset or Release) the Array behaves as released, but
// its Free is still allowed and leaves the allocator alone.
type Array struct {
	cfg      config
	buf      []byte
	scratch  []byte
	length   int
	elemSize int
	gen      uint64
	epoch    uint64
	grows    uint64
	reallocs uint64
	freed    bool
}

// New creates an Array of length zero-filled elements, each elemSize bytes
// wide. No storage is allocated when length is 0.
//
// New panics if length < 0 or elemSize <= 0. It returns an error of Kind
// KindOutOfMemory if the allocator cannot provide the storage.
func New(length, elemSize int, opts ...Option) (*Array, error) {
	if elemSize <= 0 {
		panic(invalidSize("new", "element size %d, want > 0", elemSize))
	}
	if length < 0 {
		panic(invalidSize("new", "length %d, want >= 0", length))
	}
	return newArray(length, elemSize, newConfig(opts))
}

// MustNew is like New but panics if the storage cannot be allocated.
func MustNew(length, elemSize int, opts ...Option) *Array {
	a, err := New(length, elemSize, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

func newArray(length, elemSize int, cfg config) (*Array, error) {
	a := &Array{cfg: cfg, elemSize: elemSize}
	if length == 0 {
		return a, nil
	}
	size, ok := byteSize(length, elemSize)
	if !ok {
		return nil, a.allocFailed("new", length, nil)
	}
	buf, err := cfg.alloc.Calloc(size)
	if err != nil {
		return nil, a.allocFailed("new", length, err)
	}
	a.setStorage(buf, length)
	return a, nil
}

// Len returns the number of slots.
func (a *Array) Len() int {
	a.panicIfFreed("len")
	return a.length
}

// ElemSize returns the width of one element in bytes.
func (a *Array) ElemSize() int {
	a.panicIfFreed("elem_size")
	return a.elemSize
}

// Get returns the slot at index i. The returned slice aliases the array
// storage and is only valid until the next call that may reallocate it
// (Resize, PutAuto, Free). It panics if i is out of range.
func (a *Array) Get(i int) []byte {
	a.panicIfFreed("get")
	a.checkIndex("get", i)
	return a.slot(i)
}

// Put copies elem into slot i and returns the slot. elem must be exactly
// ElemSize() bytes. Put never grows the array; it panics if i is out of
// range.
func (a *Array) Put(i int, elem []byte) []byte {
	a.panicIfFreed("put")
	a.checkIndex("put", i)
	a.checkElem("put", elem)
	s := a.slot(i)
	copy(s, elem)
	return s
}

// PutAuto is like Put, but grows the array first when i >= Len(). The new
// length is max(i+1, 2*Len()), which keeps repeated appends amortized O(1).
func (a *Array) PutAuto(i int, elem []byte) ([]byte, error) {
	a.panicIfFreed("put_auto")
	a.checkElem("put_auto", elem)
	if err := a.ensureIndex("put_auto", i); err != nil {
		return nil, err
	}
	s := a.slot(i)
	copy(s, elem)
	return s, nil
}

// Resize changes the number of slots to n. Elements below min(Len(), n)
// are preserved and new slots are zeroed. Resize(0) releases the storage.
// On error the array is left unchanged.
func (a *Array) Resize(n int) error {
	a.panicIfFreed("resize")
	if n < 0 {
		panic(invalidSize("resize", "length %d, want >= 0", n))
	}
	return a.resize("resize", n)
}

// Swap exchanges the elements at i and j.
func (a *Array) Swap(i, j int) {
	a.panicIfFreed("swap")
	a.checkIndex("swap", i)
	a.checkIndex("swap", j)
	if i == j {
		return
	}
	if a.scratch == nil {
		a.scratch = make([]byte, a.elemSize)
	}
	si, sj := a.slot(i), a.slot(j)
	copy(a.scratch, si)
	copy(si, sj)
	copy(sj, a.scratch)
}

// Copy returns an independent Array with the same element size, length and
// contents, backed by the same allocator.
func (a *Array) Copy() (*Array, error) {
	a.panicIfFreed("copy")
	c, err := newArray(a.length, a.elemSize, a.cfg)
	if err != nil {
		return nil, err
	}
	a.copyInto(c)
	return c, nil
}

// copyInto copies every element of a into c, which must have the same
// shape.
func (a *Array) copyInto(c *Array) {
	if c.length != a.length || c.elemSize != a.elemSize {
		panic(invalidSize("copy", "destination holds %d x %d bytes, want %d x %d",
			c.length, c.elemSize, a.length, a.elemSize))
	}
	copy(c.buf, a.buf)
}

// Copy returns an independent copy of src. See Array.Copy.
func Copy(src *Array) (*Array, error) {
	return src.Copy()
}

// Free releases the storage and invalidates the array. Any later call,
// including a second Free, panics.
func (a *Array) Free() error {
	if a == nil || a.freed {
		a.panicIfFreed("free")
	}
	var err error
	if a.buf != nil && !a.reclaimed() {
		if ferr := a.cfg.alloc.Free(a.buf); ferr != nil {
			err = &Error{Op: "free", Kind: KindAllocator, Detail: "allocator rejected free", Cause: ferr}
		}
	}
	a.buf = nil
	a.scratch = nil
	a.length = 0
	a.freed = true
	a.gen++
	a.reallocs++
	return err
}

// Generation returns a counter that changes every time the storage is
// replaced or released.
func (a *Array) Generation() uint64 {
	return a.gen
}

func (a *Array) resize(op string, n int) error {
	switch {
	case n == a.length:
		return nil
	case n == 0:
		err := a.cfg.alloc.Free(a.buf)
		a.setStorage(nil, 0)
		if err != nil {
			return &Error{Op: op, Kind: KindAllocator, Detail: "allocator rejected free", Cause: err}
		}
		return nil
	}

	size, ok := byteSize(n, a.elemSize)
	if !ok {
		return a.allocFailed(op, n, nil)
	}

	if a.length == 0 {
		buf, err := a.cfg.alloc.Calloc(size)
		if err != nil {
			return a.allocFailed(op, n, err)
		}
		a.setStorage(buf, n)
		a.cfg.log.Debug("array allocated",
			zap.Int("length", n),
			zap.Int("elem_size", a.elemSize))
		return nil
	}

	old := len(a.buf)
	buf, err := a.cfg.alloc.Realloc(a.buf, size)
	if err != nil {
		return a.allocFailed(op, n, err)
	}
	if size > old {
		clear(buf[old:])
	}
	a.cfg.log.Debug("array reallocated",
		zap.String("op", op),
		zap.Int("from", a.length),
		zap.Int("to", n),
		zap.Int("elem_size", a.elemSize))
	a.setStorage(buf, n)
	return nil
}

func (a *Array) setStorage(buf []byte, length int) {
	a.buf = buf
	a.length = length
	a.gen++
	a.reallocs++
	if a.cfg.epochs != nil {
		a.epoch = a.cfg.epochs.Epoch()
	}
}

// ensureIndex grows the array when i >= Len(), following growTarget.
func (a *Array) ensureIndex(op string, i int) error {
	a.panicIfFreed(op)
	if i < 0 {
		panic(outOfBounds(op, i, a.length))
	}
	if i < a.length {
		return nil
	}
	if err := a.resize(op, growTarget(a.length, i)); err != nil {
		return err
	}
	a.grows++
	return nil
}

func (a *Array) allocFailed(op string, length int, cause error) error {
	size := length * a.elemSize
	if s, ok := byteSize(length, a.elemSize); ok {
		size = s
	}
	err := outOfMemory(op, size, cause)
	err.Length = length
	if a.cfg.abortOnAlloc {
		a.cfg.log.Fatal("couldn't allocate memory",
			zap.String("op", op),
			zap.Int("length", length),
			zap.Int("elem_size", a.elemSize),
			zap.Error(cause))
	}
	a.cfg.log.Error("couldn't allocate memory",
		zap.String("op", op),
		zap.Int("length", length),
		zap.Int("elem_size", a.elemSize),
		zap.Error(cause))
	return err
}

func (a *Array) slot(i int) []byte {
	off := i * a.elemSize
	end := off + a.elemSize
	return a.buf[off:end:end]
}

func (a *Array) checkIndex(op string, i int) {
	if i < 0 || i >= a.length {
		panic(outOfBounds(op, i, a.length))
	}
}

func (a *Array) checkElem(op string, elem []byte) {
	if elem == nil {
		panic(&Error{Op: op, Kind: KindNilElement, Detail: "nil element"})
	}
	if len(elem) != a.elemSize {
		panic(elemSizeMismatch(op, len(elem), a.elemSize))
	}
}

// panicIfFreed panics if the array has been freed or its storage was
// reclaimed by the allocator.
func (a *Array) panicIfFreed(op string) {
	if a == nil {
		panic(&Error{Op: op, Kind: KindReleased, Detail: "nil array"})
	}
	if a.freed {
		panic(released(op))
	}
	if a.reclaimed() {
		panic(&Error{Op: op, Kind: KindReleased, Detail: "storage reclaimed by allocator reset"})
	}
}

// reclaimed reports whether the allocator took the storage back in bulk
// after the array received it.
func (a *Array) reclaimed() bool {
	return a.buf != nil && a.cfg.epochs != nil && a.cfg.epochs.Epoch() != a.epoch
}

// growTarget is max(i+1, 2*length), saturating instead of overflowing.
func growTarget(length, i int) int {
	if length > math.MaxInt/2 {
		return max(i+1, length)
	}
	return max(i+1, 2*length)
}

func byteSize(length, elemSize int) (int, bool) {
	if length < 0 || length > math.MaxInt/elemSize {
		return 0, false
	}
	return length * elemSize, true
}
