package dynarray

import (
	"bytes"
	"testing"
)

// backends returns a fresh instance of every allocator, with a cleanup.
func backends(t *testing.T) map[string]Allocator {
	t.Helper()
	m := NewManualAllocator()
	t.Cleanup(func() { m.Close() })
	arena := NewArenaAllocator(256)
	t.Cleanup(arena.Release)
	return map[string]Allocator{
		"heap":   NewHeapAllocator(),
		"manual": m,
		"arena":  arena,
		"safe":   Synchronized(NewHeapAllocator()),
	}
}

func TestAllocatorCalloc(t *testing.T) {
	for name, alloc := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b, err := alloc.Calloc(100)
			if err != nil {
				t.Fatalf("Calloc(100): %v", err)
			}
			if len(b) != 100 {
				t.Errorf("len = %d, want 100", len(b))
			}
			for i, v := range b {
				if v != 0 {
					t.Fatalf("byte %d = %d, want 0", i, v)
				}
			}
			if err := alloc.Free(b); err != nil {
				t.Errorf("Free: %v", err)
			}
		})
	}
}

func TestAllocatorRealloc(t *testing.T) {
	for name, alloc := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b, err := alloc.Calloc(16)
			if err != nil {
				t.Fatal(err)
			}
			for i := range b {
				b[i] = byte(i + 1)
			}
			want := append([]byte(nil), b...)

			b, err = alloc.Realloc(b, 1000)
			if err != nil {
				t.Fatalf("Realloc grow: %v", err)
			}
			if len(b) != 1000 {
				t.Errorf("len after grow = %d, want 1000", len(b))
			}
			if !bytes.Equal(b[:16], want) {
				t.Errorf("prefix after grow = %v, want %v", b[:16], want)
			}

			b, err = alloc.Realloc(b, 8)
			if err != nil {
				t.Fatalf("Realloc shrink: %v", err)
			}
			if !bytes.Equal(b, want[:8]) {
				t.Errorf("prefix after shrink = %v, want %v", b, want[:8])
			}
			if err := alloc.Free(b); err != nil {
				t.Errorf("Free: %v", err)
			}
		})
	}
}

func TestArrayOnEveryBackend(t *testing.T) {
	for name, alloc := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a, err := New(3, 4, WithAllocator(alloc))
			if err != nil {
				t.Fatal(err)
			}
			a.Put(1, []byte{1, 2, 3, 4})
			if err := a.Resize(5); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(a.Get(1), []byte{1, 2, 3, 4}) || !bytes.Equal(a.Get(4), []byte{0, 0, 0, 0}) {
				t.Errorf("after grow: %v, %v", a.Get(1), a.Get(4))
			}
			if err := a.Resize(2); err != nil {
				t.Fatal(err)
			}
			if err := a.Resize(6); err != nil {
				t.Fatal(err)
			}
			for i := 2; i < 6; i++ {
				if !bytes.Equal(a.Get(i), []byte{0, 0, 0, 0}) {
					t.Errorf("Get(%d) = %v, want zeros", i, a.Get(i))
				}
			}

			c, err := a.Copy()
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(c.Get(1), a.Get(1)) {
				t.Error("copy differs from source")
			}
			if err := c.Free(); err != nil {
				t.Error(err)
			}
			if err := a.Free(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestHeapAllocatorMetrics(t *testing.T) {
	h := NewHeapAllocator()
	a := MustNew(4, 4, WithAllocator(h))
	b := MustNew(2, 8, WithAllocator(h))

	m := h.Metrics()
	if m.Allocs != 2 || m.BytesInUse != 32 {
		t.Errorf("after two News: %+v", m)
	}

	a.Resize(8)
	b.Resize(0)
	m = h.Metrics()
	if m.Reallocs != 1 || m.Frees != 1 || m.BytesInUse != 32 {
		t.Errorf("after resizes: %+v", m)
	}

	a.Free()
	b.Free()
	m = h.Metrics()
	if m.BytesInUse != 0 {
		t.Errorf("BytesInUse after Free = %d, want 0", m.BytesInUse)
	}
	if m.Allocs != m.Frees {
		t.Errorf("Allocs = %d, Frees = %d, want equal", m.Allocs, m.Frees)
	}
}

func TestManualAllocatorMetrics(t *testing.T) {
	m := NewManualAllocator()
	defer m.Close()

	arrays := make([]*Array, 10)
	for i := range arrays {
		arrays[i] = MustNew(i+1, 16, WithAllocator(m))
	}
	if got := m.Metrics().Allocs; got != 10 {
		t.Errorf("Allocs = %d, want 10", got)
	}
	for _, a := range arrays {
		if err := a.Free(); err != nil {
			t.Fatal(err)
		}
	}
	got := m.Metrics()
	if got.BytesInUse != 0 || got.Frees != 10 {
		t.Errorf("after freeing all: %+v", got)
	}
}

func TestManualAllocatorClosed(t *testing.T) {
	m := NewManualAllocator()
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if _, err := m.Calloc(8); err == nil {
		t.Error("Calloc after Close succeeded")
	}

	_, err := New(4, 4, WithAllocator(m))
	if err == nil {
		t.Fatal("New on closed allocator succeeded")
	}
}

func TestHeapAllocatorRejectsNegative(t *testing.T) {
	h := NewHeapAllocator()
	if _, err := h.Calloc(-1); err == nil {
		t.Error("Calloc(-1) succeeded")
	}
	if h.Metrics().Allocs != 0 {
		t.Error("failed Calloc was counted")
	}
}
