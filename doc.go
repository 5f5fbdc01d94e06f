// Package dynarray implements a resizable array of fixed-width, type-erased
// elements with explicit lifetime control.
//
// # Overview
//
// An Array stores Len() elements of ElemSize() bytes each in one contiguous
// buffer. Every slot is valid storage: there is no separate used count.
// Growing zero-fills the new slots, shrinking drops the trailing ones.
// The bytes are opaque to the package; callers own their interpretation.
//
// # Basic Usage
//
//	a, err := dynarray.New(3, 4) // 3 zeroed slots of 4 bytes
//	if err != nil {
//		return err
//	}
//	defer a.Free() // exactly once
//
//	a.Put(1, []byte{1, 2, 3, 4})
//	b := a.Get(1) // zero-copy view of slot 1
//
//	// Grow on demand: the new length is max(i+1, 2*Len())
//	a.PutAuto(10, []byte{9, 9, 9, 9})
//
//	a.Resize(2) // keeps slots 0 and 1
//	a.Swap(0, 1)
//
//	c, err := a.Copy() // independent storage, freed separately
//
// # Typed Arrays
//
// Typed wraps an Array for a pointer-free element type:
//
//	t, _ := dynarray.NewTyped[Point](0)
//	defer t.Free()
//	t.PutAuto(5, Point{X: 1, Y: 2})
//
// # Storage Backends
//
// Storage comes from an Allocator chosen with WithAllocator:
//
//   - HeapAllocator (default): ordinary Go slices
//   - ManualAllocator: memory outside the Go heap, released explicitly
//   - ArenaAllocator: chunked bump allocation with O(1) bulk Reset
//
// ManualAllocator and ArenaAllocator are not goroutine-safe; wrap them with
// Synchronized when Arrays in different goroutines share one.
//
// An arena Reset or Release reclaims the storage of every Array still
// holding some. Those Arrays panic with KindReleased from then on; their
// Free remains legal and does not touch the arena.
//
// # Errors
//
// Contract violations (out-of-range index, element of the wrong width,
// use after Free, negative sizes) panic with an *Error. Allocation
// failures are returned as an *Error of Kind KindOutOfMemory, or
// terminate the process when the Array was created with
// WithAbortOnAllocFailure.
//
// # Aliasing
//
// Slices returned by Get, Put and PutAuto alias the storage and are
// invalidated by Resize, a growing PutAuto and Free. Use Ref to obtain a
// reference that detects this at run time.
package dynarray
