package dynarray_test

import (
	"fmt"
	"testing"

	"github.com/pavanmanishd/dynarray"
)

// BenchmarkElementSizes appends 1000 elements of each width
func BenchmarkElementSizes(b *testing.B) {
	sizes := []int{1, 8, 64, 512}

	for _, size := range sizes {
		elem := make([]byte, size)

		b.Run(fmt.Sprintf("PutAuto_%dB", size), func(b *testing.B) {
			b.SetBytes(int64(size) * 1000)
			for i := 0; i < b.N; i++ {
				a := dynarray.MustNew(0, size)
				for j := 0; j < 1000; j++ {
					a.PutAuto(j, elem)
				}
				a.Free()
			}
		})

		b.Run(fmt.Sprintf("Preallocated_%dB", size), func(b *testing.B) {
			b.SetBytes(int64(size) * 1000)
			for i := 0; i < b.N; i++ {
				a := dynarray.MustNew(1000, size)
				for j := 0; j < 1000; j++ {
					a.Put(j, elem)
				}
				a.Free()
			}
		})

		b.Run(fmt.Sprintf("Builtin_%dB", size), func(b *testing.B) {
			b.SetBytes(int64(size) * 1000)
			for i := 0; i < b.N; i++ {
				var s []byte
				for j := 0; j < 1000; j++ {
					s = append(s, elem...)
				}
				_ = s
			}
		})
	}
}

// BenchmarkWorstCaseScenarios covers patterns the growth policy handles poorly
func BenchmarkWorstCaseScenarios(b *testing.B) {
	elem := make([]byte, 16)

	// Shrinking and regrowing reallocates and re-zeroes every time
	b.Run("ShrinkGrowOscillation", func(b *testing.B) {
		a := dynarray.MustNew(1024, 16)
		defer a.Free()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			a.Resize(1)
			a.Resize(1024)
		}
	})

	// Sparse writes: every jump past 2*Len() allocates exactly index+1
	b.Run("SparseJumps", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			a := dynarray.MustNew(0, 16)
			for idx := 1; idx < 1<<14; idx = idx*3 + 1 {
				a.PutAuto(idx, elem)
			}
			a.Free()
		}
	})

	// Interleaved growth defeats the arena's in-place tail growth
	b.Run("InterleavedArena", func(b *testing.B) {
		ar := dynarray.NewArenaAllocator(64 * 1024)
		defer ar.Release()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			x := dynarray.MustNew(0, 16, dynarray.WithAllocator(ar))
			y := dynarray.MustNew(0, 16, dynarray.WithAllocator(ar))
			for j := 0; j < 256; j++ {
				x.PutAuto(j, elem)
				y.PutAuto(j, elem)
			}
			ar.Reset()
		}
	})

	b.Run("TailArena", func(b *testing.B) {
		ar := dynarray.NewArenaAllocator(64 * 1024)
		defer ar.Release()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			x := dynarray.MustNew(0, 16, dynarray.WithAllocator(ar))
			for j := 0; j < 512; j++ {
				x.PutAuto(j, elem)
			}
			ar.Reset()
		}
	})
}
