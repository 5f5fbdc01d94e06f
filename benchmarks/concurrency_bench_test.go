package dynarray_test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/pavanmanishd/dynarray"
)

// appendBatch grows a fresh array to n elements and frees it.
func appendBatch(alloc dynarray.Allocator, n int, elem []byte) {
	a := dynarray.MustNew(0, len(elem), dynarray.WithAllocator(alloc))
	for i := 0; i < n; i++ {
		a.PutAuto(i, elem)
	}
	a.Free()
}

// BenchmarkConcurrencyPatterns compares a shared synchronized backend with
// one backend per goroutine.
func BenchmarkConcurrencyPatterns(b *testing.B) {
	elem := make([]byte, 32)

	b.Run("SharedManual_Parallel", func(b *testing.B) {
		m := dynarray.NewManualAllocator()
		defer m.Close()
		s := dynarray.Synchronized(m)

		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				appendBatch(s, 64, elem)
			}
		})
	})

	b.Run("Manual_PerGoroutine", func(b *testing.B) {
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			m := dynarray.NewManualAllocator()
			defer m.Close()

			for pb.Next() {
				appendBatch(m, 64, elem)
			}
		})
	})

	// Heap backend is lock-free apart from its counters
	b.Run("Heap_Parallel", func(b *testing.B) {
		h := dynarray.NewHeapAllocator()
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				appendBatch(h, 64, elem)
			}
		})
	})
}

// BenchmarkScalability tests how a shared backend scales with goroutines
func BenchmarkScalability(b *testing.B) {
	goroutineCounts := []int{1, 2, 4, 8, 16}
	elem := make([]byte, 16)

	for _, numGoroutines := range goroutineCounts {
		b.Run(fmt.Sprintf("SharedManual_%dGoroutines", numGoroutines), func(b *testing.B) {
			m := dynarray.NewManualAllocator()
			defer m.Close()
			s := dynarray.Synchronized(m)

			// Limit parallelism to test specific goroutine counts
			oldProcs := runtime.GOMAXPROCS(numGoroutines)
			defer runtime.GOMAXPROCS(oldProcs)

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					appendBatch(s, 32, elem)
				}
			})
		})

		b.Run(fmt.Sprintf("Heap_%dGoroutines", numGoroutines), func(b *testing.B) {
			oldProcs := runtime.GOMAXPROCS(numGoroutines)
			defer runtime.GOMAXPROCS(oldProcs)

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					appendBatch(dynarray.DefaultAllocator, 32, elem)
				}
			})
		})
	}
}
