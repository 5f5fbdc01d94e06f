package dynarray

import "sync"

// SafeAllocator is a mutex-protected wrapper around an Allocator so that
// Arrays owned by different goroutines can share one backend. The Arrays
// themselves stay unsynchronized.
type SafeAllocator struct {
	mu sync.Mutex
	a  Allocator
}

// Synchronized wraps a in a SafeAllocator.
func Synchronized(a Allocator) *SafeAllocator {
	return &SafeAllocator{a: a}
}

// Calloc thread-safely allocates size zeroed bytes.
func (s *SafeAllocator) Calloc(size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Calloc(size)
}

// Realloc thread-safely resizes b.
func (s *SafeAllocator) Realloc(b []byte, size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Realloc(b, size)
}

// Free thread-safely releases b.
func (s *SafeAllocator) Free(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Free(b)
}

// Metrics thread-safely returns the wrapped allocator's counters, or the
// zero value when it keeps none.
func (s *SafeAllocator) Metrics() AllocatorMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.a.(MetricsSource); ok {
		return m.Metrics()
	}
	return AllocatorMetrics{}
}

// Unwrap returns the wrapped allocator.
func (s *SafeAllocator) Unwrap() Allocator {
	return s.a
}

// Do runs fn with the lock held, for operations outside the Allocator
// interface such as ArenaAllocator.Reset or ManualAllocator.Close.
func (s *SafeAllocator) Do(fn func(Allocator)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.a)
}
