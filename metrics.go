package dynarray

// Stats is a snapshot of an Array's shape and history.
type Stats struct {
	Len         int    // Number of slots
	ElemSize    int    // Bytes per slot
	SizeInBytes int    // Len * ElemSize
	Grows       uint64 // Growths triggered by PutAuto
	Reallocs    uint64 // Storage replacements (allocate, reallocate, release)
	Generation  uint64 // Current storage generation
}

// Stats returns a snapshot of the array statistics.
func (a *Array) Stats() Stats {
	a.panicIfFreed("stats")
	return Stats{
		Len:         a.length,
		ElemSize:    a.elemSize,
		SizeInBytes: len(a.buf),
		Grows:       a.grows,
		Reallocs:    a.reallocs,
		Generation:  a.gen,
	}
}

// AllocatorMetrics contains usage counters of an Allocator.
type AllocatorMetrics struct {
	BytesInUse int64  // Bytes handed out and not yet freed
	Allocs     uint64 // Calloc calls served
	Frees      uint64 // Free calls served
	Reallocs   uint64 // Realloc calls served
}

// SizeInUse returns the total number of bytes currently allocated in the arena.
// This includes internal fragmentation due to alignment.
func (a *ArenaAllocator) SizeInUse() int {
	if a.chunks == nil {
		return 0
	}
	sum := 0
	for _, c := range a.chunks {
		sum += int(c.offset)
	}
	return sum
}

// NumChunks returns the number of chunks currently allocated by the arena.
func (a *ArenaAllocator) NumChunks() int {
	return len(a.chunks)
}

// Capacity returns the total capacity (in bytes) of all chunks in the arena.
func (a *ArenaAllocator) Capacity() int {
	sum := 0
	for _, c := range a.chunks {
		sum += len(c.buf)
	}
	return sum
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *ArenaAllocator) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// ChunkSize returns the default chunk size used by this arena.
func (a *ArenaAllocator) ChunkSize() int {
	return a.chunkSize
}

// Usage returns a snapshot of arena chunk statistics.
func (a *ArenaAllocator) Usage() ArenaUsage {
	return ArenaUsage{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumChunks:   a.NumChunks(),
		ChunkSize:   a.ChunkSize(),
		Utilization: a.Utilization(),
	}
}

// Metrics returns the arena counters in the common allocator form.
func (a *ArenaAllocator) Metrics() AllocatorMetrics {
	return AllocatorMetrics{
		BytesInUse: int64(a.SizeInUse()),
		Allocs:     a.allocs,
		Frees:      a.frees,
		Reallocs:   a.reallocs,
	}
}

// ArenaUsage contains chunk-level information about an arena.
type ArenaUsage struct {
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	NumChunks   int     // Number of chunks
	ChunkSize   int     // Default chunk size
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}
