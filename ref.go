package dynarray

// Ref names a slot of an Array together with the storage generation it was
// taken in. Unlike the slice returned by Get, a Ref notices when the
// storage has since been reallocated or released.
type Ref struct {
	a     *Array
	index int
	gen   uint64
}

// Ref returns a checked reference to slot i. It panics if i is out of range.
func (a *Array) Ref(i int) Ref {
	a.panicIfFreed("ref")
	a.checkIndex("ref", i)
	return Ref{a: a, index: i, gen: a.gen}
}

// Index returns the slot index the Ref points at.
func (r Ref) Index() int {
	return r.index
}

// Valid reports whether the storage is still the one the Ref was taken in.
func (r Ref) Valid() bool {
	return r.a != nil && !r.a.freed && !r.a.reclaimed() && r.a.gen == r.gen
}

// Bytes returns the referenced slot. It panics with KindStaleRef if the
// storage was reallocated or released after the Ref was taken.
func (r Ref) Bytes() []byte {
	if !r.Valid() {
		panic(&Error{
			Op:     "ref",
			Kind:   KindStaleRef,
			Index:  r.index,
			Detail: "storage reallocated or released since the reference was taken",
		})
	}
	return r.a.slot(r.index)
}
