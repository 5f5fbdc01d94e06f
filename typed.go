package dynarray

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Typed is a generic view of an Array whose elements are values of T.
// It follows the same growth and lifetime rules as Array.
//
// T must not contain pointers (the storage is invisible to the garbage
// collector) and must have a non-zero size.
type Typed[T any] struct {
	a *Array
}

// NewTyped creates a Typed array of length zero values of T.
func NewTyped[T any](length int, opts ...Option) (*Typed[T], error) {
	size, err := elemSizeOf[T]()
	if err != nil {
		return nil, err
	}
	a, err := New(length, size, opts...)
	if err != nil {
		return nil, err
	}
	return &Typed[T]{a: a}, nil
}

// Array returns the underlying type-erased Array.
func (t *Typed[T]) Array() *Array {
	return t.a
}

// Len returns the number of elements.
func (t *Typed[T]) Len() int {
	return t.a.Len()
}

// Get returns a pointer to element i. The pointer is invalidated by any
// call that may reallocate the storage.
func (t *Typed[T]) Get(i int) *T {
	return ptrTo[T](t.a.Get(i))
}

// Put stores v at index i and returns a pointer to the stored element.
func (t *Typed[T]) Put(i int, v T) *T {
	p := t.Get(i)
	*p = v
	return p
}

// PutAuto stores v at index i, growing the array like Array.PutAuto.
func (t *Typed[T]) PutAuto(i int, v T) (*T, error) {
	if err := t.a.ensureIndex("put_auto", i); err != nil {
		return nil, err
	}
	return t.Put(i, v), nil
}

// Resize changes the number of elements to n. See Array.Resize.
func (t *Typed[T]) Resize(n int) error {
	return t.a.Resize(n)
}

// Swap exchanges elements i and j.
func (t *Typed[T]) Swap(i, j int) {
	t.a.Swap(i, j)
}

// Copy returns an independent copy.
func (t *Typed[T]) Copy() (*Typed[T], error) {
	c, err := t.a.Copy()
	if err != nil {
		return nil, err
	}
	return &Typed[T]{a: c}, nil
}

// Free releases the storage. See Array.Free.
func (t *Typed[T]) Free() error {
	return t.a.Free()
}

func ptrTo[T any](b []byte) *T {
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

func elemSizeOf[T any]() (int, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	typ := reflect.TypeOf(&zero).Elem()
	if size == 0 {
		return 0, &Error{Op: "new_typed", Kind: KindUnsupportedType, Detail: fmt.Sprintf("%s has zero size", typ)}
	}
	if hasPointers(typ) {
		return 0, &Error{Op: "new_typed", Kind: KindUnsupportedType, Detail: fmt.Sprintf("%s contains pointers", typ)}
	}
	return size, nil
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	default:
		return true
	}
}
