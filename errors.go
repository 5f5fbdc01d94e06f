package dynarray

import (
	"fmt"
	"strings"
)

// Kind categorizes an Error.
type Kind string

const (
	KindInvalidSize     Kind = "invalid_size"     // negative length or non-positive element size
	KindOutOfBounds     Kind = "out_of_bounds"    // index outside [0, Len())
	KindNilElement      Kind = "nil_element"      // nil source element
	KindElemSize        Kind = "elem_size"        // source element of the wrong width
	KindReleased        Kind = "released"         // use after Free
	KindStaleRef        Kind = "stale_ref"        // Ref used after its storage moved
	KindOutOfMemory     Kind = "out_of_memory"    // allocator could not serve the request
	KindUnsupportedType Kind = "unsupported_type" // Typed[T] with a T that cannot live in opaque storage
	KindAllocator       Kind = "allocator"        // allocator backend failed to release storage
)

// Error is the structured error type used by this package. Programmer
// errors are raised as panics carrying an *Error; allocation failures are
// returned.
type Error struct {
	Cause  error
	Op     string
	Kind   Kind
	Detail string
	Index  int
	Length int
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("dynarray: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrInvalidSize     = &Error{Kind: KindInvalidSize}
	ErrOutOfBounds     = &Error{Kind: KindOutOfBounds}
	ErrNilElement      = &Error{Kind: KindNilElement}
	ErrElemSize        = &Error{Kind: KindElemSize}
	ErrReleased        = &Error{Kind: KindReleased}
	ErrStaleRef        = &Error{Kind: KindStaleRef}
	ErrOutOfMemory     = &Error{Kind: KindOutOfMemory}
	ErrUnsupportedType = &Error{Kind: KindUnsupportedType}
	ErrAllocator       = &Error{Kind: KindAllocator}
)

func outOfBounds(op string, index, length int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindOutOfBounds,
		Index:  index,
		Length: length,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
	}
}

func invalidSize(op, detail string, args ...any) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidSize,
		Detail: fmt.Sprintf(detail, args...),
	}
}

func elemSizeMismatch(op string, got, want int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindElemSize,
		Detail: fmt.Sprintf("element is %d bytes, want %d", got, want),
	}
}

func outOfMemory(op string, size int, cause error) *Error {
	return &Error{
		Op:     op,
		Kind:   KindOutOfMemory,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
	}
}

func released(op string) *Error {
	return &Error{Op: op, Kind: KindReleased, Detail: "use after Free()"}
}
