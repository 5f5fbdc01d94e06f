package dynarray

import "go.uber.org/zap"

// Option configures an Array at creation time.
type Option func(*config)

type config struct {
	alloc        Allocator
	epochs       epochSource
	log          *zap.Logger
	abortOnAlloc bool
}

// epochSource is implemented by allocators that can reclaim storage behind
// its owner's back, such as ArenaAllocator on Reset. Storage taken in an
// older epoch no longer belongs to the Array holding it.
type epochSource interface {
	Epoch() uint64
}

// epochsOf finds the epochSource behind a, looking through wrappers such
// as SafeAllocator.
func epochsOf(a Allocator) epochSource {
	for a != nil {
		if e, ok := a.(epochSource); ok {
			return e
		}
		w, ok := a.(interface{ Unwrap() Allocator })
		if !ok {
			return nil
		}
		a = w.Unwrap()
	}
	return nil
}

func newConfig(opts []Option) config {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.alloc == nil {
		c.alloc = DefaultAllocator
	}
	if c.log == nil {
		c.log = Logger()
	}
	c.epochs = epochsOf(c.alloc)
	return c
}

// WithAllocator sets the backend the Array takes its storage from.
// Defaults to DefaultAllocator.
func WithAllocator(a Allocator) Option {
	return func(c *config) {
		c.alloc = a
	}
}

// WithLogger sets the logger for this Array. Defaults to Logger().
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// WithAbortOnAllocFailure makes allocation failures terminate the process
// (logged at Fatal level) instead of returning ErrOutOfMemory.
func WithAbortOnAllocFailure() Option {
	return func(c *config) {
		c.abortOnAlloc = true
	}
}
