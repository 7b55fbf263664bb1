package mem

// SampleBuffer is the delay-line memory primitive used by the
// butterflies: a self-referencing buffer that is read from and written
// to every cycle. It is expressed with two vectors -- "current" and
// "next" -- that are swapped atomically each cycle, rather than a
// cyclic pointer structure, so there is never a window where the
// buffer is half-updated.
type SampleBuffer[T any] struct {
	current []T
	next    []T
}

// NewSampleBuffer builds a buffer of the given length, initialised to
// the zero value of T.
func NewSampleBuffer[T any](length int) *SampleBuffer[T] {
	return &SampleBuffer[T]{
		current: make([]T, length),
		next:    make([]T, length),
	}
}

func (b *SampleBuffer[T]) Len() int { return len(b.current) }

// Tail returns the oldest stored value (read side of the delay line).
func (b *SampleBuffer[T]) Tail() T { return b.current[len(b.current)-1] }

// At returns the value at the given position, 0 being the most
// recently shifted-in value.
func (b *SampleBuffer[T]) At(i int) T { return b.current[i] }

// Shift pushes in at the head, discards the tail, and returns the
// discarded tail value -- the standard "delay line advances by one"
// operation used when a butterfly is filling.
func (b *SampleBuffer[T]) Shift(in T) (tail T) {
	tail = b.current[len(b.current)-1]
	copy(b.next[1:], b.current[:len(b.current)-1])
	b.next[0] = in
	b.current, b.next = b.next, b.current
	return tail
}

// WriteTail overwrites the tail slot in place (used when computing:
// the buffer keeps its length but the tail position's content is
// replaced by a new value instead of shifting).
func (b *SampleBuffer[T]) WriteTail(v T) {
	b.current[len(b.current)-1] = v
}
