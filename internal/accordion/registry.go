package accordion

import (
	"fmt"

	apperrors "github.com/shhac/roboaccordion/internal/errors"
)

// Provider supplies the header and content of every segment.
// T is the host's renderable unit; the core never looks inside it.
type Provider[T any] interface {
	SegmentCount() int
	Header(index int) T
	Content(index int) T
}

// Segment is one header/content pair addressed by a stable index.
// The filler segment has Index == Filler and a zero Header.
type Segment[T any] struct {
	Index   int
	Header  T
	Content T
}

// IsFiller reports whether s is the filler pseudo-segment.
func (s Segment[T]) IsFiller() bool {
	return s.Index == Filler
}

// Registry holds the segments of the last build plus the filler.
type Registry[T any] struct {
	segments []Segment[T]
	filler   Segment[T]
}

// NewRegistry creates an empty registry whose filler content is filler.
func NewRegistry[T any](filler T) *Registry[T] {
	return &Registry[T]{
		filler: Segment[T]{Index: Filler, Content: filler},
	}
}

// Build discards the previous segments and asks p for every header and
// content once, in index order.
func (r *Registry[T]) Build(p Provider[T]) error {
	if p == nil {
		return apperrors.ErrNotConfigured
	}

	count := p.SegmentCount()
	if count < 0 {
		return fmt.Errorf("%w: %d", apperrors.ErrInvalidSegmentCount, count)
	}

	segments := make([]Segment[T], 0, count)
	for i := 0; i < count; i++ {
		header := p.Header(i)
		content := p.Content(i)
		segments = append(segments, Segment[T]{Index: i, Header: header, Content: content})
	}
	r.segments = segments
	return nil
}

// Count returns the number of real segments.
func (r *Registry[T]) Count() int {
	return len(r.segments)
}

// Segments returns the real segments in index order followed by the filler.
func (r *Registry[T]) Segments() []Segment[T] {
	out := make([]Segment[T], 0, len(r.segments)+1)
	out = append(out, r.segments...)
	return append(out, r.filler)
}

// Segment looks up a segment by index; Filler yields the filler.
func (r *Registry[T]) Segment(index int) (Segment[T], bool) {
	if index == Filler {
		return r.filler, true
	}
	if index < 0 || index >= len(r.segments) {
		return Segment[T]{}, false
	}
	return r.segments[index], true
}

// Filler returns the filler segment.
func (r *Registry[T]) Filler() Segment[T] {
	return r.filler
}

// Resolve returns index when it names a real segment and Filler otherwise.
func (r *Registry[T]) Resolve(index int) int {
	return resolve(index, len(r.segments))
}

func resolve(index, count int) int {
	if index < 0 || index >= count {
		return Filler
	}
	return index
}
