package pipeline

// Unit is the element type carried by a pipeline: bytes or characters.
type Unit interface {
	~byte | ~rune
}

// SegmentKind tells whether a segment aliases memory owned by someone else.
type SegmentKind int

const (
	// Borrowed segments are zero-copy views on the source storage. Encoders may
	// mutate them in place, which also mutates the caller's memory.
	Borrowed SegmentKind = iota
	// Owned segments are private copies, safe to mutate or retain.
	Owned
)

func (k SegmentKind) String() string {
	if k == Owned {
		return "owned"
	}
	return "borrowed"
}

// Segment is a run of units read from a source, plus whether it is the last one.
type Segment[T Unit] struct {
	data  []T
	final bool
	kind  SegmentKind
}

// BorrowedSegment returns a segment viewing data without copying it.
func BorrowedSegment[T Unit](data []T, final bool) Segment[T] {
	return Segment[T]{data: data, final: final, kind: Borrowed}
}

// OwnedSegment returns a segment taking ownership of data. The caller must not
// use data afterwards.
func OwnedSegment[T Unit](data []T, final bool) Segment[T] {
	return Segment[T]{data: data, final: final, kind: Owned}
}

// Data returns the units of the segment.
func (s Segment[T]) Data() []T { return s.data }

// Len returns the number of units in the segment.
func (s Segment[T]) Len() int { return len(s.data) }

// Final reports whether no data follows this segment.
func (s Segment[T]) Final() bool { return s.final }

// Kind returns whether the segment is borrowed or owned.
func (s Segment[T]) Kind() SegmentKind { return s.kind }

// Owned returns an owned version of the segment, copying borrowed data.
func (s Segment[T]) Owned() Segment[T] {
	if s.kind == Owned {
		return s
	}
	var data []T
	if len(s.data) > 0 {
		data = make([]T, len(s.data))
		copy(data, s.data)
	}
	return OwnedSegment(data, s.final)
}

func (s Segment[T]) asFinal() Segment[T] {
	s.final = true
	return s
}
