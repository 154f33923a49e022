/*
Package arena implements the append-only string arena that backs every
marshalled completion result.

Result records never hold their field text directly; each field is appended
to an arena and addressed by an (offset, length) span. The arena's backing
storage may be reallocated while fields are still being appended, so spans
stay plain indices until Finish freezes the storage into an immutable
string. Only then are spans resolved into substrings of the owned storage.
*/
package arena

// Span addresses a substring of a finished arena. An empty field is a
// zero-length span, never a sentinel offset, so consumers need only one
// code path.
type Span struct {
	Offset int
	Length int
}

// In resolves the span against finished arena storage.
func (s Span) In(storage string) string {
	return storage[s.Offset : s.Offset+s.Length]
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.Length == 0
}

// Arena is a growable byte buffer that interns appended strings and hands
// back spans. Spans are only ever appended, never overwritten. A zero
// Arena is ready to use.
type Arena struct {
	buf      []byte
	finished bool
}

// Append writes text to the end of the arena and returns the span covering
// exactly the newly written bytes. Append never fails; if the buffer cannot
// grow the runtime aborts, which matches the engine's convention of
// treating out-of-memory as non-recoverable.
func (a *Arena) Append(text string) Span {
	if a.finished {
		panic("arena: Append after Finish")
	}
	span := Span{Offset: len(a.buf), Length: len(text)}
	a.buf = append(a.buf, text...)
	return span
}

// Len returns the number of bytes appended so far.
func (a *Arena) Len() int {
	return len(a.buf)
}

// Finish transfers the arena contents into immutable owned storage.
// Previously returned spans remain valid against the returned string.
// Finish must not be called twice on the same arena.
func (a *Arena) Finish() string {
	if a.finished {
		panic("arena: Finish called twice")
	}
	a.finished = true
	storage := string(a.buf)
	a.buf = nil
	return storage
}
