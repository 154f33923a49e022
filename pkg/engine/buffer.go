package engine

// Buffer is a named source buffer. Name is the buffer's declared identity,
// usually a file path, and is what real-path canonicalization rewrites.
type Buffer struct {
	Name string
	Text string
}

// Overlay maps buffer names to virtual file contents. A name present in
// the overlay is already canonical and bypasses filesystem resolution.
type Overlay map[string]string

// marker is the synthetic completion token inserted at the cursor. NUL
// cannot appear in source text, so the second pass can locate the cursor
// with a single byte scan.
const marker = "\x00"

// PatchBuffer produces the derived buffer with the completion marker
// inserted at offset. Offsets outside the buffer clamp to its ends; the
// transform always succeeds.
func PatchBuffer(buf Buffer, offset int) Buffer {
	if offset < 0 {
		offset = 0
	}
	if offset > len(buf.Text) {
		offset = len(buf.Text)
	}
	return Buffer{
		Name: buf.Name,
		Text: buf.Text[:offset] + marker + buf.Text[offset:],
	}
}
