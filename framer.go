package printlink

import (
	"bytes"
	"strings"
)

// LineFramer splits a byte stream into newline-terminated lines.
//
// Bytes that arrive without a terminator stay buffered until the next Feed.
// Lines are decoded as UTF-8 with invalid sequences replaced by U+FFFD. When
// the buffered partial line grows past the configured maximum it is emitted
// as is, so the buffer never grows without bound and no byte is dropped.
type LineFramer struct {
	buf []byte
	max int
}

// NewLineFramer returns a framer that holds at most max bytes of an
// unterminated line. A non-positive max selects DefaultMaxLineLength.
func NewLineFramer(max int) *LineFramer {
	if max <= 0 {
		max = DefaultMaxLineLength
	}
	return &LineFramer{max: max}
}

// Feed appends chunk and returns every line completed by it, in order.
// Returned lines keep their trailing newline; a forced line has none.
func (f *LineFramer) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}
	f.buf = append(f.buf, chunk...)

	var lines []string
	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, decodeLine(f.buf[:i+1]))
		f.buf = f.buf[i+1:]
	}

	for len(f.buf) > f.max {
		lines = append(lines, decodeLine(f.buf[:f.max]))
		f.buf = f.buf[f.max:]
	}

	// compact so the backing array does not keep consumed bytes alive
	if len(f.buf) == 0 {
		f.buf = f.buf[:0:0]
	} else if cap(f.buf) > 2*f.max {
		f.buf = append([]byte(nil), f.buf...)
	}
	return lines
}

// Pending returns the number of buffered bytes not yet part of a line.
func (f *LineFramer) Pending() int {
	return len(f.buf)
}

// Reset discards any buffered partial line.
func (f *LineFramer) Reset() {
	f.buf = nil
}

func decodeLine(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
