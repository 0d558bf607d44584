package scale

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/wippyai/contract-transcode/value"
)

// Writer accumulates encoded output.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the written bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Reset discards the written bytes and keeps the buffer.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// Truncate discards everything after the first n bytes.
func (w *Writer) Truncate(n int) {
	w.buf = w.buf[:n]
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf = append(w.buf, b)
}

// Write appends p. It never fails.
func (w *Writer) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// WriteString appends the bytes of str.
func (w *Writer) WriteString(str string) {
	w.buf = append(w.buf, str...)
}

// Compact writes a compact integer.
func (w *Writer) Compact(v *uint256.Int) {
	w.buf = AppendCompact(w.buf, v)
}

// CompactUint64 writes a compact integer.
func (w *Writer) CompactUint64(v uint64) {
	w.buf = AppendCompactUint64(w.buf, v)
}

// Int writes i as a little-endian two's complement integer of size bytes.
func (w *Writer) Int(i *value.Int, size int) {
	n := len(w.buf)
	w.buf = slices.Grow(w.buf, size)[:n+size]
	i.PutLE(w.buf[n:])
}
