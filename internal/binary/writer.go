package binary

import (
	"bytes"
)

// Writer provides buffered writing utilities for building containers in
// tests and demos. It mirrors Reader's byte-order handling.
type Writer struct {
	buf   *bytes.Buffer
	order Order
}

// NewWriter creates a new Writer.
func NewWriter(order Order) *Writer {
	return &Writer{buf: &bytes.Buffer{}, order: order}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteFourCC writes a four-character code, reversed under little-endian
// order. Codes shorter than 4 bytes are padded with spaces.
func (w *Writer) WriteFourCC(s string) {
	var cc [4]byte
	copy(cc[:], "    ")
	copy(cc[:], s)
	if w.order.reverseTags {
		cc[0], cc[1], cc[2], cc[3] = cc[3], cc[2], cc[1], cc[0]
	}
	w.buf.Write(cc[:])
}

// WriteU16 writes a fixed-width uint16.
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteU32 writes a fixed-width uint32.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteI16 writes a fixed-width int16.
func (w *Writer) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteI32 writes a fixed-width int32.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// Pad writes zero bytes until the buffer is n bytes long.
func (w *Writer) Pad(n int) {
	for w.buf.Len() < n {
		w.buf.WriteByte(0)
	}
}
