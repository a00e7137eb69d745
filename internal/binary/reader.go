// Package binary provides the bounds-checked primitive reader and the
// fixture writer for RIFX/XFIR containers.
package binary

import (
	"unicode/utf8"

	"github.com/wippyai/rifx/errors"
)

// Reader is a cursor over a borrowed byte slice. All reads are bounds-checked
// and return views into the slice rather than copies.
type Reader struct {
	data  []byte
	order Order
	pos   int
	base  int
}

// NewReader creates a Reader over data using the given byte order.
func NewReader(data []byte, order Order) *Reader {
	return &Reader{data: data, order: order}
}

// Order returns the active byte order.
func (r *Reader) Order() Order {
	return r.order
}

// Position returns the current byte position, relative to the start of this
// reader's slice.
func (r *Reader) Position() int {
	return r.pos
}

// Base returns the absolute file offset of this reader's first byte.
func (r *Reader) Base() int {
	return r.base
}

// Len returns the total length of the underlying slice.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Seek moves the cursor to pos. Seeking to the end is allowed; seeking past it
// is not.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return errors.OutOfBounds(errors.PhaseDecode, r.base+pos, r.base+len(r.data))
	}
	r.pos = pos
	return nil
}

// ReadBytes returns the next n bytes as a view into the underlying slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, errors.Truncated(r.base+r.pos, n, r.base+len(r.data))
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// Sub carves the next n bytes into a new zero-based Reader with the same byte
// order and advances past them.
func (r *Reader) Sub(n int) (*Reader, error) {
	start := r.base + r.pos
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return &Reader{data: b, order: r.order, base: start}, nil
}

// ReadString reads exactly n bytes and decodes them as UTF-8 text.
func (r *Reader) ReadString(n int) (string, error) {
	start := r.base + r.pos
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(start, b)
	}
	return string(b), nil
}

// ReadFourCC reads a four-character code. Under little-endian order the bytes
// are reversed before decoding.
func (r *Reader) ReadFourCC() (string, error) {
	start := r.base + r.pos
	raw, err := r.ReadBytes(4)
	if err != nil {
		return "", err
	}
	cc := r.order.fourCC(raw)
	if !utf8.Valid(cc[:]) {
		return "", errors.InvalidUTF8(start, raw)
	}
	return string(cc[:]), nil
}

// ReadU16 reads a fixed-width uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

// ReadU32 reads a fixed-width uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// ReadI16 reads a fixed-width int16.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadI32 reads a fixed-width int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}
