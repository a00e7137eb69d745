package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/rifx/errors"
)

func TestReaderFourCC(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		raw   []byte
		want  string
	}{
		{"big-endian verbatim", BigEndian, []byte("imap"), "imap"},
		{"little-endian reversed", LittleEndian, []byte{0x70, 0x61, 0x6D, 0x69}, "imap"},
		{"little-endian container marker", LittleEndian, []byte("XFIR"), "RIFX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.raw, tt.order)
			got, err := r.ReadFourCC()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 4, r.Position())
		})
	}
}

func TestReaderFourCCInvalidUTF8(t *testing.T) {
	r := NewReader([]byte{0xff, 0xfe, 'a', 'b'}, BigEndian)
	_, err := r.ReadFourCC()
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidUTF8, errors.KindOf(err))
}

func TestReaderIntegers(t *testing.T) {
	data := []byte{0x01, 0x02, 0xff, 0xfe, 0x00, 0x00, 0x01, 0x00, 0xff, 0xff, 0xff, 0xfe}

	be := NewReader(data, BigEndian)
	u16, err := be.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), u16)
	i16, err := be.ReadI16()
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)
	u32, err := be.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x100), u32)
	i32, err := be.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)
	assert.Equal(t, 0, be.Remaining())

	le := NewReader(data, LittleEndian)
	u16, err = le.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), u16)
	i16, err = le.ReadI16()
	require.NoError(t, err)
	assert.Equal(t, int16(-257), i16)
	u32, err = le.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00010000), u32)
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03}, BigEndian)

	_, err := r.ReadU32()
	require.Error(t, err)
	assert.Equal(t, errors.KindTruncated, errors.KindOf(err))
	assert.Equal(t, 0, r.Position(), "failed read must not advance")

	_, err = r.ReadString(4)
	assert.Equal(t, errors.KindTruncated, errors.KindOf(err))

	_, err = r.ReadBytes(-1)
	assert.Equal(t, errors.KindTruncated, errors.KindOf(err))
}

func TestReaderString(t *testing.T) {
	r := NewReader([]byte("héllo\xff"), BigEndian)
	s, err := r.ReadString(6)
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	_, err = r.ReadString(1)
	assert.Equal(t, errors.KindInvalidUTF8, errors.KindOf(err))
}

func TestReaderSeek(t *testing.T) {
	r := NewReader(make([]byte, 8), BigEndian)
	require.NoError(t, r.Seek(8))
	assert.Equal(t, 0, r.Remaining())

	err := r.Seek(9)
	assert.Equal(t, errors.KindOutOfBounds, errors.KindOf(err))
	err = r.Seek(-1)
	assert.Equal(t, errors.KindOutOfBounds, errors.KindOf(err))
}

func TestReaderSub(t *testing.T) {
	r := NewReader([]byte{0xAA, 0xBB, 0x00, 0x01, 0x00, 0x02, 0xCC}, BigEndian)
	require.NoError(t, r.Seek(2))

	sub, err := r.Sub(4)
	require.NoError(t, err)
	assert.Equal(t, 6, r.Position())
	assert.Equal(t, 0, sub.Position())
	assert.Equal(t, 2, sub.Base())
	assert.Equal(t, 4, sub.Len())

	v, err := sub.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00010002), v)

	_, err = sub.ReadU16()
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 6, e.Offset, "offset is reported relative to the file")

	_, err = r.Sub(2)
	assert.Equal(t, errors.KindTruncated, errors.KindOf(err))
}

func TestReaderBorrowsSlice(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	r := NewReader(data, BigEndian)
	b, err := r.ReadBytes(2)
	require.NoError(t, err)
	data[0] = 9
	assert.Equal(t, byte(9), b[0])
	assert.Equal(t, 2, cap(b))
}

func TestWriterRoundTrip(t *testing.T) {
	for _, order := range []Order{BigEndian, LittleEndian} {
		t.Run(order.String(), func(t *testing.T) {
			w := NewWriter(order)
			w.WriteFourCC("mmap")
			w.WriteU16(0x18)
			w.WriteI16(-1)
			w.WriteU32(0xdeadbeef)
			w.WriteI32(-7)
			w.Pad(20)
			assert.Equal(t, 20, w.Len())

			r := NewReader(w.Bytes(), order)
			tag, err := r.ReadFourCC()
			require.NoError(t, err)
			assert.Equal(t, "mmap", tag)
			u16, _ := r.ReadU16()
			assert.Equal(t, uint16(0x18), u16)
			i16, _ := r.ReadI16()
			assert.Equal(t, int16(-1), i16)
			u32, _ := r.ReadU32()
			assert.Equal(t, uint32(0xdeadbeef), u32)
			i32, _ := r.ReadI32()
			assert.Equal(t, int32(-7), i32)
			assert.Equal(t, 4, r.Remaining())
		})
	}
}

func TestWriterFourCCLayout(t *testing.T) {
	w := NewWriter(LittleEndian)
	w.WriteFourCC("RIFX")
	assert.Equal(t, []byte("XFIR"), w.Bytes())

	w = NewWriter(BigEndian)
	w.WriteFourCC("ab")
	assert.Equal(t, []byte("ab  "), w.Bytes())
}
