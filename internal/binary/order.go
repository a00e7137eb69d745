package binary

import "encoding/binary"

// Order is the byte-order strategy selected once per container. It supplies
// fixed-width integer decoding and the tag byte arrangement.
type Order struct {
	binary.ByteOrder
	name        string
	reverseTags bool
}

// Byte orders supported by the container format.
var (
	BigEndian    = Order{ByteOrder: binary.BigEndian, name: "big-endian"}
	LittleEndian = Order{ByteOrder: binary.LittleEndian, name: "little-endian", reverseTags: true}
)

func (o Order) String() string {
	return o.name
}

// ReversesTags reports whether four-character codes are stored byte-reversed.
func (o Order) ReversesTags() bool {
	return o.reverseTags
}

// fourCC arranges 4 raw bytes into reading order.
func (o Order) fourCC(raw []byte) [4]byte {
	if o.reverseTags {
		return [4]byte{raw[3], raw[2], raw[1], raw[0]}
	}
	return [4]byte{raw[0], raw[1], raw[2], raw[3]}
}
