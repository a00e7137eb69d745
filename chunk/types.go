package chunk

import (
	"github.com/wippyai/rifx/internal/binary"
)

// Tag is a four-character chunk code in reading order.
type Tag string

// Tags the reader treats specially.
const (
	TagMeta       Tag = "RIFX" // container/meta chunk
	TagInitialMap Tag = "imap" // locates the memory map
	TagMemoryMap  Tag = "mmap" // table of chunk slots
	TagFree       Tag = "free" // reclaimed slot
	TagJunk       Tag = "junk" // reclaimed slot
)

// CodecMV93 is the only embedded codec the reader supports.
const CodecMV93 = "MV93"

// HeaderSize is the size of a generic chunk header: tag plus length.
const HeaderSize = 8

// metaPayloadSize is the effective payload length of the meta chunk. Offsets
// inside the container are file-absolute, so the meta chunk is treated as a
// short frame that holds only the codec tag.
const metaPayloadSize = 4

// Memory map layout.
const (
	MemoryMapHeaderSize = 24
	MemoryMapEntrySize  = 20
)

// IsReclaimed reports whether t marks a free or junk memory map slot.
func (t Tag) IsReclaimed() bool {
	return t == TagFree || t == TagJunk
}

// ByteOrder selects how a container's integers and tags are laid out.
type ByteOrder int

const (
	BigEndian    ByteOrder = iota // "RIFX" marker
	LittleEndian                  // "XFIR" marker
)

func (o ByteOrder) String() string {
	return o.order().String()
}

func (o ByteOrder) order() binary.Order {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Chunk is one decoded chunk frame.
type Chunk struct {
	Variant Variant
	Tag     Tag
	// Offset is the file offset of the chunk header.
	Offset int
	// Length is the payload length declared in the header.
	Length uint32
}

// Variant is the decoded payload of a chunk. It is one of *Meta,
// *InitialMap, *MemoryMap or *Unimplemented.
type Variant interface {
	variant()
}

// Meta is the payload of the outermost RIFX chunk.
type Meta struct {
	Codec string
}

// InitialMap is the payload of the imap chunk. Entries[0] is the
// file-absolute offset of the memory map; the rest are kept uninterpreted.
type InitialMap struct {
	Entries    []uint32
	EntryCount uint32
}

// MemoryMap is the payload of the mmap chunk. Fields named Unknown have no
// confirmed meaning and are preserved verbatim.
type MemoryMap struct {
	Entries        []MemoryMapEntry
	ChunkCountMax  uint32
	ChunkCountUsed uint32
	JunkPointer    int32
	Unknown2       int32
	FreePointer    int32
	Unknown0       uint16
	Unknown1       uint16
}

// MemoryMapEntry describes one physical chunk slot.
type MemoryMapEntry struct {
	Tag      Tag
	Length   uint32
	Offset   uint32
	Link     int32
	Padding  int16
	Unknown0 int16
}

// Unimplemented is the payload of any chunk whose tag has no decoder.
// Payload is a view into the container buffer.
type Unimplemented struct {
	Payload []byte
}

func (*Meta) variant()          {}
func (*InitialMap) variant()    {}
func (*MemoryMap) variant()     {}
func (*Unimplemented) variant() {}
