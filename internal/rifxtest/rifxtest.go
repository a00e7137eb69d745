// Package rifxtest builds synthetic RIFX/XFIR containers for tests and
// demos.
package rifxtest

import (
	"github.com/wippyai/rifx/chunk"
	"github.com/wippyai/rifx/internal/binary"
)

// Slot is one memory map slot of a synthetic container.
type Slot struct {
	// EntryLength, when set, is recorded in the memory map entry instead of
	// the real payload length.
	EntryLength *uint32
	Tag         string
	Payload     []byte
	// Reclaimed slots get a memory map entry but no chunk body.
	Reclaimed bool
}

// Builder assembles a container. The zero value (plus an order) builds a
// valid MV93 container with an empty memory map.
type Builder struct {
	Slots []Slot
	// ExtraIMapEntries are appended after the memory map offset.
	ExtraIMapEntries []uint32
	Codec            string
	// MetaLength overrides the length declared by the RIFX header.
	MetaLength uint32
	// ChunkCountMax overrides the memory map capacity, which defaults to the
	// number of used slots.
	ChunkCountMax uint32
	Order         chunk.ByteOrder
	// SelfSlots adds memory map entries for the RIFX, imap and mmap chunks
	// at slots 0, 1 and 2, as real files do.
	SelfSlots bool
}

// Layout records where Build placed things.
type Layout struct {
	// ChunkOffsets holds the header offset of each slot's chunk, or -1 for
	// reclaimed slots. Indexed by memory map slot.
	ChunkOffsets []int
	IMapOffset   int
	MMapOffset   int
	// EntriesOffset is the file offset of the first memory map entry.
	EntriesOffset int
}

// New returns a Builder for the given byte order.
func New(order chunk.ByteOrder) *Builder {
	return &Builder{Order: order, Codec: chunk.CodecMV93}
}

// Add appends a live chunk slot and returns its slot index.
func (b *Builder) Add(tag string, payload []byte) int {
	b.Slots = append(b.Slots, Slot{Tag: tag, Payload: payload})
	return b.index(len(b.Slots) - 1)
}

// AddReclaimed appends a free or junk slot and returns its slot index.
func (b *Builder) AddReclaimed(tag string) int {
	b.Slots = append(b.Slots, Slot{Tag: tag, Reclaimed: true})
	return b.index(len(b.Slots) - 1)
}

func (b *Builder) index(i int) int {
	if b.SelfSlots {
		return i + 3
	}
	return i
}

func (b *Builder) order() binary.Order {
	if b.Order == chunk.LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

type entry struct {
	tag    string
	length uint32
	offset uint32
	link   int32
}

// Build encodes the container.
func (b *Builder) Build() ([]byte, Layout) {
	var lay Layout

	used := len(b.Slots)
	if b.SelfSlots {
		used += 3
	}

	imapLen := 4 + 4*(1+len(b.ExtraIMapEntries))
	mmapLen := chunk.MemoryMapHeaderSize + chunk.MemoryMapEntrySize*used

	lay.IMapOffset = chunk.HeaderSize + 4
	lay.MMapOffset = lay.IMapOffset + chunk.HeaderSize + imapLen
	lay.EntriesOffset = lay.MMapOffset + chunk.HeaderSize + chunk.MemoryMapHeaderSize

	cursor := lay.MMapOffset + chunk.HeaderSize + mmapLen
	var entries []entry
	if b.SelfSlots {
		lay.ChunkOffsets = append(lay.ChunkOffsets, 0, lay.IMapOffset, lay.MMapOffset)
		entries = append(entries,
			entry{tag: string(chunk.TagMeta)},
			entry{tag: string(chunk.TagInitialMap), length: uint32(imapLen), offset: uint32(lay.IMapOffset)},
			entry{tag: string(chunk.TagMemoryMap), length: uint32(mmapLen), offset: uint32(lay.MMapOffset)},
		)
	}
	for _, s := range b.Slots {
		if s.Reclaimed {
			lay.ChunkOffsets = append(lay.ChunkOffsets, -1)
			entries = append(entries, entry{tag: s.Tag, link: -1})
			continue
		}
		e := entry{tag: s.Tag, length: uint32(len(s.Payload)), offset: uint32(cursor)}
		if s.EntryLength != nil {
			e.length = *s.EntryLength
		}
		lay.ChunkOffsets = append(lay.ChunkOffsets, cursor)
		entries = append(entries, e)
		cursor += chunk.HeaderSize + len(s.Payload)
	}

	metaLen := uint32(cursor - chunk.HeaderSize)
	if b.MetaLength != 0 {
		metaLen = b.MetaLength
	}
	if b.SelfSlots {
		entries[0].length = metaLen
	}

	countMax := uint32(used)
	if b.ChunkCountMax != 0 {
		countMax = b.ChunkCountMax
	}

	w := binary.NewWriter(b.order())

	w.WriteFourCC(string(chunk.TagMeta))
	w.WriteU32(metaLen)
	w.WriteFourCC(b.Codec)

	w.WriteFourCC(string(chunk.TagInitialMap))
	w.WriteU32(uint32(imapLen))
	w.WriteU32(uint32(1 + len(b.ExtraIMapEntries)))
	w.WriteU32(uint32(lay.MMapOffset))
	for _, v := range b.ExtraIMapEntries {
		w.WriteU32(v)
	}

	w.WriteFourCC(string(chunk.TagMemoryMap))
	w.WriteU32(uint32(mmapLen))
	w.WriteU16(chunk.MemoryMapHeaderSize)
	w.WriteU16(chunk.MemoryMapEntrySize)
	w.WriteU32(countMax)
	w.WriteU32(uint32(used))
	w.WriteI32(-1)
	w.WriteI32(-1)
	w.WriteI32(-1)
	for _, e := range entries {
		w.WriteFourCC(e.tag)
		w.WriteU32(e.length)
		w.WriteU32(e.offset)
		w.WriteI16(0)
		w.WriteI16(0)
		w.WriteI32(e.link)
	}

	for _, s := range b.Slots {
		if s.Reclaimed {
			continue
		}
		w.WriteFourCC(s.Tag)
		w.WriteU32(uint32(len(s.Payload)))
		w.WriteBytes(s.Payload)
	}

	return w.Bytes(), lay
}

// Bytes encodes the container and discards the layout.
func (b *Builder) Bytes() []byte {
	data, _ := b.Build()
	return data
}

// Uint32 returns a pointer to v, for Slot.EntryLength.
func Uint32(v uint32) *uint32 { return &v }

// Sample returns a small container resembling a real movie file: self slots,
// a few cast and score chunks and reclaimed slots.
func Sample(order chunk.ByteOrder) []byte {
	b := New(order)
	b.SelfSlots = true
	b.ExtraIMapEntries = []uint32{0x4C1, 0}
	b.ChunkCountMax = 16
	b.Add("KEY*", []byte{0x00, 0x0C, 0x00, 0x0C, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	b.Add("CAS*", []byte{0x00, 0x00, 0x00, 0x07})
	b.AddReclaimed(string(chunk.TagFree))
	b.Add("CASt", []byte("\x00\x00\x00\x01cast member"))
	b.AddReclaimed(string(chunk.TagJunk))
	b.Add("VWSC", make([]byte, 32))
	b.Add("Lscr", []byte("on startMovie\rend\r"))
	return b.Bytes()
}
