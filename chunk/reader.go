package chunk

import (
	"fmt"

	"github.com/wippyai/rifx/errors"
	"github.com/wippyai/rifx/internal/binary"
)

// Reader reads chunk frames from a container buffer. The buffer is borrowed
// and must not be modified while the Reader or any Chunk it produced is in use.
type Reader struct {
	r *binary.Reader
}

// NewReader creates a Reader positioned at offset 0 of data.
func NewReader(data []byte, order ByteOrder) *Reader {
	return &Reader{r: binary.NewReader(data, order.order())}
}

// Offset returns the current file offset.
func (r *Reader) Offset() int {
	return r.r.Position()
}

// Seek moves to a file-absolute offset. An offset past the end of the buffer
// cannot hold a chunk header and is reported as truncated input.
func (r *Reader) Seek(offset int) error {
	if offset < 0 || offset > r.r.Len() {
		return errors.Truncated(offset, HeaderSize, r.r.Len())
	}
	return r.r.Seek(offset)
}

// ReadChunk reads the chunk at the current offset and checks that it carries
// the expected tag. Any declared length is accepted.
func (r *Reader) ReadChunk(expected Tag) (*Chunk, error) {
	return r.readChunk(expected, 0, false)
}

// ReadChunkExact reads the chunk at the current offset and checks both its
// tag and its declared length.
func (r *Reader) ReadChunkExact(expected Tag, length uint32) (*Chunk, error) {
	return r.readChunk(expected, length, true)
}

func (r *Reader) readChunk(expected Tag, expectedLength uint32, hasLength bool) (*Chunk, error) {
	offset := r.r.Position()

	cc, err := r.r.ReadFourCC()
	if err != nil {
		return nil, err
	}
	tag := Tag(cc)
	length, err := r.r.ReadU32()
	if err != nil {
		return nil, err
	}

	if hasLength {
		if length != expectedLength || tag != expected {
			return nil, errors.UnexpectedChunkLength(offset, string(expected), expectedLength, string(tag), length)
		}
	} else if tag != expected {
		return nil, errors.UnexpectedChunk(offset, string(expected), string(tag), length)
	}

	size := length
	if tag == TagMeta {
		size = metaPayloadSize
	}
	if uint64(size) > uint64(r.r.Remaining()) {
		return nil, errors.New(errors.PhaseDecode, errors.KindTruncated).
			Offset(r.r.Position()).
			Tag(cc).
			Detail("payload of %d bytes overruns buffer (%d bytes left)", size, r.r.Remaining()).
			Value(size).
			Build()
	}

	payload, err := r.r.Sub(int(size))
	if err != nil {
		return nil, err
	}

	variant, err := decode(tag, payload)
	if err != nil {
		return nil, fmt.Errorf("%s chunk at offset %d: %w", tag, offset, err)
	}

	return &Chunk{
		Tag:     tag,
		Offset:  offset,
		Length:  length,
		Variant: variant,
	}, nil
}

type decodeFunc func(r *binary.Reader) (Variant, error)

var decoders = map[Tag]decodeFunc{
	TagMeta:       decodeMeta,
	TagInitialMap: decodeInitialMap,
	TagMemoryMap:  decodeMemoryMap,
}

// Decodes reports whether tag has a payload decoder. Chunks with other tags
// decode to *Unimplemented.
func Decodes(tag Tag) bool {
	_, ok := decoders[tag]
	return ok
}

func decode(tag Tag, payload *binary.Reader) (Variant, error) {
	if fn, ok := decoders[tag]; ok {
		return fn(payload)
	}
	rest, err := payload.ReadBytes(payload.Remaining())
	if err != nil {
		return nil, err
	}
	return &Unimplemented{Payload: rest}, nil
}

func decodeMeta(r *binary.Reader) (Variant, error) {
	codec, err := r.ReadFourCC()
	if err != nil {
		return nil, err
	}
	return &Meta{Codec: codec}, nil
}

func decodeInitialMap(r *binary.Reader) (Variant, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	// Bound the allocation by what the payload can actually hold.
	entries := make([]uint32, 0, min(int64(count), int64(r.Remaining()/4)))
	for i := uint32(0); i < count; i++ {
		off, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		entries = append(entries, off)
	}
	return &InitialMap{EntryCount: count, Entries: entries}, nil
}

func decodeMemoryMap(r *binary.Reader) (Variant, error) {
	m := &MemoryMap{}
	var err error
	if m.Unknown0, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if m.Unknown1, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if m.ChunkCountMax, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if m.ChunkCountUsed, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if m.JunkPointer, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if m.Unknown2, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if m.FreePointer, err = r.ReadI32(); err != nil {
		return nil, err
	}

	if m.ChunkCountUsed > m.ChunkCountMax {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(r.Base()).
			Tag(string(TagMemoryMap)).
			Detail("chunk_count_used %d exceeds chunk_count_max %d", m.ChunkCountUsed, m.ChunkCountMax).
			Build()
	}

	m.Entries = make([]MemoryMapEntry, 0, min(int64(m.ChunkCountUsed), int64(r.Remaining()/MemoryMapEntrySize)))
	for i := uint32(0); i < m.ChunkCountUsed; i++ {
		e, err := readMemoryMapEntry(r)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, e)
	}
	return m, nil
}

func readMemoryMapEntry(r *binary.Reader) (MemoryMapEntry, error) {
	var e MemoryMapEntry
	cc, err := r.ReadFourCC()
	if err != nil {
		return e, err
	}
	e.Tag = Tag(cc)
	if e.Length, err = r.ReadU32(); err != nil {
		return e, err
	}
	if e.Offset, err = r.ReadU32(); err != nil {
		return e, err
	}
	if e.Padding, err = r.ReadI16(); err != nil {
		return e, err
	}
	if e.Unknown0, err = r.ReadI16(); err != nil {
		return e, err
	}
	if e.Link, err = r.ReadI32(); err != nil {
		return e, err
	}
	return e, nil
}
