package movie

import (
	"bytes"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/rifx/chunk"
	"github.com/wippyai/rifx/errors"
)

// Container markers. The little-endian marker is the exact byte reversal of
// the big-endian one.
var (
	markerBigEndian    = []byte("RIFX")
	markerLittleEndian = []byte("XFIR")
)

// Movie is the resolved chunk registry of one container. It is read-only.
type Movie struct {
	chunks map[uint32]*chunk.Chunk
	meta   *chunk.Meta
	imap   *chunk.InitialMap
	mmap   *chunk.MemoryMap
	order  chunk.ByteOrder
}

// Config holds configuration for Read
type Config struct {
	// Logger overrides the package logger for this call.
	Logger *zap.Logger

	// Workers is the number of goroutines used for the table scan.
	// 0 or 1 scans sequentially.
	Workers int
}

// Read resolves a container held entirely in data. data is borrowed: payload
// views in the returned Movie alias it.
func Read(data []byte) (*Movie, error) {
	return ReadWithConfig(data, nil)
}

// ReadWithConfig resolves a container with custom configuration.
func ReadWithConfig(data []byte, cfg *Config) (*Movie, error) {
	log := Logger()
	workers := 1
	if cfg != nil {
		if cfg.Logger != nil {
			log = cfg.Logger
		}
		if cfg.Workers > 1 {
			workers = cfg.Workers
		}
	}

	order, err := DetectByteOrder(data)
	if err != nil {
		return nil, err
	}
	log.Debug("detected byte order", zap.Stringer("order", order), zap.Int("size", len(data)))

	r := chunk.NewReader(data, order)
	meta, imap, mmap, err := bootstrap(r, log)
	if err != nil {
		return nil, err
	}

	var chunks map[uint32]*chunk.Chunk
	if workers > 1 {
		chunks, err = scanParallel(data, order, mmap, workers, log)
	} else {
		chunks, err = scan(r, mmap, log)
	}
	if err != nil {
		return nil, err
	}

	log.Debug("resolved chunk table",
		zap.Uint32("used", mmap.ChunkCountUsed),
		zap.Uint32("max", mmap.ChunkCountMax),
		zap.Int("chunks", len(chunks)))

	return &Movie{
		chunks: chunks,
		meta:   meta,
		imap:   imap,
		mmap:   mmap,
		order:  order,
	}, nil
}

// DetectByteOrder inspects the 4-byte container marker at offset 0.
func DetectByteOrder(data []byte) (chunk.ByteOrder, error) {
	if len(data) < 4 {
		return 0, errors.InvalidHeader(data)
	}
	switch marker := data[:4]; {
	case bytes.Equal(marker, markerBigEndian):
		return chunk.BigEndian, nil
	case bytes.Equal(marker, markerLittleEndian):
		return chunk.LittleEndian, nil
	default:
		return 0, errors.InvalidHeader(marker)
	}
}

// bootstrap reads the meta, initial map and memory map chunks in order.
func bootstrap(r *chunk.Reader, log *zap.Logger) (*chunk.Meta, *chunk.InitialMap, *chunk.MemoryMap, error) {
	c, err := r.ReadChunk(chunk.TagMeta)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read meta chunk: %w", err)
	}
	meta := c.Variant.(*chunk.Meta)
	if meta.Codec != chunk.CodecMV93 {
		return nil, nil, nil, errors.UnsupportedCodec(meta.Codec)
	}

	c, err = r.ReadChunk(chunk.TagInitialMap)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read initial map: %w", err)
	}
	imap := c.Variant.(*chunk.InitialMap)
	if len(imap.Entries) == 0 {
		return nil, nil, nil, errors.InvalidData(errors.PhaseResolve, string(chunk.TagInitialMap), "no memory map offset")
	}
	mmapOffset := imap.Entries[0]
	log.Debug("located memory map",
		zap.Uint32("offset", mmapOffset),
		zap.Uint32s("imap_entries", imap.Entries))

	if err := r.Seek(int(mmapOffset)); err != nil {
		return nil, nil, nil, fmt.Errorf("seek to memory map: %w", err)
	}
	c, err = r.ReadChunk(chunk.TagMemoryMap)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read memory map: %w", err)
	}
	return meta, imap, c.Variant.(*chunk.MemoryMap), nil
}

// readEntry reads the chunk a memory map entry points at and checks it
// against the entry's tag and length.
func readEntry(r *chunk.Reader, e chunk.MemoryMapEntry) (*chunk.Chunk, error) {
	if err := r.Seek(int(e.Offset)); err != nil {
		return nil, err
	}
	return r.ReadChunkExact(e.Tag, e.Length)
}

func scan(r *chunk.Reader, mmap *chunk.MemoryMap, log *zap.Logger) (map[uint32]*chunk.Chunk, error) {
	chunks := make(map[uint32]*chunk.Chunk, len(mmap.Entries))
	for i, e := range mmap.Entries {
		if e.Tag.IsReclaimed() {
			log.Debug("skipping reclaimed slot", zap.Int("index", i), zap.String("tag", string(e.Tag)))
			continue
		}
		c, err := readEntry(r, e)
		if err != nil {
			return nil, fmt.Errorf("memory map slot %d: %w", i, err)
		}
		chunks[uint32(i)] = c
	}
	return chunks, nil
}

// ByteOrder returns the byte order the container was written in.
func (m *Movie) ByteOrder() chunk.ByteOrder {
	return m.order
}

// Len returns the number of chunks in the registry.
func (m *Movie) Len() int {
	return len(m.chunks)
}

// Chunk returns the chunk at memory map slot i.
func (m *Movie) Chunk(i uint32) (*chunk.Chunk, bool) {
	c, ok := m.chunks[i]
	return c, ok
}

// Indices returns the occupied slot indices in ascending order.
func (m *Movie) Indices() []uint32 {
	idx := make([]uint32, 0, len(m.chunks))
	for i := range m.chunks {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a] < idx[b] })
	return idx
}

// ChunksByTag returns the slot indices holding chunks tagged tag, ascending.
func (m *Movie) ChunksByTag(tag chunk.Tag) []uint32 {
	var idx []uint32
	for _, i := range m.Indices() {
		if m.chunks[i].Tag == tag {
			idx = append(idx, i)
		}
	}
	return idx
}

// Meta returns the container's meta chunk payload.
func (m *Movie) Meta() *chunk.Meta {
	return m.meta
}

// InitialMap returns the initial map, including entries the reader does not
// interpret.
func (m *Movie) InitialMap() *chunk.InitialMap {
	return m.imap
}

// MemoryMap returns the memory map the registry was built from.
func (m *Movie) MemoryMap() *chunk.MemoryMap {
	return m.mmap
}
