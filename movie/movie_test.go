package movie_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/rifx/chunk"
	rerrors "github.com/wippyai/rifx/errors"
	"github.com/wippyai/rifx/internal/binary"
	"github.com/wippyai/rifx/internal/rifxtest"
	"github.com/wippyai/rifx/movie"
)

var orders = []chunk.ByteOrder{chunk.BigEndian, chunk.LittleEndian}

func TestDetectByteOrder(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    chunk.ByteOrder
		wantErr bool
	}{
		{name: "big-endian", data: []byte("RIFX\x00\x00\x00\x04"), want: chunk.BigEndian},
		{name: "little-endian", data: []byte("XFIR\x04\x00\x00\x00"), want: chunk.LittleEndian},
		{name: "other container", data: []byte("RIFF\x00\x00\x00\x04"), wantErr: true},
		{name: "partially reversed", data: []byte("XFRI"), wantErr: true},
		{name: "short", data: []byte("RIF"), wantErr: true},
		{name: "empty", data: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := movie.DetectByteOrder(tt.data)
			if tt.wantErr {
				assert.Equal(t, rerrors.KindInvalidHeader, rerrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadInvalidHeader(t *testing.T) {
	_, err := movie.Read([]byte("FORM\x00\x00\x00\x04AIFF"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, &rerrors.Error{Phase: rerrors.PhaseResolve, Kind: rerrors.KindInvalidHeader}))
}

func TestReadEndToEnd(t *testing.T) {
	for _, order := range orders {
		t.Run(order.String(), func(t *testing.T) {
			b := rifxtest.New(order)
			b.Add("test", []byte("payload!"))
			data, lay := b.Build()

			m, err := movie.Read(data)
			require.NoError(t, err)

			assert.Equal(t, order, m.ByteOrder())
			require.Equal(t, 1, m.Len())
			assert.Equal(t, []uint32{0}, m.Indices())

			c, ok := m.Chunk(0)
			require.True(t, ok)
			assert.Equal(t, chunk.Tag("test"), c.Tag)
			assert.Equal(t, uint32(8), c.Length)
			assert.Equal(t, lay.ChunkOffsets[0], c.Offset)
			require.IsType(t, &chunk.Unimplemented{}, c.Variant)
			assert.Equal(t, []byte("payload!"), c.Variant.(*chunk.Unimplemented).Payload)

			assert.Equal(t, chunk.CodecMV93, m.Meta().Codec)
			assert.Equal(t, []uint32{uint32(lay.MMapOffset)}, m.InitialMap().Entries)
			assert.Equal(t, uint32(1), m.MemoryMap().ChunkCountUsed)
		})
	}
}

func TestReadSample(t *testing.T) {
	for _, order := range orders {
		t.Run(order.String(), func(t *testing.T) {
			m, err := movie.Read(rifxtest.Sample(order))
			require.NoError(t, err)

			// 3 self slots + 5 live chunks; the free and junk slots are skipped.
			assert.Equal(t, 8, m.Len())
			assert.Equal(t, []uint32{0, 1, 2, 3, 4, 6, 8, 9}, m.Indices())

			_, ok := m.Chunk(5)
			assert.False(t, ok, "free slot must not be decoded")
			_, ok = m.Chunk(7)
			assert.False(t, ok, "junk slot must not be decoded")

			c, _ := m.Chunk(0)
			assert.IsType(t, &chunk.Meta{}, c.Variant)
			c, _ = m.Chunk(1)
			assert.IsType(t, &chunk.InitialMap{}, c.Variant)
			c, _ = m.Chunk(2)
			assert.IsType(t, &chunk.MemoryMap{}, c.Variant)

			assert.Equal(t, []uint32{6}, m.ChunksByTag("CASt"))
			assert.Empty(t, m.ChunksByTag("BITD"))

			assert.Equal(t, uint32(3), m.InitialMap().EntryCount)
			assert.Equal(t, uint32(0x4C1), m.InitialMap().Entries[1])
			assert.Equal(t, uint32(16), m.MemoryMap().ChunkCountMax)
		})
	}
}

func TestReadEmptyMemoryMap(t *testing.T) {
	m, err := movie.Read(rifxtest.New(chunk.BigEndian).Bytes())
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Indices())
}

func TestReadMetaDeclaredLengthIgnored(t *testing.T) {
	b := rifxtest.New(chunk.LittleEndian)
	b.MetaLength = 1024
	b.Add("test", []byte{1})

	m, err := movie.Read(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestReadUnsupportedCodec(t *testing.T) {
	b := rifxtest.New(chunk.BigEndian)
	b.Codec = "APPL"
	data, lay := b.Build()
	// Corrupt the initial map: if the reader went on, it would fail with
	// UnexpectedChunk instead.
	copy(data[lay.IMapOffset:], "XXXX")

	_, err := movie.Read(data)
	require.Error(t, err)

	var e *rerrors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, rerrors.KindUnsupportedCodec, e.Kind)
	assert.Equal(t, "APPL", e.Value)
}

func TestReadUnexpectedBootstrapChunk(t *testing.T) {
	data, lay := rifxtest.New(chunk.BigEndian).Build()
	copy(data[lay.IMapOffset:], "imaq")

	_, err := movie.Read(data)
	var uc *rerrors.UnexpectedChunkError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, lay.IMapOffset, uc.Offset)
	assert.Equal(t, "imap", uc.ExpectedTag)
	assert.Equal(t, "imaq", uc.ActualTag)
	assert.False(t, uc.HasExpectedLength)
}

func TestReadEntryMismatch(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *rifxtest.Builder)
		wantTag string
		wantLen uint32
	}{
		{
			name: "length",
			mutate: func(b *rifxtest.Builder) {
				b.Slots[1].EntryLength = rifxtest.Uint32(99)
			},
			wantTag: "CASt",
			wantLen: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := rifxtest.New(chunk.BigEndian)
			b.Add("KEY*", make([]byte, 12))
			b.Add("CASt", make([]byte, 4))
			tt.mutate(b)
			data, lay := b.Build()

			_, err := movie.Read(data)
			var uc *rerrors.UnexpectedChunkError
			require.ErrorAs(t, err, &uc)
			assert.Equal(t, lay.ChunkOffsets[1], uc.Offset)
			assert.True(t, uc.HasExpectedLength)
			assert.Equal(t, uint32(99), uc.ExpectedLength)
			assert.Equal(t, tt.wantTag, uc.ActualTag)
			assert.Equal(t, tt.wantLen, uc.ActualLength)
			assert.Contains(t, err.Error(), "memory map slot 1")
		})
	}
}

func TestReadEntryTagMismatch(t *testing.T) {
	b := rifxtest.New(chunk.LittleEndian)
	b.Add("KEY*", make([]byte, 12))
	data, lay := b.Build()

	// Rewrite the chunk header tag in place, keeping the entry's tag.
	w := binary.NewWriter(binary.LittleEndian)
	w.WriteFourCC("CAS*")
	copy(data[lay.ChunkOffsets[0]:], w.Bytes())

	_, err := movie.Read(data)
	var uc *rerrors.UnexpectedChunkError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, lay.ChunkOffsets[0], uc.Offset)
	assert.Equal(t, "KEY*", uc.ExpectedTag)
	assert.Equal(t, "CAS*", uc.ActualTag)
}

func TestReadTruncated(t *testing.T) {
	for _, order := range orders {
		t.Run(order.String(), func(t *testing.T) {
			data := rifxtest.Sample(order)

			// Every proper prefix long enough to carry the marker must fail
			// cleanly, never panic and never yield a registry.
			for n := 4; n < len(data); n++ {
				m, err := movie.Read(data[:n:n])
				require.Errorf(t, err, "prefix %d", n)
				assert.Nil(t, m)
				kind := rerrors.KindOf(err)
				assert.Containsf(t,
					[]rerrors.Kind{rerrors.KindTruncated, rerrors.KindUnexpectedChunk},
					kind, "prefix %d: %v", n, err)
			}
		})
	}
}

func TestReadTruncatedPayload(t *testing.T) {
	b := rifxtest.New(chunk.BigEndian)
	b.Add("test", make([]byte, 64))
	data := b.Bytes()

	_, err := movie.Read(data[:len(data)-1])
	assert.True(t, errors.Is(err, &rerrors.Error{Kind: rerrors.KindTruncated}))
}

func TestReadMemoryMapOffsetPastEnd(t *testing.T) {
	b := rifxtest.New(chunk.BigEndian)
	data, lay := b.Build()
	// The first imap entry sits after count; point it far away.
	w := binary.NewWriter(binary.BigEndian)
	w.WriteU32(1 << 20)
	copy(data[lay.IMapOffset+chunk.HeaderSize+4:], w.Bytes())

	_, err := movie.Read(data)
	assert.Equal(t, rerrors.KindTruncated, rerrors.KindOf(err))
}

func TestReadEmptyInitialMap(t *testing.T) {
	data, lay := rifxtest.New(chunk.BigEndian).Build()
	w := binary.NewWriter(binary.BigEndian)
	w.WriteU32(0)
	copy(data[lay.IMapOffset+chunk.HeaderSize:], w.Bytes())

	_, err := movie.Read(data)
	assert.True(t, errors.Is(err, &rerrors.Error{Kind: rerrors.KindInvalidData}))
}

func TestReadParallelMatchesSequential(t *testing.T) {
	for _, order := range orders {
		t.Run(order.String(), func(t *testing.T) {
			data := rifxtest.Sample(order)

			seq, err := movie.Read(data)
			require.NoError(t, err)

			for _, workers := range []int{2, 4, 64} {
				par, err := movie.ReadWithConfig(data, &movie.Config{Workers: workers})
				require.NoError(t, err)
				assert.Equal(t, seq.Indices(), par.Indices())
				for _, i := range seq.Indices() {
					a, _ := seq.Chunk(i)
					b, _ := par.Chunk(i)
					assert.Equal(t, a, b)
				}
			}
		})
	}
}

func TestReadParallelReportsLowestSlot(t *testing.T) {
	b := rifxtest.New(chunk.BigEndian)
	for i := 0; i < 20; i++ {
		b.Add("test", make([]byte, 8))
	}
	b.Slots[5].EntryLength = rifxtest.Uint32(1)
	b.Slots[17].EntryLength = rifxtest.Uint32(2)
	data, lay := b.Build()

	for i := 0; i < 10; i++ {
		_, err := movie.ReadWithConfig(data, &movie.Config{Workers: 8})
		var uc *rerrors.UnexpectedChunkError
		require.ErrorAs(t, err, &uc)
		assert.Equal(t, lay.ChunkOffsets[5], uc.Offset)
		assert.Contains(t, err.Error(), "memory map slot 5")
	}
}

func TestReadLogsResolution(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	b := rifxtest.New(chunk.BigEndian)
	b.Add("test", nil)
	b.AddReclaimed("junk")

	_, err := movie.ReadWithConfig(b.Bytes(), &movie.Config{Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("detected byte order").Len())
	assert.Equal(t, 1, logs.FilterMessage("skipping reclaimed slot").Len())
	resolved := logs.FilterMessage("resolved chunk table").All()
	require.Len(t, resolved, 1)
	assert.Equal(t, int64(1), resolved[0].ContextMap()["chunks"])
}

func TestLoggerDefaultsToNop(t *testing.T) {
	require.NotNil(t, movie.Logger())
}
