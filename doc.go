// Package rifx reads RIFX/XFIR chunk containers, the file format used by
// vintage multimedia authoring tools for movies and casts.
//
// A container starts with a 4-byte marker that fixes the byte order of the
// whole file: "RIFX" for big-endian files and "XFIR" (the same bytes
// reversed) for little-endian ones. Everything after it is a sequence of
// length-prefixed chunks located through a memory map.
//
// # Architecture Overview
//
//	rifx/
//	├── movie/             Resolver: byte-order detection, bootstrap, table scan
//	├── chunk/             Chunk frame reader and payload variants
//	├── errors/            Structured error types for debugging
//	├── internal/binary/   Bounds-checked primitive reader, fixture writer
//	├── internal/rifxtest/ Synthetic container builder
//	└── cmd/rifxdump/      Command-line and interactive inspector
//
// # Quick Start
//
//	data, err := os.ReadFile("movie.dir")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m, err := movie.Read(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, i := range m.Indices() {
//	    c, _ := m.Chunk(i)
//	    fmt.Printf("%d %s %d bytes\n", i, c.Tag, c.Length)
//	}
//
// # Payloads
//
// Only the three chunks needed to find every other chunk are decoded:
// RIFX (*chunk.Meta), imap (*chunk.InitialMap) and mmap (*chunk.MemoryMap).
// All other chunks are returned as *chunk.Unimplemented carrying a view of
// their payload bytes.
//
// # Memory Model
//
// The input buffer is never copied. Chunks returned by movie.Read alias it,
// so the caller must not modify the buffer while the Movie is in use.
//
// # Thread Safety
//
// A resolved Movie is read-only and safe for concurrent use. Each Read call
// owns its cursors and registry.
package rifx
