// Package movie resolves a RIFX/XFIR container into a registry of chunks.
//
// Resolution is a single pass over a fully resident buffer:
//
//  1. The 4-byte marker at offset 0 selects the byte order: "RIFX" is
//     big-endian, "XFIR" little-endian. Anything else is an invalid header.
//  2. The RIFX chunk names the embedded codec, which must be MV93.
//  3. The imap chunk that follows holds the file offset of the mmap chunk.
//  4. Every mmap entry that is not a free or junk slot is read at its offset
//     and checked against the entry's tag and length.
//
// The result is keyed by memory map slot, since tags repeat across slots:
//
//	m, err := movie.Read(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, i := range m.Indices() {
//	    c, _ := m.Chunk(i)
//	    fmt.Println(i, c.Tag, c.Length)
//	}
//
// The first error aborts resolution and no partial registry is returned.
// Setting Config.Workers shards the table scan across goroutines with the
// same result and error semantics.
package movie
