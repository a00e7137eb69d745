// Package chunk reads self-describing chunk frames from a RIFX/XFIR
// container.
//
// A frame is a 4-byte tag, a 4-byte length in the container's byte order and
// then length bytes of payload:
//
//	+------+--------+-----------------+
//	| tag  | length | payload ...     |
//	+------+--------+-----------------+
//	  4 B     4 B     length B
//
// The outermost RIFX chunk is the exception: its payload is always read as
// exactly 4 bytes (the embedded codec tag) whatever its header declares,
// because offsets elsewhere in the container are file-absolute.
//
// Each payload is parsed with a fresh zero-based cursor, so offsets found
// inside a payload are payload-relative. Payloads are dispatched by tag:
//
//	RIFX  -> *Meta
//	imap  -> *InitialMap
//	mmap  -> *MemoryMap
//	other -> *Unimplemented
//
// Reading a chunk whose tag (and, with ReadChunkExact, length) differs from
// the expectation fails with *errors.UnexpectedChunkError.
package chunk
