// Package errors provides structured error types for the container reader.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the byte offset, the chunk tag being decoded, a detail
// message and an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Offset(96).
//		Tag("mmap").
//		Detail("chunk_count_used %d exceeds chunk_count_max %d", used, max).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(offset, 4, len(buf))
//	err := errors.UnsupportedCodec("APPL")
//
// A chunk that does not match its expectation is reported as the typed
// UnexpectedChunkError, which records the offset and both the expected and
// the actual tag and length.
//
// All errors implement the standard error interface and support errors.Is/As.
// Matching against an *Error with an empty Phase compares the Kind only:
//
//	if errors.Is(err, &errors.Error{Kind: errors.KindTruncated}) { ... }
package errors
