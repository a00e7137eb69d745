package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode  Phase = "decode"  // primitive values and chunk frames
	PhaseResolve Phase = "resolve" // container bootstrap and table scan
	PhaseLoad    Phase = "load"    // file loading outside the core
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidHeader    Kind = "invalid_header"
	KindUnsupportedCodec Kind = "unsupported_codec"
	KindUnexpectedChunk  Kind = "unexpected_chunk"
	KindTruncated        Kind = "truncated_input"
	KindInvalidUTF8      Kind = "invalid_utf8"
	KindInvalidData      Kind = "invalid_data"
	KindOutOfBounds      Kind = "out_of_bounds"
)

// Error is the structured error type used throughout the reader
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Tag    string
	Detail string
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}

	if e.Tag != "" {
		b.WriteString(" in ")
		b.WriteString(e.Tag)
		b.WriteString(" chunk")
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// An empty Phase on the target matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return (t.Phase == "" || e.Phase == t.Phase) && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Offset sets the byte offset the error refers to
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Tag sets the chunk tag being decoded
func (b *Builder) Tag(tag string) *Builder {
	b.err.Tag = tag
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// KindOf returns the Kind of the first *Error or *UnexpectedChunkError in
// err's chain, or the empty Kind.
func KindOf(err error) Kind {
	var uc *UnexpectedChunkError
	if errors.As(err, &uc) {
		return KindUnexpectedChunk
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Convenience constructors for common error patterns

// InvalidHeader creates an error for an unrecognized container marker
func InvalidHeader(marker []byte) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindInvalidHeader,
		Offset: 0,
		Detail: fmt.Sprintf("unrecognized container marker %q", marker),
		Value:  marker,
	}
}

// UnsupportedCodec creates an error for a container whose embedded codec is
// not handled. Value holds the codec name.
func UnsupportedCodec(codec string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnsupportedCodec,
		Offset: -1,
		Detail: fmt.Sprintf("unsupported codec: %s", codec),
		Value:  codec,
	}
}

// Truncated creates an error for a read of n bytes at offset that runs past
// the end of a buffer holding size bytes.
func Truncated(offset, n, size int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncated,
		Offset: offset,
		Detail: fmt.Sprintf("need %d bytes, %d available", n, max(size-offset, 0)),
		Value:  n,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(offset int, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidUTF8,
		Offset: offset,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// OutOfBounds creates an out of bounds error for a seek target
func OutOfBounds(phase Phase, offset, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Offset: offset,
		Detail: fmt.Sprintf("offset %d out of bounds (length %d)", offset, length),
		Value:  offset,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, tag string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Offset: -1,
		Tag:    tag,
		Detail: detail,
	}
}

// Load creates a file loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}

// UnexpectedChunkError is returned when the chunk found at an offset does not
// match the tag (and, when known, the length) the caller expected.
type UnexpectedChunkError struct {
	ExpectedTag       string
	ActualTag         string
	Offset            int
	ExpectedLength    uint32
	ActualLength      uint32
	HasExpectedLength bool
}

// UnexpectedChunk creates an error for a chunk whose length was not known in
// advance.
func UnexpectedChunk(offset int, expectedTag, actualTag string, actualLength uint32) *UnexpectedChunkError {
	return &UnexpectedChunkError{
		Offset:       offset,
		ExpectedTag:  expectedTag,
		ActualTag:    actualTag,
		ActualLength: actualLength,
	}
}

// UnexpectedChunkLength creates an error for a chunk checked against both an
// expected tag and an expected length.
func UnexpectedChunkLength(offset int, expectedTag string, expectedLength uint32, actualTag string, actualLength uint32) *UnexpectedChunkError {
	return &UnexpectedChunkError{
		Offset:            offset,
		ExpectedTag:       expectedTag,
		ExpectedLength:    expectedLength,
		HasExpectedLength: true,
		ActualTag:         actualTag,
		ActualLength:      actualLength,
	}
}

func (e *UnexpectedChunkError) Error() string {
	if e.HasExpectedLength {
		return fmt.Sprintf("[%s] %s: at offset %d expected a %s chunk with length %d, but got a %s chunk with length %d",
			PhaseDecode, KindUnexpectedChunk, e.Offset, e.ExpectedTag, e.ExpectedLength, e.ActualTag, e.ActualLength)
	}
	return fmt.Sprintf("[%s] %s: at offset %d expected a %s chunk of unknown length, but got a %s chunk with length %d",
		PhaseDecode, KindUnexpectedChunk, e.Offset, e.ExpectedTag, e.ActualTag, e.ActualLength)
}

// Is reports whether target matches this error type
func (e *UnexpectedChunkError) Is(target error) bool {
	switch t := target.(type) {
	case *UnexpectedChunkError:
		return true
	case *Error:
		return t.Kind == KindUnexpectedChunk
	}
	return false
}
