package runes

import (
	"errors"
	"fmt"
)

// Encode failure reasons. An EncodeError wraps exactly one of these.
var (
	ErrDuplicateName = errors.New("duplicate rune name")
	ErrNameTooLong   = errors.New("rune name exceeds maximum length")
	ErrInvalidUTF8   = errors.New("rune name is not valid UTF-8")
)

// Validate failure reasons. A StructuralError wraps exactly one of
// these.
var (
	ErrTruncated       = errors.New("archive truncated")
	ErrBadMagic        = errors.New("magic mismatch")
	ErrVersionMismatch = errors.New("unsupported format version")
	ErrTrailingBytes   = errors.New("trailing bytes after declared length")
	ErrBadOffset       = errors.New("offset out of bounds or misaligned")
	ErrReservedNotZero = errors.New("reserved field is not zero")
)

// EncodeError reports a manifest that violates an encoding invariant.
// Name identifies the offending rune.
type EncodeError struct {
	Name string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("runes: encode %q: %v", e.Name, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// StructuralError reports a byte image that failed validation. Offset
// is the image offset at which the check failed.
type StructuralError struct {
	Offset uint64
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("runes: invalid archive at offset %d: %v", e.Offset, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

func structural(offset uint64, reason error) error {
	return &StructuralError{Offset: offset, Err: reason}
}
