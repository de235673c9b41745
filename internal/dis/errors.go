package dis

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrTruncated reports input that ended before the record did. It wraps
	// io.ErrUnexpectedEOF.
	ErrTruncated      = fmt.Errorf("unexpected end of input: %w", io.ErrUnexpectedEOF)
	ErrUnsupportedPDU = errors.New("unsupported PDU type")
	ErrLengthMismatch = errors.New("length field disagrees with content")
	ErrHeaderMismatch = errors.New("header PDU type does not match record")
	ErrCountOverflow  = errors.New("list too long for its count field")
	ErrTrailingData   = errors.New("trailing bytes after record")
)

// FieldError locates a codec failure inside a record.
type FieldError struct {
	Op     string
	Record string
	Field  string
	Offset int
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s.%s at offset %d: %v", e.Op, e.Record, e.Field, e.Offset, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
