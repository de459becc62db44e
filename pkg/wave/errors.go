package wave

import (
	"errors"
	"fmt"
)

// Common error codes
const (
	ErrCodeInvalidLength = "INVALID_LENGTH"
	ErrCodeOutOfRange    = "OUT_OF_RANGE"
)

var (
	// ErrInvalidLength matches any Error carrying ErrCodeInvalidLength.
	ErrInvalidLength = errors.New("invalid length")
	// ErrOutOfRange matches any Error carrying ErrCodeOutOfRange.
	ErrOutOfRange = errors.New("index out of range")
)

// Error represents a rejected waveform or spectrum operation
type Error struct {
	Code   string `json:"code"`
	Op     string `json:"op"`
	Index  int    `json:"index"`
	Length int    `json:"length"`
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeInvalidLength:
		return fmt.Sprintf("%s: invalid length %d", e.Op, e.Length)
	case ErrCodeOutOfRange:
		return fmt.Sprintf("%s: index %d out of range [0, %d)", e.Op, e.Index, e.Length)
	default:
		return e.Op + ": " + e.Code
	}
}

// Is lets errors.Is compare against the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidLength:
		return e.Code == ErrCodeInvalidLength
	case ErrOutOfRange:
		return e.Code == ErrCodeOutOfRange
	}
	return false
}

func newInvalidLength(op string, length int) *Error {
	return &Error{Code: ErrCodeInvalidLength, Op: op, Index: -1, Length: length}
}

func newOutOfRange(op string, index, length int) *Error {
	return &Error{Code: ErrCodeOutOfRange, Op: op, Index: index, Length: length}
}
