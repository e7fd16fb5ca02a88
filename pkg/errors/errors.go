package errors

import (
	"errors"
	"fmt"
	"time"
)

// Code classifies every failure the record compression layer can return.
// The set is deliberately small and stable: the transport layer above makes
// tear-down and retry decisions from the code alone, never from message text.
type Code int

const (
	// CodeAllocationFailed indicates a buffer or context allocation failed.
	// Recoverable: the caller may retry later or abort the connection.
	CodeAllocationFailed Code = iota + 1

	// CodeCodecInitFailed indicates the underlying codec rejected its
	// initialization parameters. Fatal to the context; the caller should
	// abort the negotiated compression method.
	CodeCodecInitFailed

	// CodeUnsupportedAlgorithm indicates a transform was invoked against a
	// context with no bound codec. This is a negotiation bug upstream, not
	// a runtime condition.
	CodeUnsupportedAlgorithm

	// CodeInternal indicates a caller contract violation, such as a nil
	// context or a no-compression context routed into a transform.
	CodeInternal

	// CodeCompressionFailed indicates a codec error, incomplete input
	// consumption, or output exceeding the caller's size ceiling. The
	// connection should treat this as a protocol-level failure.
	CodeCompressionFailed

	// CodeDecompressionFailed indicates an oversized declared input, a
	// codec error, or a growth loop that could not succeed within the size
	// ceiling. Potentially adversarial input: tear the connection down,
	// never retry.
	CodeDecompressionFailed
)

// String returns the string representation of the failure code for
// logging and error reporting.
func (c Code) String() string {
	switch c {
	case CodeAllocationFailed:
		return "allocation-failed"
	case CodeCodecInitFailed:
		return "codec-init-failed"
	case CodeUnsupportedAlgorithm:
		return "unsupported-algorithm"
	case CodeInternal:
		return "internal-error"
	case CodeCompressionFailed:
		return "compression-failed"
	case CodeDecompressionFailed:
		return "decompression-failed"
	default:
		return "unknown"
	}
}

// RecordError is the failure value returned by every operation of the
// record compression layer. Failures are always synchronous return values;
// nothing in this layer panics across the API boundary.
type RecordError struct {
	Err       error
	Operation string
	Timestamp time.Time
	Code      Code
}

// New creates a RecordError for the given code and operation, wrapping an
// optional underlying codec error.
func New(code Code, operation string, err error) *RecordError {
	return &RecordError{
		Err:       err,
		Code:      code,
		Operation: operation,
		Timestamp: time.Now(),
	}
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%v] %s: %v", e.Code, e.Operation, e.Err)
	}
	return fmt.Sprintf("[%v] %s", e.Code, e.Operation)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// IsRetryAble returns whether failures of this code can be retried.
// Only allocation pressure is transient; every other code reflects either
// corrupt/adversarial data or a bug, and retrying cannot help.
func (e *RecordError) IsRetryAble() bool {
	return e.Code == CodeAllocationFailed
}

// IsCode checks whether err is a RecordError carrying the given code.
func IsCode(err error, code Code) bool {
	var re *RecordError
	return errors.As(err, &re) && re.Code == code
}

// AsRecordError attempts to extract a RecordError from a given error.
func AsRecordError(err error) *RecordError {
	var re *RecordError
	if errors.As(err, &re) {
		return re
	}
	return nil
}
