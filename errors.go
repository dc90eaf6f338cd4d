package e57

import (
	"errors"
	"fmt"

	"github.com/migr8/libE57Format/internal/container"
)

var (
	// ErrWriterClosed is returned when an operation is attempted on a closed
	// Writer.
	ErrWriterClosed = errors.New("writer is closed")

	// ErrSessionClosed is returned when a CompressedVectorWriter is written
	// to or closed after its Close.
	ErrSessionClosed = errors.New("compressed vector writer is closed")

	// ErrWriteExceedsDeclared is returned when cumulative streaming writes
	// would exceed the declared point count of the record.
	ErrWriteExceedsDeclared = errors.New("write exceeds declared point count")

	// ErrWriteExceedsBuffer is returned when a single streaming write asks
	// for more rows than the bound buffers hold.
	ErrWriteExceedsBuffer = errors.New("write exceeds bound buffer capacity")

	// ErrSessionActive is returned when an operation conflicts with an open
	// streaming writer.
	ErrSessionActive = errors.New("another streaming writer is active")

	// ErrRecordNotFound is returned when a record index does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrGroupsExist is returned when a second group index is written for
	// the same record.
	ErrGroupsExist = errors.New("group index already written for record")
)

// ConfigError indicates a record header that describes an inconsistent or
// unsupported field/type combination. It is raised at record-creation time
// and is fatal to that call only; the Writer stays usable and the caller may
// retry with a corrected header.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ConfigError struct {
	Field  string
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid record header: %s", e.Reason)
	}
	return fmt.Sprintf("invalid record header: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.cause }

// ConflictError indicates a structural conflict with a record that already
// exists, such as writing its group index twice or opening its point payload
// a second time.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ConflictError struct {
	Index int64
	cause error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting write for record %d", e.Index)
}

func (e *ConflictError) Unwrap() error { return e.cause }

// translateError normalizes container-layer sentinels into the public error
// contract.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, container.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrWriterClosed, err)
	}
	if errors.Is(err, container.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	if errors.Is(err, container.ErrActivePayload) {
		return fmt.Errorf("%w: %w", ErrSessionActive, err)
	}
	if errors.Is(err, container.ErrPayloadClosed) {
		return fmt.Errorf("%w: %w", ErrSessionClosed, err)
	}
	if errors.Is(err, container.ErrWrongKind) {
		return &ConfigError{Field: "index", Reason: "record kind mismatch", cause: err}
	}

	return err
}
