package ports

import "errors"

// Storage adapters mark driver errors with these so the use cases can decide
// what to retry without knowing the driver.
var (
	// ErrSerializationConflict covers serialization failures and deadlocks.
	// The whole transaction may be retried.
	ErrSerializationConflict = errors.New("transaction serialization conflict")

	// ErrUniqueViolation is a unique constraint violation.
	ErrUniqueViolation = errors.New("unique constraint violation")
)
