// Package errs holds the typed errors shared by the domain and the adapters.
//
// Validation problems use ValueIsRequiredError, ValueIsInvalidError and
// ValueIsOutOfRangeError; lookups that find nothing use ObjectNotFoundError.
// Every type unwraps to its sentinel (ErrValueIsRequired, ErrObjectNotFound,
// ...) so callers classify with errors.Is and IsValidation instead of
// matching messages.
//
// Infrastructure failures are wrapped with Wrap and classified with Mark.
// Both sit on github.com/cockroachdb/errors: a marked error keeps its cause
// and stack and still matches the mark through Is.
package errs
