// Package errs provides the standardized error types of the export order service.
// Every type follows the same pattern so callers can classify failures with
// errors.Is against a sentinel or errors.As against the concrete type:
//   - a sentinel error variable (e.g., ErrValueIsRequired)
//   - a struct carrying the failing parameter and an optional cause
//   - New...Error and New...ErrorWithCause constructors
//   - Error() for a single-line message and Unwrap() returning the sentinel
//
// Types:
//   - ValueIsRequiredError: a mandatory value (such as an anchor date) is missing
//   - ValueIsInvalidError: a value breaks a business rule
//   - ValueIsOutOfRangeError: a value is outside its allowed bounds
//   - ObjectNotFoundError: a lookup by identifier found nothing
//   - VersionIsInvalidError: an optimistic concurrency check failed
//
// Domain packages define their own error types (transition, dependency and
// evidence violations) in the same shape.
package errs
