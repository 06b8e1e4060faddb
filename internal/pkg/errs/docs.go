// Package errs provides the error types shared by the grocery service.
//
// The package includes:
//   - ObjectNotFoundError: a referenced order, courier or assignment does not exist
//   - ValueIsInvalidError, ValueIsOutOfRangeError, ValueIsRequiredError: input validation
//   - TransitionIsInvalidError: a state machine rejected the requested change
//   - InfrastructureError: the store, geo index or transport failed after retries
//   - StateIsStaleError: a conditional write lost to a concurrent writer
//
// Each error type has a sentinel (ErrObjectNotFound, ErrTransitionIsInvalid, ...)
// returned from Unwrap, so callers classify failures with errors.Is and read
// details with errors.As.
package errs
