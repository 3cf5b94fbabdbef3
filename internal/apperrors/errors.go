package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict with current resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Structural/state errors of the payroll lifecycle. These are caller mistakes:
// rejected immediately, no partial effect, not retryable.

// ErrInvalidState indicates a lifecycle transition was requested from a state
// that does not permit it.
var ErrInvalidState = errors.New("invalid state for requested transition")

// ErrRunNotEditable indicates a structural edit (add/remove/generate items) was
// attempted on a run that has left the draft state.
var ErrRunNotEditable = errors.New("payroll run is not editable")

// ErrEmptyPayroll indicates a run without items was submitted for approval.
var ErrEmptyPayroll = errors.New("payroll run has no items")

// ErrSelfApproval indicates the approver of a run is also its creator while
// separation of duties is enforced.
var ErrSelfApproval = errors.New("run creator cannot approve their own run")

// ErrInvalidPayoutMethod indicates a worker has no valid payout destination.
// It is isolated to the offending item during payment execution.
var ErrInvalidPayoutMethod = errors.New("worker has no valid payout method")
