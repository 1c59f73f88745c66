package conveyor

import "errors"

// Error kinds. Every failure surfaced by conveyor operations wraps one of
// these (or a store error) so callers can classify with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrPrecondition    = errors.New("precondition failed")
	ErrNotFound        = errors.New("not found")
	ErrUnsupported     = errors.New("unsupported operation")
)
