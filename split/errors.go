package split

import (
	"errors"
	"fmt"
)

// ErrContractViolation is wrapped by every error Transition returns. It
// marks a caller bug, never a user-input problem.
var ErrContractViolation = errors.New("contract violation")

var (
	ErrUnknownAction    = fmt.Errorf("%w: unknown action", ErrContractViolation)
	ErrUnknownAccount   = fmt.Errorf("%w: unknown account", ErrContractViolation)
	ErrAccountDisabled  = fmt.Errorf("%w: account is not enabled", ErrContractViolation)
	ErrDuplicateAccount = fmt.Errorf("%w: duplicate account", ErrContractViolation)
	ErrInvalidAccount   = fmt.Errorf("%w: invalid account", ErrContractViolation)
	ErrUnknownRouting   = errors.New("unknown routing rule")
)
