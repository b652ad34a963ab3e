package protocol

import (
	"errors"
	"fmt"

	"github.com/gravityledger/gravity-core/model/gravity"
)

var (
	// ErrAlreadyInitialized is a sentinel error returned when a one-time
	// genesis initialization is attempted a second time.
	ErrAlreadyInitialized = fmt.Errorf("already initialized")

	// ErrNotInitialized is a sentinel error returned when an operation
	// requires genesis initialization that has not happened yet.
	ErrNotInitialized = fmt.Errorf("not initialized")

	// ErrNoTransitionInProgress is a sentinel error returned when a
	// transition finish is attempted while the orchestrator is idle.
	ErrNoTransitionInProgress = fmt.Errorf("no epoch transition in progress")

	// ErrDKGAlreadyInProgress is a sentinel error returned when a DKG
	// session start is attempted while another session is open. Reaching it
	// indicates a logic bug in the caller, not a transient condition.
	ErrDKGAlreadyInProgress = fmt.Errorf("DKG session already in progress")

	// ErrDKGNotInProgress is a sentinel error returned when a DKG finish is
	// attempted with no open session.
	ErrDKGNotInProgress = fmt.Errorf("no DKG session in progress")
)

// InvalidCallerError indicates a mutating entry point was invoked by an
// identity that does not hold the required role.
type InvalidCallerError struct {
	Caller gravity.Identifier
	Role   gravity.Role
}

func (e InvalidCallerError) Error() string {
	return fmt.Sprintf("caller %s does not hold role %s", e.Caller, e.Role)
}

func IsInvalidCallerError(err error) bool {
	var errInvalidCaller InvalidCallerError
	return errors.As(err, &errInvalidCaller)
}

// EpochMismatchError indicates a transition finish arrived for a different
// epoch than the one the transition was started in. This defends against a
// stale finish call racing a cleared and restarted session.
type EpochMismatchError struct {
	StartedAtEpoch uint64
	CurrentEpoch   uint64
}

func (e EpochMismatchError) Error() string {
	return fmt.Sprintf("transition started at epoch %d but current epoch is %d", e.StartedAtEpoch, e.CurrentEpoch)
}

func IsEpochMismatchError(err error) bool {
	var errEpochMismatch EpochMismatchError
	return errors.As(err, &errEpochMismatch)
}

// InvalidConfigError indicates a config value failed its group's validation
// predicate.
type InvalidConfigError struct {
	Group gravity.ConfigGroup
	err   error
}

func (e InvalidConfigError) Unwrap() error {
	return e.err
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid %s config: %s", e.Group, e.err.Error())
}

func IsInvalidConfigError(err error) bool {
	var errInvalidConfig InvalidConfigError
	return errors.As(err, &errInvalidConfig)
}

func NewInvalidConfigError(group gravity.ConfigGroup, err error) error {
	return InvalidConfigError{Group: group, err: err}
}

// InvalidBlockTimestampError indicates a clock advance that violates the
// monotonicity rules: non-increasing on a normal block, or unequal on a
// null block.
type InvalidBlockTimestampError struct {
	err error
}

func (e InvalidBlockTimestampError) Unwrap() error {
	return e.err
}

func (e InvalidBlockTimestampError) Error() string {
	return e.err.Error()
}

func IsInvalidBlockTimestampError(err error) bool {
	var errInvalidTimestamp InvalidBlockTimestampError
	return errors.As(err, &errInvalidTimestamp)
}

func NewInvalidBlockTimestamp(msg string, args ...interface{}) error {
	return InvalidBlockTimestampError{
		err: fmt.Errorf(msg, args...),
	}
}
