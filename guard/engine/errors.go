package engine

import (
	"errors"
)

// UserInputError is an advisory condition caused by the user's own input
// (no resolvable target, self-block, ...). It carries the user-facing
// reply, mutates nothing, and is not logged as an error.
type UserInputError struct {
	Advice string
}

func (e *UserInputError) Error() string {
	return e.Advice
}

func userInputErr(advice string) error {
	return &UserInputError{Advice: advice}
}

// ErrUserNotFound is returned by PlatformClient.FetchUserByUsername when
// the platform doesn't know the username (or it isn't an addressable
// account).
var ErrUserNotFound = errors.New("engine: user not found on platform")
