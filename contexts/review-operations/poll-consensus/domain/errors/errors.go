package domainerrors

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrPollNotFound       = errors.New("poll not found")
	ErrPollClosed         = errors.New("poll is not active")
	ErrAlreadyVoted       = errors.New("already voted on this poll")
	ErrInvalidOption      = errors.New("invalid option")
	ErrInvalidOptionCount = errors.New("poll must have between 2 and 6 options")
	ErrTooManyActivePolls = errors.New("maximum number of active polls reached")
	ErrForbidden          = errors.New("operation not permitted for this role")
)
