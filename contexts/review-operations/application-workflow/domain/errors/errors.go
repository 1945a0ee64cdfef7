package domainerrors

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidVote         = errors.New("vote must be approve or reject")
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrEmptyComment        = errors.New("a comment is required")
	ErrInvalidApprovalType = errors.New("approval type must be discord or in_game")
	ErrIntakeDisabled      = errors.New("applications are currently closed")
	ErrForbidden           = errors.New("operation not permitted for this role")
	ErrViewingForbidden    = errors.New("no permission to view applications")
)
