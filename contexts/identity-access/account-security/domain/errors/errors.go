package errors

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrWeakPassword       = errors.New("password does not meet strength requirements")
	ErrPasswordReused     = errors.New("password has been used recently")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountDisabled    = errors.New("account has been disabled")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrModeratorNotFound  = errors.New("moderator not found")
	ErrUnknownRole        = errors.New("unknown role")
	ErrInvalidStatus      = errors.New("status must be 'active' or 'disabled'")
	ErrForbidden          = errors.New("insufficient rank for this operation")
	ErrSelfModification   = errors.New("operation not permitted on own account")
	ErrLastAdmin          = errors.New("system must keep at least one admin")
	ErrResetTokenInvalid  = errors.New("password reset token is invalid")
	ErrResetTokenExpired  = errors.New("password reset token has expired")
)
