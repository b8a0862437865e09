package errors

import "fmt"

var (
	ErrDuplicateEmail     = fmt.Errorf("email already registered")
	ErrInvalidCredentials = fmt.Errorf("invalid login or password")
	ErrEmailNotConfirmed  = fmt.Errorf("email is not confirmed")
	ErrOrderNotFound      = fmt.Errorf("order not found")
	ErrInvalidTransition  = fmt.Errorf("invalid status transition")
	ErrTokenExpired       = fmt.Errorf("token expired")
	ErrTokenInvalid       = fmt.Errorf("token invalid")
	ErrMissingFile        = fmt.Errorf("photo file is missing")
	ErrForbiddenExtension = fmt.Errorf("file extension is not allowed")
)
