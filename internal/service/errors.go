package service

import "errors"

// Domain errors. Handlers map them to status codes with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTaskNotFound       = errors.New("task not found")
)
