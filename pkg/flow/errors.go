package flow

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUnauthenticated    = errors.New("authenticated user required")
)
