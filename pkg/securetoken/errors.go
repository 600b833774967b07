package securetoken

import "errors"

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenAlreadyUsed = errors.New("token already used")
	ErrUnknownKind      = errors.New("unknown token kind")
)
