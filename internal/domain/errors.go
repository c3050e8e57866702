package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates missing or invalid Mini App init data.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation indicates a malformed or empty order request.
	ErrValidation = errors.New("validation failed")
	// ErrTransport indicates a failed call to the Telegram Bot API.
	ErrTransport = errors.New("transport error")
)
