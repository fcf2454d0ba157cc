package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrUnmounted      = errors.New("view unmounted")
	ErrSessionExpired = errors.New("session expired")
)
