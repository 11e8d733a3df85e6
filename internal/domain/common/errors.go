package common

import "errors"

var (
	ErrNotFound         = errors.New("requested item not found")
	ErrConflict         = errors.New("item already exists or conflict")
	ErrUnauthenticated  = errors.New("authentication required or invalid credentials")
	ErrBadRequest       = errors.New("bad request")
	ErrInvalidDirection = errors.New("invalid transaction direction")
	ErrInvalidAmount    = errors.New("invalid transaction amount")
)
