package domain

import "errors"

var (
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrInvalidRow         = errors.New("invalid catalog row")
	ErrUnauthorized       = errors.New("unauthorized")
)
