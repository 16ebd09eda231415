package entity

import "errors"

var (
	ErrUnknownProduct  = errors.New("product not found in catalog")
	ErrInvalidPage     = errors.New("page out of range")
	ErrInvalidSortMode = errors.New("unknown sort mode")
)
