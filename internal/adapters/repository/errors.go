package repository

import "errors"

// Sentinel kinds for evaluation store errors.
var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidLimit = errors.New("invalid overview limit")
	ErrEmptyUserID  = errors.New("empty user id")
)
