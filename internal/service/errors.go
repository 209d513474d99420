package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidID    = errors.New("conversation_id must be uuid hex (32 chars)")
	ErrInvalidUser  = errors.New("invalid user id")
	ErrInvalidRole  = errors.New("role must be system, user or assistant")
	ErrEmptyContent = errors.New("content must be non-empty")
)
