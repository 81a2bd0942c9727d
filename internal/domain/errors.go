package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrNotOwner              = errors.New("habit belongs to another user")
	ErrAlreadyCompletedToday = errors.New("habit already done today")
	ErrValidation            = errors.New("validation failed")
	ErrInsufficientResource  = errors.New("not enough xp")

	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
