package services

import "errors"

var (
	// ErrInvalidInput is returned when a required input is missing or blank
	ErrInvalidInput = errors.New("invalid input")

	// ErrNameTaken is returned when another user already holds the name
	ErrNameTaken = errors.New("name already exists")

	// ErrUserNotFound is returned when no user has the requested ID
	ErrUserNotFound = errors.New("user not found")
)
