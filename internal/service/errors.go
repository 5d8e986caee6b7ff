package service

import "errors"

var (
	// ErrDuplicateEmail is returned when registering an email that is already taken.
	ErrDuplicateEmail = errors.New("email is already registered")
	// ErrInvalidCredentials is returned when no account matches the email and password.
	ErrInvalidCredentials = errors.New("invalid credentials: wrong email or password")
	// ErrInvalidInput is returned for blank required fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrListNotFound is returned when a list id is unknown in the namespace.
	ErrListNotFound = errors.New("shopping list not found")
	// ErrItemNotFound is returned when an item id is unknown in the list.
	ErrItemNotFound = errors.New("item not found")
)
