package service

import "errors"

var (
	// ErrDuplicateUsername is returned when registering an already taken name.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrNotFound indicates an unknown username, user id, or post id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidArgument indicates a missing or unusable required field.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated indicates a token that resolves to no user.
	ErrUnauthenticated = errors.New("not authenticated")
)
