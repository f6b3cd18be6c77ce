package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountNotFound is returned on login when no account matches the identifier
	ErrAccountNotFound = errors.New("no account matches the given identifier")

	// ErrInvalidCredentials is returned on login when the password does not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive is returned when a deactivated account tries to authenticate
	ErrAccountInactive = errors.New("account is deactivated")

	// ErrDuplicateUser is returned when the username or email is already registered
	ErrDuplicateUser = errors.New("username or email already registered")

	// ErrInvalidIDNumber is returned when a lead's national ID number fails validation
	ErrInvalidIDNumber = errors.New("invalid ID number")

	// ErrInvalidCellNumber is returned when a lead's cell number fails validation
	ErrInvalidCellNumber = errors.New("invalid cell number")

	// ErrUnknownService is returned when a lead references a service ID not in the catalog
	ErrUnknownService = errors.New("unknown service")

	// ErrAssigneeInactive is returned when reassigning a lead to a deactivated account
	ErrAssigneeInactive = errors.New("assignee is deactivated")
)
