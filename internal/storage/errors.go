package storage

import "errors"

// Common storage errors
var (
	// ErrNotFound indicates that a collection slot has never been written
	ErrNotFound = errors.New("collection not found")

	// ErrCredentialNotFound indicates that no admin credential has been set
	ErrCredentialNotFound = errors.New("admin credential not found")

	// ErrIdentityNotFound indicates that no giver identity has been saved
	ErrIdentityNotFound = errors.New("giver identity not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
