package apperrors

import "errors"

var (
	// ErrInvalidArgument marks a violated input precondition (empty required
	// string, malformed id). Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an operation disallowed by the entity's current
	// state, e.g. editing a deleted message.
	ErrInvalidState = errors.New("invalid state")

	// ErrParentNotFound marks a reply whose parent id is unknown at creation
	// time.
	ErrParentNotFound = errors.New("parent message not found")
)
