package scan

import "errors"

var (
	// ErrAlreadyRunning is returned by Start while another session is active.
	ErrAlreadyRunning = errors.New("scan already running")

	// ErrInvalidRequest is returned by Start for requests that fail validation.
	ErrInvalidRequest = errors.New("invalid scan request")

	// ErrRootNotFound fails a session whose root does not exist.
	ErrRootNotFound = errors.New("scan root not found")

	// ErrRootUnreadable fails a session whose root cannot be stat'ed or listed.
	ErrRootUnreadable = errors.New("scan root unreadable")

	// ErrRootNotDirectory fails a session whose root is not a directory.
	ErrRootNotDirectory = errors.New("scan root is not a directory")
)
