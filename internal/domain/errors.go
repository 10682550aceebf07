package domain

import "errors"

var (
	// ErrEmptyAnswer is returned when a submission carries no answer; the
	// caller should re-prompt without advancing the session.
	ErrEmptyAnswer = errors.New("answer must not be empty")
	// ErrSessionCompleted is returned on any mutation of a finished session.
	ErrSessionCompleted = errors.New("quiz session already completed")
	// ErrConflict indicates the username or email is already taken.
	ErrConflict = errors.New("username or email already exists")
	// ErrInvalidCredentials covers both unknown username and wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound indicates a lookup for an account that does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSnapshotNotFound indicates a results snapshot file is absent.
	ErrSnapshotNotFound = errors.New("results snapshot not found")
)
