package core

import (
	"errors"
	"fmt"
)

// AuthKind discriminates the expected authorization rejections. These are
// terminal for the request; retrying without new input will not help.
type AuthKind int

const (
	AuthTokenMissing AuthKind = iota + 1
	AuthOriginUnknown
	AuthTokenInvalid
	AuthTokenConsumed
	AuthTokenExpired
	AuthSessionInvalid
	AuthMissingDeviceID
	AuthForbidden
)

// AuthError is an expected authorization rejection.
type AuthError struct {
	Kind AuthKind
	msg  string
}

func (e *AuthError) Error() string { return e.msg }

var (
	ErrTokenMissing    = &AuthError{Kind: AuthTokenMissing, msg: "pairing token missing"}
	ErrOriginUnknown   = &AuthError{Kind: AuthOriginUnknown, msg: "client address unknown"}
	ErrTokenInvalid    = &AuthError{Kind: AuthTokenInvalid, msg: "pairing token invalid"}
	ErrTokenConsumed   = &AuthError{Kind: AuthTokenConsumed, msg: "pairing token already used"}
	ErrTokenExpired    = &AuthError{Kind: AuthTokenExpired, msg: "pairing token expired"}
	ErrSessionInvalid  = &AuthError{Kind: AuthSessionInvalid, msg: "session missing or expired"}
	ErrMissingDeviceID = &AuthError{Kind: AuthMissingDeviceID, msg: "device identifier missing"}
	ErrForbidden       = &AuthError{Kind: AuthForbidden, msg: "not allowed for this device"}
)

// ErrNotFound marks an unknown record id or a missing source file.
var ErrNotFound = errors.New("record not found")

// LimitExceededError reports an upload that streamed past the configured
// byte cap. The partial artifact has already been deleted when this is
// returned.
type LimitExceededError struct {
	Limit int64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("upload exceeds size limit of %d bytes", e.Limit)
}

// StorageError reports a history persistence failure. The in-memory side
// effect has been rolled back; nothing was committed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("history %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// IOError reports a filesystem failure (disk full, permissions, missing
// target directory) with its underlying cause.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is an authorization rejection and returns
// its kind when it is.
func IsAuthError(err error) (AuthKind, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
