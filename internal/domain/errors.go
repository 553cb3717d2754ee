package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when an update or delete matched no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by stores when a uniqueness constraint is violated.
var ErrDuplicate = errors.New("duplicate")

type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindUnauthorized
	KindNotFound
	KindConflict
)

// Error is a failure carrying a message fit for display to the user. The
// underlying cause, if any, is kept for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Invalid(msg string) error { return &Error{Kind: KindInvalid, Message: msg} }

func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

// Failed wraps a backend error behind a generic display message.
func Failed(msg string, err error) error { return &Error{Kind: KindInternal, Message: msg, Err: err} }

const genericMessage = "Something went wrong. Please try again."

// MessageOf returns the display message for err.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return genericMessage
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
