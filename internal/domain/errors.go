package domain

import "errors"

// ErrorKind classifies an operation failure. The HTTP layer maps each kind to
// exactly one status code.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindNotFound
	KindUnauthorized
	KindInternal
)

// Error is a tagged failure returned from every service operation. Lower-level
// storage or crypto errors never travel past the service layer as-is; they are
// wrapped so handlers only ever see a kind and a user-facing message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(message string) *Error   { return &Error{Kind: KindValidation, Message: message} }
func Conflict(message string) *Error     { return &Error{Kind: KindConflict, Message: message} }
func NotFound(message string) *Error     { return &Error{Kind: KindNotFound, Message: message} }
func Unauthorized(message string) *Error { return &Error{Kind: KindUnauthorized, Message: message} }
func Internal(message string) *Error     { return &Error{Kind: KindInternal, Message: message} }

// Kind extracts the error kind, defaulting to KindInternal for untagged errors.
func Kind(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return Kind(err) == kind
}
