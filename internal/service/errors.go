package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure. Handlers map kinds to HTTP status
// codes; everything else about the failure travels in Field and Detail.
type ErrorKind string

const (
	KindMissingField     ErrorKind = "missing_field"
	KindDuplicateValue   ErrorKind = "duplicate_value"
	KindInvalidField     ErrorKind = "invalid_field"
	KindUnknownReference ErrorKind = "unknown_reference"
	KindPermission       ErrorKind = "permission"
	KindConflict         ErrorKind = "conflict"
	KindNotFound         ErrorKind = "not_found"
)

// Error is a domain error with enough structure for the API layer to render
// a machine-readable body.
type Error struct {
	Kind   ErrorKind
	Field  string
	Detail string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func MissingField(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field, Detail: "field is required and must not be empty"}
}

func DuplicateValue(field string) *Error {
	return &Error{Kind: KindDuplicateValue, Field: field, Detail: "values must be unique"}
}

func InvalidField(field, detail string) *Error {
	return &Error{Kind: KindInvalidField, Field: field, Detail: detail}
}

func UnknownReference(field, id string) *Error {
	return &Error{Kind: KindUnknownReference, Field: field, Detail: fmt.Sprintf("%s does not exist", id)}
}

func PermissionDenied(detail string) *Error {
	return &Error{Kind: KindPermission, Detail: detail}
}

func Conflict(detail string) *Error {
	return &Error{Kind: KindConflict, Detail: detail}
}

func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// AsError unwraps err into a domain error, or nil.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return nil
}
