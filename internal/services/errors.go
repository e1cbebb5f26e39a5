package services

import "errors"

// ErrorKind classifies business failures so handlers can pick a status
// code without string-matching messages.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindAuthorization
	KindStateGuard
	KindConflict
	KindNotFound
	KindDependency
)

type ServiceError struct {
	Kind    ErrorKind
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func Validation(msg string) error    { return &ServiceError{Kind: KindValidation, Message: msg} }
func Authorization(msg string) error { return &ServiceError{Kind: KindAuthorization, Message: msg} }
func StateGuard(msg string) error    { return &ServiceError{Kind: KindStateGuard, Message: msg} }
func Conflict(msg string) error      { return &ServiceError{Kind: KindConflict, Message: msg} }
func NotFound(msg string) error      { return &ServiceError{Kind: KindNotFound, Message: msg} }
func Dependency(msg string) error    { return &ServiceError{Kind: KindDependency, Message: msg} }

// KindOf returns the kind of a service error, or KindDependency for
// anything else (store failures are never surfaced verbatim).
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindDependency
}

func IsKind(err error, kind ErrorKind) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == kind
}
