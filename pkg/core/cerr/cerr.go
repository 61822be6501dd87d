// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr contains the core layer errors. Each Error wraps its
// cause, carries a Kind (so use cases and tests may distinguish the
// failure reason) and the HTTP status code which the adapter layer
// must report for it.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind int

// Supported error kinds. Each constructor of this package produces one
// of these kinds with its fixed HTTP status code.
const (
	KindUnknown Kind = iota

	KindBadRequest         // malformed request (400)
	KindNotFound           // missing entity (404)
	KindValidationConflict // aggregated field validation errors (409)
	KindIdentityMismatch   // path id is not equal to body id (409)
	KindConstraintConflict // violated FK/UC database constraint (409)
	KindInvalidState       // violated business rule (409)
	KindUnexpected         // anything else (500)
)

// String returns the Kind name.
func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	case KindNotFound:
		return "NotFound"
	case KindValidationConflict:
		return "ValidationConflict"
	case KindIdentityMismatch:
		return "IdentityMismatch"
	case KindConstraintConflict:
		return "ConstraintConflict"
	case KindInvalidState:
		return "InvalidState"
	case KindUnexpected:
		return "Unexpected"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a request terminating error. The Err message is reported
// to clients, so it must be free of internal details.
type Error struct {
	Err            error
	Kind           Kind
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

// Message returns the client visible message of e.
func (e *Error) Message() string {
	return e.Err.Error()
}

func BadRequest(err error) *Error {
	return &Error{Err: err, Kind: KindBadRequest, HTTPStatusCode: http.StatusBadRequest}
}

func NotFound(err error) *Error {
	return &Error{Err: err, Kind: KindNotFound, HTTPStatusCode: http.StatusNotFound}
}

func ValidationConflict(err error) *Error {
	return &Error{Err: err, Kind: KindValidationConflict, HTTPStatusCode: http.StatusConflict}
}

func IdentityMismatch(err error) *Error {
	return &Error{Err: err, Kind: KindIdentityMismatch, HTTPStatusCode: http.StatusConflict}
}

func ConstraintConflict(err error) *Error {
	return &Error{Err: err, Kind: KindConstraintConflict, HTTPStatusCode: http.StatusConflict}
}

func InvalidState(err error) *Error {
	return &Error{Err: err, Kind: KindInvalidState, HTTPStatusCode: http.StatusConflict}
}

// Unexpected wraps an internal error. Its message must not be reported
// to clients as is.
func Unexpected(err error) *Error {
	return &Error{Err: err, Kind: KindUnexpected, HTTPStatusCode: http.StatusInternalServerError}
}

// NotFoundf formats a NotFound error message.
func NotFoundf(format string, args ...any) *Error {
	return NotFound(fmt.Errorf(format, args...))
}

// InvalidStatef formats an InvalidState error message.
func InvalidStatef(format string, args ...any) *Error {
	return InvalidState(fmt.Errorf(format, args...))
}

// KindOf returns the Kind of the first *Error in the err chain.
// A nil err has KindUnknown and a non-nil err without any *Error in
// its chain is KindUnexpected.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnexpected
}

// Is reports if err chain contains an *Error with the k Kind.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
