/**
 * Copyright (c) 2026, The Selene Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package incr

import (
	"errors"
	"fmt"
	"strings"
)

// Op describes an operation of this package, usually the method reported in an error, such as
// "incr.ReadSource".
type Op string

// ErrKind classifies the failures the database itself can produce. Errors returned by
// memoized functions pass through the engine untouched and carry no ErrKind.
type ErrKind uint

const (
	// ErrKindOther is the default classification.
	ErrKindOther ErrKind = iota

	// ErrKindUnknownKey reports a read of a source slot that was never written.
	ErrKindUnknownKey

	// ErrKindTypeMismatch reports a stored value whose concrete type differs from the one the
	// caller asked for.
	ErrKindTypeMismatch

	// ErrKindCycle reports a memoized computation that transitively requested itself.
	ErrKindCycle
)

// String implements fmt.Stringer.
func (kind ErrKind) String() string {
	switch kind {
	case ErrKindOther:
		return "other error"
	case ErrKindUnknownKey:
		return "unknown source key"
	case ErrKindTypeMismatch:
		return "type mismatch"
	case ErrKindCycle:
		return "dependency cycle"
	}
	return "unknown error kind"
}

// Error is the concrete error type returned by Database operations.
type Error struct {
	// Op is the operation being performed.
	Op Op

	// Kind is the classification of the failure.
	Kind ErrKind

	// Message describes the failure.
	Message string

	// Err is the underlying error that triggered this one, if any.
	Err error
}

// NewError builds an *Error from a message followed by any of: an Op, an ErrKind and an
// underlying error. Arguments may appear in any order and a later value of a kind overwrites
// an earlier one.
func NewError(message string, args ...interface{}) error {
	e := &Error{Message: message}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case ErrKind:
			e.Kind = arg
		case error:
			e.Err = arg
		default:
			panic(fmt.Sprintf("incr.NewError: bad call with argument of type %T", arg))
		}
	}
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	var buf strings.Builder
	if e.Op != "" {
		buf.WriteString(string(e.Op))
		buf.WriteString(": ")
	}
	if e.Kind != ErrKindOther {
		buf.WriteString(e.Kind.String())
		buf.WriteString(": ")
	}
	buf.WriteString(e.Message)
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

// Unwrap supports errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrKind carried by err, or ErrKindOther when err did not come from this
// package.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindOther
}
