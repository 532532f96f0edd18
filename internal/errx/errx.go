// Package errx carries the error kinds surfaced by the tweet service.
//
// Invalid is what callers know as an invalid-argument failure: bad publish
// input or a discard of an unknown tweet. Unavailable marks storage failures
// that are passed through from the persistence layer untouched.
package errx

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	Unknown Kind = iota
	NotFound
	Invalid
	Unavailable
	Internal
)

var kindNames = [...]string{
	Unknown:     "Unknown",
	NotFound:    "NotFound",
	Invalid:     "Invalid",
	Unavailable: "Unavailable",
	Internal:    "Internal",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Error annotates an underlying error with the operation that failed and
// the kind of failure.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// E wraps err. It returns nil when err is nil so call sites can wrap
// unconditionally.
func E(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Op
	case e.Op == "":
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of the outermost *Error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// OpOf reports the operation of the outermost *Error in the chain.
func OpOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Cause strips every *Error layer and returns the first error that is not
// one. Handlers use it to show the original message without the op trail.
func Cause(err error) error {
	for {
		var e *Error
		if !errors.As(err, &e) || e.Err == nil {
			return err
		}
		err = e.Err
	}
}
