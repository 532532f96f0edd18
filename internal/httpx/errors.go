package httpx

import (
	"net/http"

	"github.com/sundayezeilo/tweets/internal/errx"
)

type kindMapping struct {
	status int
	code   string
}

var kindMappings = map[errx.Kind]kindMapping{
	errx.NotFound:    {http.StatusNotFound, "not_found"},
	errx.Invalid:     {http.StatusBadRequest, "invalid_input"},
	errx.Unavailable: {http.StatusServiceUnavailable, "unavailable"},
	errx.Internal:    {http.StatusInternalServerError, "internal_error"},
}

// ErrorKindToStatus maps an error kind to the HTTP status returned for it.
func ErrorKindToStatus(kind errx.Kind) int {
	if m, ok := kindMappings[kind]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// ErrorKindToCode maps an error kind to the `error` field of JSON responses.
func ErrorKindToCode(kind errx.Kind) string {
	if m, ok := kindMappings[kind]; ok {
		return m.code
	}
	return "internal_error"
}

// WriteKindError writes err using its kind. Invalid and NotFound errors
// expose their root message; anything else gets a generic one.
func WriteKindError(w http.ResponseWriter, err error) {
	kind := errx.KindOf(err)

	msg := "the request could not be completed, please try again"
	if kind == errx.Invalid || kind == errx.NotFound {
		msg = errx.Cause(err).Error()
	}
	WriteError(w, ErrorKindToStatus(kind), ErrorKindToCode(kind), msg, nil)
}
