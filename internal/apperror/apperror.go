// Package apperror maps errors raised anywhere below the HTTP layer onto the
// status code and message sent to the client.
//
// Classification walks an ordered list of classifiers. Each one either claims
// the error and returns a Response, or passes it on to the next. Anything no
// classifier claims becomes a 500 whose detail is never sent to the client.
package apperror

import (
	"errors"
	"net/http"

	"github.com/lib/pq"
)

const (
	MsgBadRequest   = "Bad request"
	MsgNotFound     = "Not found"
	MsgServerError  = "Server Error"
	MsgPathNotFound = "path not found"

	MsgTooManyRequests = "Too many requests"
)

// Error is an application error raised deliberately with the status and
// message the client should see.
type Error struct {
	Status int
	Msg    string
}

func (e *Error) Error() string {
	return e.Msg
}

var (
	BadRequest   = &Error{Status: http.StatusBadRequest, Msg: MsgBadRequest}
	NotFound     = &Error{Status: http.StatusNotFound, Msg: MsgNotFound}
	PathNotFound = &Error{Status: http.StatusNotFound, Msg: MsgPathNotFound}

	TooManyRequests = &Error{Status: http.StatusTooManyRequests, Msg: MsgTooManyRequests}
)

// Response is the terminal outcome of classification.
type Response struct {
	Status int
	Msg    string
}

// Classifier claims an error by returning ok == true.
type Classifier func(err error) (resp Response, ok bool)

// Storage error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeInvalidTextRepresentation pq.ErrorCode = "22P02"
	codeNumericValueOutOfRange    pq.ErrorCode = "22003"
	codeCharacterNotInRepertoire  pq.ErrorCode = "22021"
	codeNotNullViolation          pq.ErrorCode = "23502"
	codeForeignKeyViolation       pq.ErrorCode = "23503"
	codeUniqueViolation           pq.ErrorCode = "23505"
)

var storageCodes = map[pq.ErrorCode]Response{
	codeInvalidTextRepresentation: {Status: http.StatusBadRequest, Msg: MsgBadRequest},
	codeNumericValueOutOfRange:    {Status: http.StatusBadRequest, Msg: MsgBadRequest},
	codeCharacterNotInRepertoire:  {Status: http.StatusBadRequest, Msg: MsgBadRequest},
	codeNotNullViolation:          {Status: http.StatusBadRequest, Msg: MsgBadRequest},
	codeUniqueViolation:           {Status: http.StatusBadRequest, Msg: MsgBadRequest},
	codeForeignKeyViolation:       {Status: http.StatusNotFound, Msg: MsgNotFound},
}

// chain is consulted in order; the fallback is applied by Classify.
var chain = []Classifier{
	classifyStorage,
	classifyApplication,
}

// Classify returns the response for err. A nil error is a programming
// mistake and is treated like any other unclassified error.
func Classify(err error) Response {
	for _, classify := range chain {
		if resp, ok := classify(err); ok {
			return resp
		}
	}
	return Response{Status: http.StatusInternalServerError, Msg: MsgServerError}
}

func classifyStorage(err error) (Response, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return Response{}, false
	}
	resp, ok := storageCodes[pqErr.Code]
	return resp, ok
}

func classifyApplication(err error) (Response, bool) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return Response{}, false
	}
	return Response{Status: appErr.Status, Msg: appErr.Msg}, true
}
