package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/mdobak/go-xerrors"

	"github.com/emerrafter1/nc-news/internal/apperror"
	"github.com/emerrafter1/nc-news/internal/validator"
)

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	const maxBytes = 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {

		var (
			syntaxError           *json.SyntaxError
			unmarshalTypeError    *json.UnmarshalTypeError
			invalidUnmarshalError *json.InvalidUnmarshalError
			maxBytesError         *http.MaxBytesError
		)

		switch {
		case errors.As(err, &syntaxError):
			return xerrors.Newf("body contains badly-formed JSON at (character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return xerrors.Newf("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return xerrors.Newf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return xerrors.Newf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return xerrors.Newf("body must not be empty")

		case errors.As(err, &maxBytesError):
			return xerrors.Newf("body must not be larger than %d bytes", maxBytes)

		case errors.As(err, &invalidUnmarshalError):
			return xerrors.Newf("programmer error: invalid unmarshal target: %w", err)

		default:
			return xerrors.Newf("error decoding JSON: %w", err)
		}
	}

	if err := decoder.Decode(&struct{}{}); err != nil && !errors.Is(err, io.EOF) {
		return xerrors.Newf("body must contain only a single JSON value")
	}

	return nil
}

// readIDParam parses the named path parameter as a row id.
func (app *application) readIDParam(r *http.Request, name string) (int64, error) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName(name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, xerrors.Newf("invalid %s %q: %w", name, raw, apperror.BadRequest)
	}
	return id, nil
}

// readVotes decodes an {"inc_votes": n} body. inc_votes must be present and
// an integer.
func (app *application) readVotes(w http.ResponseWriter, r *http.Request) (int64, error) {
	var input struct {
		IncVotes *int64 `json:"inc_votes"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		return 0, xerrors.Newf("%v: %w", err, apperror.BadRequest)
	}

	v := validator.New()
	v.Check(input.IncVotes != nil, "inc_votes", "must be provided")
	if err := v.Err(); err != nil {
		return 0, err
	}
	return *input.IncVotes, nil
}
