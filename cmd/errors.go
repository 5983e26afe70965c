package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mdobak/go-xerrors"

	"github.com/emerrafter1/nc-news/internal/apperror"
	"github.com/emerrafter1/nc-news/internal/validator"
	"github.com/emerrafter1/nc-news/internal/web"
)

type envelope map[string]any

// errorResponse classifies err and writes the matching {"msg": ...} body.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.writeError(w, r, apperror.Classify(err), err)
}

// badRequestResponse answers 400 whatever err wraps. It is used for request
// bodies that could not be decoded.
func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.writeError(w, r, apperror.Classify(apperror.BadRequest), err)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, xerrors.Newf("%s %s: %w", r.Method, r.URL.Path, apperror.PathNotFound))
}

func (app *application) writeError(w http.ResponseWriter, r *http.Request, resp apperror.Response, err error) {
	attrs := []slog.Attr{
		slog.String("request_id", web.RequestID(r)),
		slog.String("request_url", r.URL.String()),
		slog.String("request_method", r.Method),
		slog.Int("status", resp.Status),
	}

	level := slog.LevelWarn
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var validationErr *validator.Error
		if errors.As(err, &validationErr) {
			for key, message := range validationErr.Fields {
				attrs = append(attrs, slog.String(key, message))
			}
		}

		if resp.Status >= http.StatusInternalServerError {
			level = slog.LevelError
			attrs = append(attrs, slog.String("stack", xerrors.Sprint(err)))
		}
	}

	app.logger.LogAttrs(r.Context(), level, "Error handling request", attrs...)

	if err := app.writeJSON(w, resp.Status, envelope{"msg": resp.Msg}, nil); err != nil {
		app.logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return xerrors.New(err)
	}

	// Append a newline to make it easier to view in terminal applications.
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		return xerrors.New(err)
	}

	return nil
}
