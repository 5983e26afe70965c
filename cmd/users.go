package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) getUsers(w http.ResponseWriter, r *http.Request) {
	users, err := app.core.GetUsers(r.Context())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"users": users}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) getUser(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	user, err := app.core.GetUserByUsername(r.Context(), username)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}
