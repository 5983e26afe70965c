package main

import (
	"net/http"

	"github.com/emerrafter1/nc-news/internal/validator"
	"github.com/emerrafter1/nc-news/models"
)

func (app *application) getTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := app.core.GetTopics(r.Context())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"topics": topics}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) createTopic(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Slug        *string `json:"slug"`
		Description *string `json:"description"`
		ImgURL      *string `json:"img_url"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// A missing slug is left to the primary key; a blank one is not a slug.
	v := validator.New()
	if input.Slug != nil {
		v.CheckNotBlank(*input.Slug, "slug", "must not be blank")
	}
	if err := v.Err(); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	topic, err := app.core.CreateTopic(r.Context(), &models.NewTopic{
		Slug:        input.Slug,
		Description: input.Description,
		ImgURL:      input.ImgURL,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"topic": topic}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}
