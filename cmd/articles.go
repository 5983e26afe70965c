package main

import (
	"net/http"

	"github.com/emerrafter1/nc-news/internal/filter"
	"github.com/emerrafter1/nc-news/internal/validator"
	"github.com/emerrafter1/nc-news/models"
)

func (app *application) getArticles(w http.ResponseWriter, r *http.Request) {
	f, err := filter.ParseArticleFilter(r.URL.Query())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	articles, err := app.core.GetArticles(r.Context(), f)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"articles": articles}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) createArticle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Author *string `json:"author"`
		Title  *string `json:"title"`
		Body   *string `json:"body"`
		Topic  *string `json:"topic"`
		ImgURL *string `json:"article_img_url"`

		ImageURL *string `json:"image_url"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// image_url and article_img_url name the same field.
	v := validator.New()
	v.Check(input.ImgURL == nil || input.ImageURL == nil, "image_url", "must not be sent with article_img_url")
	if err := v.Err(); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if input.ImgURL == nil {
		input.ImgURL = input.ImageURL
	}

	article, err := app.core.CreateArticle(r.Context(), &models.NewArticle{
		Title:  input.Title,
		Topic:  input.Topic,
		Author: input.Author,
		Body:   input.Body,
		ImgURL: input.ImgURL,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"article": article}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) getArticle(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "article_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	article, err := app.core.GetArticleByID(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) updateArticleVotes(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "article_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	delta, err := app.readVotes(w, r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	article, err := app.core.UpdateArticleVotes(r.Context(), id, delta)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "article_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.core.DeleteArticle(r.Context(), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
