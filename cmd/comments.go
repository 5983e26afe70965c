package main

import (
	"net/http"

	"github.com/emerrafter1/nc-news/internal/filter"
	"github.com/emerrafter1/nc-news/models"
)

func (app *application) getComments(w http.ResponseWriter, r *http.Request) {
	articleID, err := app.readIDParam(r, "article_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	page, err := filter.ParsePage(r.URL.Query())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	comments, err := app.core.GetCommentsByArticleID(r.Context(), articleID, page)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) createComment(w http.ResponseWriter, r *http.Request) {
	articleID, err := app.readIDParam(r, "article_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	var input struct {
		Username *string `json:"username"`
		Body     *string `json:"body"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	comment, err := app.core.CreateComment(r.Context(), &models.NewComment{
		ArticleID: articleID,
		Author:    input.Username,
		Body:      input.Body,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) updateCommentVotes(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "comment_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	delta, err := app.readVotes(w, r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	comment, err := app.core.UpdateCommentVotes(r.Context(), id, delta)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"comment": comment}, nil); err != nil {
		app.errorResponse(w, r, err)
	}
}

func (app *application) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "comment_id")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.core.DeleteComment(r.Context(), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
