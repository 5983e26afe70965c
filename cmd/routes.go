package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	// An unmatched method answers like an unmatched path.
	router.HandleMethodNotAllowed = false
	router.NotFound = instrument(unmatchedRoute, http.HandlerFunc(app.notFoundResponse))

	handle := func(method, path string, handler http.HandlerFunc) {
		router.Handler(method, path, instrument(path, handler))
	}

	handle(http.MethodGet, "/api", app.getEndpoints)

	handle(http.MethodGet, "/api/topics", app.getTopics)
	handle(http.MethodPost, "/api/topics", app.createTopic)

	handle(http.MethodGet, "/api/articles", app.getArticles)
	handle(http.MethodPost, "/api/articles", app.createArticle)
	handle(http.MethodGet, "/api/articles/:article_id", app.getArticle)
	handle(http.MethodPatch, "/api/articles/:article_id", app.updateArticleVotes)
	handle(http.MethodDelete, "/api/articles/:article_id", app.deleteArticle)

	handle(http.MethodGet, "/api/articles/:article_id/comments", app.getComments)
	handle(http.MethodPost, "/api/articles/:article_id/comments", app.createComment)
	handle(http.MethodPatch, "/api/comments/:comment_id", app.updateCommentVotes)
	handle(http.MethodDelete, "/api/comments/:comment_id", app.deleteComment)

	handle(http.MethodGet, "/api/users", app.getUsers)
	handle(http.MethodGet, "/api/users/:username", app.getUser)

	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	return app.requestID(app.recoverPanic(app.logRequest(app.rateLimit(router))))
}
