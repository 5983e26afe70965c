package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emerrafter1/nc-news/internal/config"
	"github.com/emerrafter1/nc-news/internal/core"
	"github.com/emerrafter1/nc-news/internal/utils/databaseutils"
)

var (
	articleColumns = []string{"author", "title", "article_id", "body", "topic", "created_at", "votes", "article_img_url", "comment_count"}
	commentColumns = []string{"comment_id", "article_id", "body", "votes", "author", "created_at"}

	createdAt = time.Date(2020, 10, 16, 5, 3, 0, 0, time.UTC)
)

func newTestApplication(t *testing.T) (*application, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	logger := slog.New(slog.DiscardHandler)
	return &application{
		config: &config.Config{Env: "test"},
		logger: logger,
		core:   core.NewCore(logger, databaseutils.NewSQLTemplate(db, time.Second)),
	}, mock
}

func serve(t *testing.T, app *application, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, req)
	return rec
}

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Msg
}

func TestGetEndpoints(t *testing.T) {
	app, _ := newTestApplication(t)

	rec := serve(t, app, http.MethodGet, "/api", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Endpoints map[string]any `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	var want map[string]any
	require.NoError(t, json.Unmarshal(endpointsJSON, &want))
	assert.Equal(t, want, body.Endpoints)
	assert.Contains(t, body.Endpoints, "GET /api/articles")
}

func TestUnmatchedRoutes(t *testing.T) {
	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/notapath"},
		{http.MethodDelete, "/api/topics"},
		{http.MethodPut, "/api/articles/1"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			app, _ := newTestApplication(t)

			rec := serve(t, app, tt.method, tt.target, "")

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "path not found", decodeMsg(t, rec))
		})
	}
}

func TestGetTopics(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectQuery(`FROM topics`).
		WillReturnRows(sqlmock.NewRows([]string{"slug", "description", "img_url"}).
			AddRow("cats", "Not dogs", "").
			AddRow("mitch", "The man, the Mitch, the legend", ""))

	rec := serve(t, app, http.MethodGet, "/api/topics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Topics []map[string]any `json:"topics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Topics, 2)
	assert.Equal(t, "cats", body.Topics[0]["slug"])
}

func TestCreateTopic_BlankSlug(t *testing.T) {
	app, _ := newTestApplication(t)

	rec := serve(t, app, http.MethodPost, "/api/topics", `{"slug": "  ", "description": "blank"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bad request", decodeMsg(t, rec))
}

func TestCreateTopic_Duplicate(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectQuery(`INSERT INTO topics`).
		WithArgs("mitch", "again", nil).
		WillReturnError(&pq.Error{Code: "23505"})

	rec := serve(t, app, http.MethodPost, "/api/topics", `{"slug": "mitch", "description": "again"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetArticle(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectQuery(`FROM articles`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow("icellusedkars", "Z", int64(7), "I was hungry.", "mitch", createdAt, int64(0), core.DefaultArticleImgURL, int64(0)))

	rec := serve(t, app, http.MethodGet, "/api/articles/7", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Article map[string]any `json:"article"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 7, body.Article["article_id"])
	assert.Equal(t, "I was hungry.", body.Article["body"])
	assert.EqualValues(t, 0, body.Article["comment_count"])
}

func TestGetArticle_Errors(t *testing.T) {
	t.Run("non-numeric id", func(t *testing.T) {
		app, _ := newTestApplication(t)

		rec := serve(t, app, http.MethodGet, "/api/articles/banana", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Bad request", decodeMsg(t, rec))
	})

	t.Run("unknown id", func(t *testing.T) {
		app, mock := newTestApplication(t)
		mock.ExpectQuery(`FROM articles`).WithArgs(int64(799)).WillReturnRows(sqlmock.NewRows(articleColumns))

		rec := serve(t, app, http.MethodGet, "/api/articles/799", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Not found", decodeMsg(t, rec))
	})

	t.Run("storage failure hides detail", func(t *testing.T) {
		app, mock := newTestApplication(t)
		mock.ExpectQuery(`FROM articles`).WithArgs(int64(1)).WillReturnError(errors.New("connection refused"))

		rec := serve(t, app, http.MethodGet, "/api/articles/1", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Server Error", decodeMsg(t, rec))
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestGetArticles_RejectsQueryBeforeStorage(t *testing.T) {
	targets := []string{
		"/api/articles?sort_by=bogus",
		"/api/articles?order=sideways",
		"/api/articles?limit=ten",
		"/api/articles?page=1",
	}

	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			app, _ := newTestApplication(t)

			rec := serve(t, app, http.MethodGet, target, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Bad request", decodeMsg(t, rec))
		})
	}
}

func TestGetArticles_UnknownTopic(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE articles.topic = $1`)).
		WithArgs("dogs").
		WillReturnRows(sqlmock.NewRows([]string{"author", "title", "article_id", "topic", "created_at", "votes", "article_img_url", "comment_count"}))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("dogs").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	rec := serve(t, app, http.MethodGet, "/api/articles?topic=dogs", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateArticle_DefaultImage(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectQuery(`INSERT INTO articles`).
		WithArgs("A title", "mitch", "lurker", "Some words", core.DefaultArticleImgURL).
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow("lurker", "A title", int64(14), "Some words", "mitch", createdAt, int64(0), core.DefaultArticleImgURL, int64(0)))

	rec := serve(t, app, http.MethodPost, "/api/articles",
		`{"author": "lurker", "title": "A title", "body": "Some words", "topic": "mitch"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Article map[string]any `json:"article"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, core.DefaultArticleImgURL, body.Article["article_img_url"])
	assert.EqualValues(t, 0, body.Article["comment_count"])
}

func TestCreateArticle_ImageURLNames(t *testing.T) {
	for _, field := range []string{"image_url", "article_img_url"} {
		t.Run(field, func(t *testing.T) {
			app, mock := newTestApplication(t)
			imgURL := "https://example.com/x.png"
			mock.ExpectQuery(`INSERT INTO articles`).
				WithArgs("A title", "mitch", "lurker", "Some words", imgURL).
				WillReturnRows(sqlmock.NewRows(articleColumns).
					AddRow("lurker", "A title", int64(14), "Some words", "mitch", createdAt, int64(0), imgURL, int64(0)))

			rec := serve(t, app, http.MethodPost, "/api/articles",
				`{"author": "lurker", "title": "A title", "body": "Some words", "topic": "mitch", "`+field+`": "`+imgURL+`"}`)

			require.Equal(t, http.StatusCreated, rec.Code)
			var body struct {
				Article map[string]any `json:"article"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, imgURL, body.Article["article_img_url"])
		})
	}
}

func TestCreateArticle_BothImageURLNames(t *testing.T) {
	app, _ := newTestApplication(t)

	rec := serve(t, app, http.MethodPost, "/api/articles",
		`{"author": "lurker", "title": "A title", "body": "Some words", "topic": "mitch", "image_url": "a", "article_img_url": "b"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bad request", decodeMsg(t, rec))
}

func TestCreateArticle_UnknownField(t *testing.T) {
	app, _ := newTestApplication(t)

	rec := serve(t, app, http.MethodPost, "/api/articles", `{"author": "lurker", "tags": ["x"]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateArticleVotes(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectQuery(`UPDATE articles`).
		WithArgs(int64(10), int64(2)).
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow("icellusedkars", "Sony Vaio; or, The Laptop", int64(2), "Call me Mitchell. Some years ago..", "mitch", createdAt, int64(10), core.DefaultArticleImgURL, int64(0)))

	rec := serve(t, app, http.MethodPatch, "/api/articles/2", `{"inc_votes": 10}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Article map[string]any `json:"article"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 10, body.Article["votes"])
}

func TestUpdateArticleVotes_BadBody(t *testing.T) {
	bodies := map[string]string{
		"not an integer": `{"inc_votes": "cheese"}`,
		"fractional":     `{"inc_votes": 1.5}`,
		"missing":        `{}`,
		"empty":          ``,
		"unknown field":  `{"inc_votes": 1, "extra": true}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			app, _ := newTestApplication(t)

			rec := serve(t, app, http.MethodPatch, "/api/articles/7", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Bad request", decodeMsg(t, rec))
		})
	}
}

func TestUpdateArticleVotes_ZeroVotesGuard(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectQuery(`UPDATE articles`).
		WithArgs(int64(-40), int64(3)).
		WillReturnRows(sqlmock.NewRows(articleColumns))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rec := serve(t, app, http.MethodPatch, "/api/articles/3", `{"inc_votes": -40}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateArticleVotes_NotFound(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectQuery(`UPDATE articles`).
		WithArgs(int64(10), int64(799)).
		WillReturnRows(sqlmock.NewRows(articleColumns))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(int64(799)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	rec := serve(t, app, http.MethodPatch, "/api/articles/799", `{"inc_votes": 10}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteArticle(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectExec(`DELETE FROM articles`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))

	rec := serve(t, app, http.MethodDelete, "/api/articles/1", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetComments_EmptyForExistingArticle(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectQuery(`FROM comments`).WithArgs(int64(8)).WillReturnRows(sqlmock.NewRows(commentColumns))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rec := serve(t, app, http.MethodGet, "/api/articles/8/comments", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"comments": []}`, rec.Body.String())
}

func TestGetComments_Paged(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $2 OFFSET $3`)).
		WithArgs(int64(1), int64(5), int64(5)).
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow(int64(9), int64(1), "Superficially charming", int64(0), "icellusedkars", createdAt))

	rec := serve(t, app, http.MethodGet, "/api/articles/1/comments?limit=5&page=1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Comments []map[string]any `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Comments, 1)
	assert.EqualValues(t, 9, body.Comments[0]["comment_id"])
}

func TestCreateComment_StorageErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		code       pq.ErrorCode
		wantStatus int
	}{
		{"unknown user", `{"username": "tester123", "body": "Interesting"}`, "23503", http.StatusNotFound},
		{"null body", `{"username": "icellusedkars", "body": null}`, "23502", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, mock := newTestApplication(t)
			mock.ExpectQuery(`INSERT INTO comments`).WillReturnError(&pq.Error{Code: tt.code})

			rec := serve(t, app, http.MethodPost, "/api/articles/11/comments", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCreateComment(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectQuery(`INSERT INTO comments`).
		WithArgs(int64(4), "icellusedkars", "I loved learning about this").
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow(int64(19), int64(4), "I loved learning about this", int64(0), "icellusedkars", time.Now()))

	rec := serve(t, app, http.MethodPost, "/api/articles/4/comments",
		`{"username": "icellusedkars", "body": "I loved learning about this"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Comment map[string]any `json:"comment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 19, body.Comment["comment_id"])
	assert.Equal(t, "icellusedkars", body.Comment["author"])
}

func TestUpdateCommentVotes(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectQuery(`UPDATE comments`).
		WithArgs(int64(1), int64(1)).
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow(int64(1), int64(9), "Oh, I've got compassion", int64(17), "butter_bridge", createdAt))

	rec := serve(t, app, http.MethodPatch, "/api/comments/1", `{"inc_votes": 1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"votes": 17`)
}

func TestDeleteComment(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		app, mock := newTestApplication(t)
		mock.ExpectExec(`DELETE FROM comments`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))

		rec := serve(t, app, http.MethodDelete, "/api/comments/1", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown", func(t *testing.T) {
		app, mock := newTestApplication(t)
		mock.ExpectExec(`DELETE FROM comments`).WithArgs(int64(999)).WillReturnResult(sqlmock.NewResult(0, 0))

		rec := serve(t, app, http.MethodDelete, "/api/comments/999", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("out of range id", func(t *testing.T) {
		app, mock := newTestApplication(t)
		mock.ExpectExec(`DELETE FROM comments`).WillReturnError(&pq.Error{Code: "22003"})

		rec := serve(t, app, http.MethodDelete, "/api/comments/9999999999", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		app, mock := newTestApplication(t)
		mock.ExpectQuery(`FROM users`).WithArgs("lurker").
			WillReturnRows(sqlmock.NewRows([]string{"username", "name", "avatar_url"}).
				AddRow("lurker", "do_nothing", "https://www.golenbock.com/wp-content/uploads/2015/01/placeholder-user.png"))

		rec := serve(t, app, http.MethodGet, "/api/users/lurker", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"username": "lurker"`)
	})

	t.Run("unknown", func(t *testing.T) {
		app, mock := newTestApplication(t)
		mock.ExpectQuery(`FROM users`).WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"username", "name", "avatar_url"}))

		rec := serve(t, app, http.MethodGet, "/api/users/nobody", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRecoverPanic(t *testing.T) {
	app, _ := newTestApplication(t)
	handler := app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/topics", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
	assert.Equal(t, "Server Error", decodeMsg(t, rec))
}

func TestRequestID(t *testing.T) {
	app, _ := newTestApplication(t)

	rec := serve(t, app, http.MethodGet, "/api", "")
	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err, "generated id")

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set(requestIDHeader, incoming)
	rec = httptest.NewRecorder()
	app.routes().ServeHTTP(rec, req)
	assert.Equal(t, incoming, rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	app.routes().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(requestIDHeader))
}

func TestMetrics(t *testing.T) {
	app, _ := newTestApplication(t)
	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api", "200"))
	beforeUnmatched := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, unmatchedRoute, "404"))

	serve(t, app, http.MethodGet, "/api", "")
	serve(t, app, http.MethodGet, "/notapath", "")

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api", "200")))
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, unmatchedRoute, "404")))

	rec := serve(t, app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
