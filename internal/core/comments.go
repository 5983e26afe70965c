package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"

	"github.com/emerrafter1/nc-news/internal/apperror"
	"github.com/emerrafter1/nc-news/internal/filter"
	"github.com/emerrafter1/nc-news/internal/utils/databaseutils"
	"github.com/emerrafter1/nc-news/models"
)

const commentColumns = `comment_id, article_id, body, votes, author, created_at`

func scanComment(rows *sql.Rows) (*models.Comment, error) {
	var comment models.Comment
	if err := rows.Scan(&comment.ID, &comment.ArticleID, &comment.Body, &comment.Votes, &comment.Author, &comment.CreatedAt); err != nil {
		return nil, xerrors.New(err)
	}
	return &comment, nil
}

// GetCommentsByArticleID lists an article's comments, newest first. An empty
// page is only an error when the article itself does not exist.
func (c *Core) GetCommentsByArticleID(ctx context.Context, articleID int64, page filter.Page) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC, comment_id DESC`
	clause, args := page.Clause([]any{articleID})
	query += clause

	comments, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanComment, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	if len(comments) == 0 {
		if err := c.CheckExists(ctx, ArticleID, articleID); err != nil {
			return nil, err
		}
	}
	return comments, nil
}

// CreateComment inserts a comment. A missing article or author fails on the
// foreign keys, a missing body on the not-null constraint.
func (c *Core) CreateComment(ctx context.Context, comment *models.NewComment) (*models.Comment, error) {
	const query = `
		INSERT INTO comments (article_id, author, body)
		VALUES ($1, $2, $3)
		RETURNING ` + commentColumns

	created, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanComment,
		comment.ArticleID, comment.Author, comment.Body)
	if err != nil {
		return nil, xerrors.New(err)
	}

	c.log.Info("Comment created", "comment_id", created.ID, "article_id", created.ArticleID)
	return created, nil
}

// UpdateCommentVotes applies the same rule as UpdateArticleVotes.
func (c *Core) UpdateCommentVotes(ctx context.Context, id int64, delta int64) (*models.Comment, error) {
	const query = `
		UPDATE comments
		SET votes = votes + $1::INT
		WHERE comment_id = $2 AND NOT (votes = 0 AND $1::INT < 0)
		RETURNING ` + commentColumns

	comment, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanComment, delta, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, c.explainVoteRefusal(ctx, CommentID, id)
		}
		return nil, xerrors.New(err)
	}
	return comment, nil
}

func (c *Core) DeleteComment(ctx context.Context, id int64) error {
	const query = `DELETE FROM comments WHERE comment_id = $1`

	affected, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, id)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(apperror.NotFound)
	}

	c.log.Info("Comment deleted", "comment_id", id)
	return nil
}
