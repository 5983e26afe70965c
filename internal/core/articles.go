package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
	"golang.org/x/sync/errgroup"

	"github.com/emerrafter1/nc-news/internal/apperror"
	"github.com/emerrafter1/nc-news/internal/filter"
	"github.com/emerrafter1/nc-news/internal/utils/databaseutils"
	"github.com/emerrafter1/nc-news/models"
)

const DefaultArticleImgURL = "https://images.pexels.com/photos/97050/pexels-photo-97050.jpeg?w=700&h=700"

// scanArticleSummary reads a row of the list query, which leaves out body.
func scanArticleSummary(rows *sql.Rows) (*models.Article, error) {
	var a models.Article
	if err := rows.Scan(&a.Author, &a.Title, &a.ID, &a.Topic, &a.CreatedAt, &a.Votes, &a.ImgURL, &a.CommentCount); err != nil {
		return nil, xerrors.New(err)
	}
	return &a, nil
}

func scanArticle(rows *sql.Rows) (*models.Article, error) {
	var a models.Article
	if err := rows.Scan(&a.Author, &a.Title, &a.ID, &a.Body, &a.Topic, &a.CreatedAt, &a.Votes, &a.ImgURL, &a.CommentCount); err != nil {
		return nil, xerrors.New(err)
	}
	return &a, nil
}

// GetArticles lists articles for f. When f names a topic, the topic's
// existence is checked alongside the list query; a missing topic is reported
// as not found whatever the list query returned.
func (c *Core) GetArticles(ctx context.Context, f filter.ArticleFilter) ([]*models.Article, error) {
	query, args := filter.BuildArticleListQuery(f)

	var (
		g        errgroup.Group
		articles []*models.Article
		topicErr error
	)

	g.Go(func() error {
		var err error
		articles, err = databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanArticleSummary, args...)
		return err
	})

	if f.Topic != nil {
		g.Go(func() error {
			topicErr = c.CheckExists(ctx, TopicSlug, *f.Topic)
			return nil
		})
	}

	err := g.Wait()
	if topicErr != nil {
		return nil, topicErr
	}
	if err != nil {
		return nil, xerrors.New(err)
	}
	return articles, nil
}

func (c *Core) GetArticleByID(ctx context.Context, id int64) (*models.Article, error) {
	const query = `
		SELECT articles.author, articles.title, articles.article_id, articles.body, articles.topic,
			articles.created_at, articles.votes, articles.article_img_url,
			CAST(COUNT(comments.comment_id) AS INT) AS comment_count
		FROM articles
		LEFT JOIN comments ON comments.article_id = articles.article_id
		WHERE articles.article_id = $1
		GROUP BY articles.article_id
	`

	article, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanArticle, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(apperror.NotFound)
		default:
			return nil, xerrors.New(err)
		}
	}
	return article, nil
}

// CreateArticle inserts an article, substituting DefaultArticleImgURL when no
// image is given. Unknown authors or topics fail on the foreign keys.
func (c *Core) CreateArticle(ctx context.Context, article *models.NewArticle) (*models.Article, error) {
	const query = `
		INSERT INTO articles (title, topic, author, body, article_img_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING author, title, article_id, body, topic, created_at, votes, article_img_url, 0
	`

	imgURL := article.ImgURL
	if imgURL == nil {
		defaultURL := DefaultArticleImgURL
		imgURL = &defaultURL
	}

	created, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanArticle,
		article.Title, article.Topic, article.Author, article.Body, imgURL)
	if err != nil {
		return nil, xerrors.New(err)
	}

	c.log.Info("Article created", "article_id", created.ID, "author", created.Author)
	return created, nil
}

// UpdateArticleVotes adds delta to the article's votes in one statement. A
// negative delta is refused when the votes are exactly zero.
func (c *Core) UpdateArticleVotes(ctx context.Context, id int64, delta int64) (*models.Article, error) {
	const query = `
		WITH updated AS (
			UPDATE articles
			SET votes = votes + $1::INT
			WHERE article_id = $2 AND NOT (votes = 0 AND $1::INT < 0)
			RETURNING *
		)
		SELECT updated.author, updated.title, updated.article_id, updated.body, updated.topic,
			updated.created_at, updated.votes, updated.article_img_url,
			CAST((SELECT COUNT(*) FROM comments WHERE comments.article_id = updated.article_id) AS INT)
		FROM updated
	`

	article, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanArticle, delta, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, c.explainVoteRefusal(ctx, ArticleID, id)
		}
		return nil, xerrors.New(err)
	}
	return article, nil
}

func (c *Core) DeleteArticle(ctx context.Context, id int64) error {
	const query = `DELETE FROM articles WHERE article_id = $1`

	affected, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, id)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(apperror.NotFound)
	}

	c.log.Info("Article deleted", "article_id", id)
	return nil
}

// explainVoteRefusal tells a missing row apart from the zero-votes guard
// after a guarded vote update matched nothing.
func (c *Core) explainVoteRefusal(ctx context.Context, ref Reference, id int64) error {
	if err := c.CheckExists(ctx, ref, id); err != nil {
		return err
	}
	return xerrors.Newf("%s %d has no votes to remove: %w", ref, id, apperror.BadRequest)
}
