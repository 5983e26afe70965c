package core

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"

	"github.com/emerrafter1/nc-news/internal/utils/databaseutils"
	"github.com/emerrafter1/nc-news/models"
)

func scanTopic(rows *sql.Rows) (*models.Topic, error) {
	var topic models.Topic
	if err := rows.Scan(&topic.Slug, &topic.Description, &topic.ImgURL); err != nil {
		return nil, xerrors.New(err)
	}
	return &topic, nil
}

func (c *Core) GetTopics(ctx context.Context) ([]*models.Topic, error) {
	const query = `SELECT slug, description, img_url FROM topics ORDER BY slug`

	topics, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanTopic)
	if err != nil {
		return nil, xerrors.New(err)
	}
	return topics, nil
}

// CreateTopic inserts a topic. A duplicate or missing slug surfaces as the
// storage constraint error.
func (c *Core) CreateTopic(ctx context.Context, topic *models.NewTopic) (*models.Topic, error) {
	const query = `
		INSERT INTO topics (slug, description, img_url)
		VALUES ($1, $2, $3)
		RETURNING slug, description, img_url
	`

	created, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanTopic,
		topic.Slug, topic.Description, topic.ImgURL)
	if err != nil {
		return nil, xerrors.New(err)
	}

	c.log.Info("Topic created", "slug", created.Slug)
	return created, nil
}
