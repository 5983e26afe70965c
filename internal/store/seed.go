package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mdobak/go-xerrors"

	"github.com/emerrafter1/nc-news/internal/utils/collectionutils"
	"github.com/emerrafter1/nc-news/internal/utils/databaseutils"
	"github.com/emerrafter1/nc-news/internal/utils/functional"
	"github.com/emerrafter1/nc-news/internal/utils/stringutils"
)

//go:embed data/test/*.json
var testData embed.FS

// SeedTopic, SeedUser, SeedArticle and SeedComment mirror the JSON files under
// data/. Timestamps are epoch milliseconds; comments name their article by
// title.
type SeedTopic struct {
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ImgURL      *string `json:"img_url"`
}

type SeedUser struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type SeedArticle struct {
	Title     string  `json:"title"`
	Topic     string  `json:"topic"`
	Author    string  `json:"author"`
	Body      string  `json:"body"`
	CreatedAt *int64  `json:"created_at"`
	Votes     int64   `json:"votes"`
	ImgURL    *string `json:"article_img_url"`
}

type SeedComment struct {
	ArticleTitle string  `json:"article_title"`
	Body         string  `json:"body"`
	Votes        int64   `json:"votes"`
	Author       *string `json:"author"`
	CreatedAt    *int64  `json:"created_at"`
}

type Data struct {
	Topics   []SeedTopic
	Users    []SeedUser
	Articles []SeedArticle
	Comments []SeedComment
}

// LoadTestData decodes the embedded test dataset.
func LoadTestData() (*Data, error) {
	data := &Data{}
	files := []struct {
		name string
		dst  any
	}{
		{"data/test/topics.json", &data.Topics},
		{"data/test/users.json", &data.Users},
		{"data/test/articles.json", &data.Articles},
		{"data/test/comments.json", &data.Comments},
	}

	for _, f := range files {
		raw, err := testData.ReadFile(f.name)
		if err != nil {
			return nil, xerrors.Newf("reading %s: %w", f.name, err)
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, xerrors.Newf("decoding %s: %w", f.name, err)
		}
	}
	return data, nil
}

// ConvertTimestamp turns epoch milliseconds into a UTC time. A missing
// timestamp becomes now.
func ConvertTimestamp(millis *int64) time.Time {
	if millis == nil {
		return time.Now().UTC()
	}
	return time.UnixMilli(*millis).UTC()
}

type Seeder struct {
	log         *slog.Logger
	sqlTemplate *databaseutils.SQLTemplate
	session     databaseutils.Session
}

func NewSeeder(log *slog.Logger, sqlTemplate *databaseutils.SQLTemplate, session databaseutils.Session) *Seeder {
	return &Seeder{
		log:         log,
		sqlTemplate: sqlTemplate,
		session:     session,
	}
}

// Seed empties every table, resets the id sequences and inserts data, all in
// one transaction.
func (s *Seeder) Seed(ctx context.Context, data *Data) error {
	err := s.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		const truncate = `TRUNCATE comments, articles, users, topics RESTART IDENTITY CASCADE`
		if _, err := databaseutils.ExecuteUpdate(s.sqlTemplate, txCtx, truncate); err != nil {
			return err
		}

		if err := s.insertTopics(txCtx, data.Topics); err != nil {
			return err
		}
		if err := s.insertUsers(txCtx, data.Users); err != nil {
			return err
		}

		articleIDs, err := s.insertArticles(txCtx, data.Articles)
		if err != nil {
			return err
		}
		return s.insertComments(txCtx, data.Comments, articleIDs)
	})
	if err != nil {
		return xerrors.Newf("seeding database: %w", err)
	}

	s.log.Info("Database seeded",
		"topics", len(data.Topics),
		"users", len(data.Users),
		"articles", len(data.Articles),
		"comments", len(data.Comments))
	return nil
}

func (s *Seeder) insertTopics(ctx context.Context, topics []SeedTopic) error {
	if len(topics) == 0 {
		return nil
	}
	query := `INSERT INTO topics (slug, description, img_url) VALUES ` + stringutils.ValuesClause(len(topics), 3)
	args := functional.FlatMap(topics, func(t SeedTopic) []any {
		return []any{t.Slug, t.Description, t.ImgURL}
	})

	_, err := databaseutils.ExecuteUpdate(s.sqlTemplate, ctx, query, args...)
	return err
}

func (s *Seeder) insertUsers(ctx context.Context, users []SeedUser) error {
	if len(users) == 0 {
		return nil
	}
	query := `INSERT INTO users (username, name, avatar_url) VALUES ` + stringutils.ValuesClause(len(users), 3)
	args := functional.FlatMap(users, func(u SeedUser) []any {
		return []any{u.Username, u.Name, u.AvatarURL}
	})

	_, err := databaseutils.ExecuteUpdate(s.sqlTemplate, ctx, query, args...)
	return err
}

type insertedArticle struct {
	id    int64
	title string
}

// insertArticles returns the generated article ids keyed by title.
func (s *Seeder) insertArticles(ctx context.Context, articles []SeedArticle) (map[string]int64, error) {
	if len(articles) == 0 {
		return map[string]int64{}, nil
	}
	query := `INSERT INTO articles (title, topic, author, body, created_at, votes, article_img_url) VALUES ` +
		stringutils.ValuesClause(len(articles), 7) +
		` RETURNING article_id, title`
	args := functional.FlatMap(articles, func(a SeedArticle) []any {
		return []any{a.Title, a.Topic, a.Author, a.Body, ConvertTimestamp(a.CreatedAt), a.Votes, a.ImgURL}
	})

	inserted, err := databaseutils.ExecuteQuery(s.sqlTemplate, ctx, query, func(rows *sql.Rows) (insertedArticle, error) {
		var a insertedArticle
		if err := rows.Scan(&a.id, &a.title); err != nil {
			return a, xerrors.New(err)
		}
		return a, nil
	}, args...)
	if err != nil {
		return nil, err
	}

	return collectionutils.Associate(inserted, func(a insertedArticle) (string, int64) {
		return a.title, a.id
	}), nil
}

func (s *Seeder) insertComments(ctx context.Context, comments []SeedComment, articleIDs map[string]int64) error {
	if len(comments) == 0 {
		return nil
	}
	for _, c := range comments {
		if _, ok := articleIDs[c.ArticleTitle]; !ok {
			return xerrors.Newf("comment refers to unknown article %q", c.ArticleTitle)
		}
	}

	query := `INSERT INTO comments (article_id, body, votes, author, created_at) VALUES ` + stringutils.ValuesClause(len(comments), 5)
	args := functional.FlatMap(comments, func(c SeedComment) []any {
		return []any{articleIDs[c.ArticleTitle], c.Body, c.Votes, c.Author, ConvertTimestamp(c.CreatedAt)}
	})

	_, err := databaseutils.ExecuteUpdate(s.sqlTemplate, ctx, query, args...)
	return err
}
