package core

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"

	"github.com/emerrafter1/nc-news/internal/apperror"
	"github.com/emerrafter1/nc-news/internal/utils/databaseutils"
)

// Reference names a key column a row can be looked up by.
type Reference struct {
	table  string
	column string
}

var (
	TopicSlug    = Reference{table: "topics", column: "slug"}
	UserUsername = Reference{table: "users", column: "username"}
	ArticleID    = Reference{table: "articles", column: "article_id"}
	CommentID    = Reference{table: "comments", column: "comment_id"}
)

func (r Reference) String() string {
	return r.table + "." + r.column
}

// CheckExists returns nil when a row with ref = value exists and an error
// wrapping apperror.NotFound when it does not.
func (c *Core) CheckExists(ctx context.Context, ref Reference, value any) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		pq.QuoteIdentifier(ref.table), pq.QuoteIdentifier(ref.column))

	exists, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (bool, error) {
		var exists bool
		if err := rows.Scan(&exists); err != nil {
			return false, xerrors.New(err)
		}
		return exists, nil
	}, value)
	if err != nil {
		return err
	}
	if !exists {
		return xerrors.Newf("%s %v: %w", ref, value, apperror.NotFound)
	}
	return nil
}
