package databaseutils

import (
	"context"
	"database/sql"
	"time"

	"github.com/mdobak/go-xerrors"
)

// SQLTemplate runs statements against the transaction carried by the context,
// or against DB when there is none. Every call is bounded by Timeout.
type SQLTemplate struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewSQLTemplate(db *sql.DB, timeout time.Duration) *SQLTemplate {
	return &SQLTemplate{
		DB:      db,
		Timeout: timeout,
	}
}

func (t *SQLTemplate) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.Timeout)
}

// ExecuteQuery returns one extracted value per row. The result is never nil.
func ExecuteQuery[T any](sqlTemplate *SQLTemplate, ctx context.Context, query string, extractor func(rows *sql.Rows) (T, error), args ...any) ([]T, error) {
	ctx, cancel := sqlTemplate.withTimeout(ctx)
	defer cancel()

	rows, err := GetSQLExecutor(ctx, sqlTemplate.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		t, err := extractor(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.New(err)
	}

	return results, nil
}

// ExecuteSingleQuery returns the first extracted row, or sql.ErrNoRows.
func ExecuteSingleQuery[T any](sqlTemplate *SQLTemplate, ctx context.Context, query string, extractor func(rows *sql.Rows) (T, error), args ...any) (T, error) {
	var zero T

	ctx, cancel := sqlTemplate.withTimeout(ctx)
	defer cancel()

	rows, err := GetSQLExecutor(ctx, sqlTemplate.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return zero, xerrors.New(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, xerrors.New(err)
		}
		return zero, xerrors.New(sql.ErrNoRows)
	}

	result, err := extractor(rows)
	if err != nil {
		return zero, err
	}
	return result, nil
}

// ExecuteUpdate runs a statement that returns no rows and reports how many
// rows it affected.
func ExecuteUpdate(sqlTemplate *SQLTemplate, ctx context.Context, query string, args ...any) (int64, error) {
	ctx, cancel := sqlTemplate.withTimeout(ctx)
	defer cancel()

	result, err := GetSQLExecutor(ctx, sqlTemplate.DB).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, xerrors.New(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, xerrors.New(err)
	}
	return affected, nil
}
