package filter

import (
	"fmt"
	"strings"
)

const articleListSelect = `SELECT articles.author, articles.title, articles.article_id, articles.topic,
	articles.created_at, articles.votes, articles.article_img_url,
	CAST(COUNT(comments.comment_id) AS INT) AS comment_count
FROM articles
LEFT JOIN comments ON comments.article_id = articles.article_id`

// BuildArticleListQuery assembles the article list statement for f. The sort
// column and direction come from closed enums and are the only parts written
// into the SQL text; the topic and paging values are bind parameters.
func BuildArticleListQuery(f ArticleFilter) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, 3)

	sb.WriteString(articleListSelect)

	if f.Topic != nil {
		args = append(args, *f.Topic)
		fmt.Fprintf(&sb, "\nWHERE articles.topic = $%d", len(args))
	}

	sb.WriteString("\nGROUP BY articles.article_id")
	fmt.Fprintf(&sb, "\nORDER BY %s %s, articles.article_id %s", f.SortBy.Expr(), f.Order, f.Order)

	clause, args := f.Page.Clause(args)
	sb.WriteString(clause)

	return sb.String(), args
}

// Clause appends the LIMIT/OFFSET bind values to args and returns the SQL
// fragment referencing them. An unbounded page yields an empty fragment.
func (p Page) Clause(args []any) (string, []any) {
	if !p.Bounded() {
		return "", args
	}
	args = append(args, p.Limit, p.Offset())
	return fmt.Sprintf("\nLIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}
