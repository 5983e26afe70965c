package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/emerrafter1/nc-news/internal/validator"
)

// SortColumn is the closed set of columns the article list can be ordered by.
type SortColumn int

const (
	SortByCreatedAt SortColumn = iota
	SortByAuthor
	SortByTitle
	SortByID
	SortByTopic
	SortByVotes
	SortByImageURL
	SortByCommentCount
)

// sortColumns maps sort_by values to columns. The storage names of id and
// image_url are accepted as aliases.
var sortColumns = map[string]SortColumn{
	"created_at":      SortByCreatedAt,
	"author":          SortByAuthor,
	"title":           SortByTitle,
	"id":              SortByID,
	"article_id":      SortByID,
	"topic":           SortByTopic,
	"votes":           SortByVotes,
	"image_url":       SortByImageURL,
	"article_img_url": SortByImageURL,
	"comment_count":   SortByCommentCount,
}

func ParseSortColumn(s string) (SortColumn, bool) {
	c, ok := sortColumns[s]
	return c, ok
}

// Expr is the SQL expression the column sorts on.
func (c SortColumn) Expr() string {
	switch c {
	case SortByAuthor:
		return "articles.author"
	case SortByTitle:
		return "articles.title"
	case SortByID:
		return "articles.article_id"
	case SortByTopic:
		return "articles.topic"
	case SortByVotes:
		return "articles.votes"
	case SortByImageURL:
		return "articles.article_img_url"
	case SortByCommentCount:
		return "comment_count"
	default:
		return "articles.created_at"
	}
}

type SortOrder int

const (
	Descending SortOrder = iota
	Ascending
)

// ParseSortOrder accepts ASC or DESC in any case.
func ParseSortOrder(s string) (SortOrder, bool) {
	order := strings.ToUpper(s)
	if !validator.PermittedValue(order, "ASC", "DESC") {
		return Descending, false
	}
	if order == "ASC" {
		return Ascending, true
	}
	return Descending, true
}

func (o SortOrder) String() string {
	if o == Ascending {
		return "ASC"
	}
	return "DESC"
}

// Page is a zero-based page of Limit rows. A zero Limit means unbounded.
type Page struct {
	Limit  int64
	Number int64
}

func (p Page) Bounded() bool {
	return p.Limit > 0
}

func (p Page) Offset() int64 {
	return p.Number * p.Limit
}

type ArticleFilter struct {
	SortBy SortColumn
	Order  SortOrder
	Topic  *string
	Page   Page
}

// ParseArticleFilter reads sort_by, order, topic, limit and page. Unknown
// values are rejected rather than replaced by defaults.
func ParseArticleFilter(query url.Values) (ArticleFilter, error) {
	v := validator.New()
	f := ArticleFilter{SortBy: SortByCreatedAt, Order: Descending}

	if query.Has("sort_by") {
		sortBy, ok := ParseSortColumn(query.Get("sort_by"))
		v.Check(ok, "sort_by", "must be one of author, title, id, topic, created_at, votes, image_url, comment_count")
		f.SortBy = sortBy
	}

	if query.Has("order") {
		order, ok := ParseSortOrder(query.Get("order"))
		v.Check(ok, "order", "must be ASC or DESC")
		f.Order = order
	}

	if query.Has("topic") {
		topic := query.Get("topic")
		v.Check(utf8.ValidString(topic), "topic", "must be valid UTF-8")
		f.Topic = &topic
	}

	f.Page = readPage(query, v)

	if err := v.Err(); err != nil {
		return ArticleFilter{}, err
	}
	return f, nil
}

// ParsePage reads limit and page only.
func ParsePage(query url.Values) (Page, error) {
	v := validator.New()
	p := readPage(query, v)
	if err := v.Err(); err != nil {
		return Page{}, err
	}
	return p, nil
}

func readPage(query url.Values, v *validator.Validator) Page {
	var p Page

	if limit, ok := readInt(query, "limit", v); ok {
		v.Check(limit > 0, "limit", "must be greater than 0")
		p.Limit = limit
	}

	if page, ok := readInt(query, "page", v); ok {
		v.Check(page >= 0, "page", "must not be negative")
		v.Check(query.Has("limit"), "page", "requires a limit")
		p.Number = page
	}

	if p.Limit > 0 {
		v.Check(p.Number <= math.MaxInt64/p.Limit, "page", "is too large")
	}

	return p
}

func readInt(query url.Values, key string, v *validator.Validator) (int64, bool) {
	if !query.Has(key) {
		return 0, false
	}
	i, err := strconv.ParseInt(query.Get(key), 10, 64)
	if err != nil {
		v.AddError(key, "must be an integer")
		return 0, false
	}
	return i, true
}
