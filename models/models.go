package models

import "time"

type Topic struct {
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ImgURL      *string `json:"img_url,omitempty"`
}

type User struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Article is a row of the articles table. Body is nil only for rows of the
// list query, which does not select it.
type Article struct {
	ID           int64     `json:"article_id"`
	Title        string    `json:"title"`
	Topic        string    `json:"topic"`
	Author       string    `json:"author"`
	Body         *string   `json:"body,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Votes        int64     `json:"votes"`
	ImgURL       *string   `json:"article_img_url"`
	CommentCount int64     `json:"comment_count"`
}

type Comment struct {
	ID        int64     `json:"comment_id"`
	ArticleID int64     `json:"article_id"`
	Body      string    `json:"body"`
	Votes     int64     `json:"votes"`
	Author    *string   `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// NewArticle carries nullable request fields straight to the insert so that
// missing values are rejected by the table constraints.
type NewArticle struct {
	Title  *string
	Topic  *string
	Author *string
	Body   *string
	ImgURL *string
}

type NewComment struct {
	ArticleID int64
	Author    *string
	Body      *string
}

type NewTopic struct {
	Slug        *string
	Description *string
	ImgURL      *string
}
