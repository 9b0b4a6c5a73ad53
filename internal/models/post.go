package models

import "time"

// PostMeta: карточка поста из базы Notion (без контента).
type PostMeta struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Status      string    `json:"status"`
	Excerpt     string    `json:"excerpt"`
	PublishDate time.Time `json:"publishDate"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category,omitempty"`
	CoverImage  string    `json:"coverImage,omitempty"`
	Featured    bool      `json:"featured"`
}

// Post: пост вместе с отрендеренным документом.
type Post struct {
	PostMeta
	Document RenderedDocument `json:"document"`
}

// ListOptions: фильтры списка постов.
type ListOptions struct {
	Tag      string
	Category string
	Featured *bool
}

type PaginatedPosts struct {
	Posts   []PostMeta `json:"posts"`
	HasMore bool       `json:"hasMore"`
	Total   int        `json:"total"`
}

// PageStatus: то, что нужно вебхуку: slug и опубликован ли пост.
type PageStatus struct {
	PageID     string `json:"pageId"`
	Slug       string `json:"slug"`
	Published  bool   `json:"published"`
	CoverImage string `json:"coverImage,omitempty"`
}
