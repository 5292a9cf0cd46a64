package models

import "time"

type Article struct {
	ID          string
	Slug        string
	Title       string
	Excerpt     string
	Body        string
	AuthorID    string
	Published   bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

type MediaObject struct {
	ID         string
	UploaderID string
	Bucket     string
	ObjectKey  string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
