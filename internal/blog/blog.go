package blog

import (
	"errors"
	"strconv"
	"time"
)

var (
	ErrPostNotFound            = errors.New("post not found")
	ErrPostTitleOrContentEmpty = errors.New("post title or content empty")
)

type Post struct {
	ID          int64
	Title       string
	Slug        string
	ContentMd   string
	CoverURL    *string
	Tags        []string
	PublishedAt time.Time
}

// WirePost is the representation sent to clients: the internal numeric
// identity becomes a plain string "id", optional fields are omitted
// when absent.
type WirePost struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	ContentMd   string    `json:"content_md"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
}

func ToWire(p *Post) WirePost {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return WirePost{
		ID:          strconv.FormatInt(p.ID, 10),
		Title:       p.Title,
		Slug:        p.Slug,
		ContentMd:   p.ContentMd,
		CoverURL:    p.CoverURL,
		Tags:        tags,
		PublishedAt: p.PublishedAt,
	}
}
