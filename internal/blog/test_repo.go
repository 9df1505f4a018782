package blog

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ postsRepo = (*TestRepo)(nil)

// TestRepo is an in-memory posts repo for unit tests.
type TestRepo struct {
	mutex  sync.Mutex
	nextID int64
	posts  []*Post
}

func NewTestRepo() *TestRepo {
	return &TestRepo{
		nextID: 1,
	}
}

func (r *TestRepo) Add(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if post.Title == "" || post.ContentMd == "" {
		return ErrPostTitleOrContentEmpty
	}
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}
	if post.PublishedAt.IsZero() {
		post.PublishedAt = time.Now()
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	post.ID = r.nextID
	r.nextID++

	stored := *post
	r.posts = append(r.posts, &stored)
	return nil
}

func (r *TestRepo) Update(_ context.Context, slug string, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if post.Title == "" || post.ContentMd == "" {
		return ErrPostTitleOrContentEmpty
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	for _, stored := range r.posts {
		if stored.Slug != slug {
			continue
		}
		stored.Title = post.Title
		stored.ContentMd = post.ContentMd
		stored.CoverURL = post.CoverURL
		stored.Tags = post.Tags
		if !post.PublishedAt.IsZero() {
			stored.PublishedAt = post.PublishedAt
		}
		post.Slug = slug
		return nil
	}
	return ErrPostNotFound
}

func (r *TestRepo) Delete(_ context.Context, slug string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	remaining := r.posts[:0]
	for _, stored := range r.posts {
		if stored.Slug != slug {
			remaining = append(remaining, stored)
		}
	}
	r.posts = remaining
	return nil
}

func (r *TestRepo) All(_ context.Context) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	all := make([]*Post, len(r.posts))
	copy(all, r.posts)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].PublishedAt.Equal(all[j].PublishedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})
	return all, nil
}

func (r *TestRepo) GetBySlug(_ context.Context, slug string) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var found *Post
	for _, stored := range r.posts {
		if stored.Slug != slug {
			continue
		}
		if found == nil || stored.PublishedAt.After(found.PublishedAt) {
			found = stored
		}
	}
	if found == nil {
		return nil, ErrPostNotFound
	}
	result := *found
	return &result, nil
}
