package repositories

import (
	"fmt"
	"testing"
	"time"

	"inkwell/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPost(id, title string, createdAt time.Time) *models.Post {
	return &models.Post{
		ID:         id,
		Title:      title,
		Content:    "content of " + title,
		Status:     models.StatusPublished,
		AuthorID:   "u1",
		Slug:       models.Slugify(title),
		Categories: []string{},
		Comments:   []*models.Comment{},
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestPostRepository(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	repo := store.Posts()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("create and get post", func(t *testing.T) {
		post := newPost("p1", "Hello World", now)
		post.Comments = []*models.Comment{{ID: "c1", UserID: "u2", Text: "hi", CreatedAt: now}}
		require.NoError(t, repo.Create(post))

		got, err := repo.GetByID("p1")
		require.NoError(t, err)
		assert.Equal(t, "Hello World", got.Title)
		assert.Equal(t, "hello-world", got.Slug)
		require.Len(t, got.Comments, 1)
		assert.Equal(t, "hi", got.Comments[0].Text)

		bySlug, err := repo.GetBySlug("hello-world")
		require.NoError(t, err)
		assert.Equal(t, "p1", bySlug.ID)
	})

	t.Run("duplicate slug is refused", func(t *testing.T) {
		err := repo.Create(newPost("p2", "Hello World", now))
		assert.ErrorIs(t, err, ErrSlugTaken)

		_, err = repo.GetByID("p2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update moves the slug claim", func(t *testing.T) {
		post, err := repo.GetByID("p1")
		require.NoError(t, err)
		post.Title = "Renamed"
		post.Slug = "renamed"
		require.NoError(t, repo.Update(post))

		_, err = repo.GetBySlug("hello-world")
		assert.ErrorIs(t, err, ErrNotFound)
		got, err := repo.GetBySlug("renamed")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)

		// the released slug is free again
		require.NoError(t, repo.Create(newPost("p3", "Hello World", now)))
	})

	t.Run("update to a taken slug is refused", func(t *testing.T) {
		post, err := repo.GetByID("p1")
		require.NoError(t, err)
		post.Slug = "hello-world"
		assert.ErrorIs(t, repo.Update(post), ErrSlugTaken)

		got, err := repo.GetByID("p1")
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Slug)
	})

	t.Run("update missing post", func(t *testing.T) {
		assert.ErrorIs(t, repo.Update(newPost("nope", "Nope", now)), ErrNotFound)
	})

	t.Run("delete post", func(t *testing.T) {
		require.NoError(t, repo.Delete("p1"))

		_, err := repo.GetByID("p1")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetBySlug("renamed")
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, repo.Delete("p1"), ErrNotFound)
	})
}

func TestPostRepositoryList(t *testing.T) {
	store := newTestStore(t)
	repo := store.Posts()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		post := newPost(fmt.Sprintf("p%d", i), fmt.Sprintf("Post %d", i), base.Add(time.Duration(i)*time.Hour))
		if i == 2 {
			post.Title = "All about React"
			post.Slug = "all-about-react"
		}
		if i == 3 {
			post.Status = models.StatusDraft
		}
		if i%2 == 0 {
			post.Categories = []string{"go"}
		}
		require.NoError(t, repo.Create(post))
	}

	t.Run("published newest first", func(t *testing.T) {
		posts, total, err := repo.List(PostFilter{PublishedOnly: true}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		ids := make([]string, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"p5", "p4", "p2", "p1"}, ids)
	})

	t.Run("pagination", func(t *testing.T) {
		page, total, err := repo.List(PostFilter{PublishedOnly: true}, 3, 3)
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		require.Len(t, page, 1)
		assert.Equal(t, "p1", page[0].ID)

		page, _, err = repo.List(PostFilter{PublishedOnly: true}, 3, 9)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("category and search filters", func(t *testing.T) {
		posts, total, err := repo.List(PostFilter{PublishedOnly: true, CategoryID: "go"}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Equal(t, "p4", posts[0].ID)

		posts, total, err = repo.List(PostFilter{PublishedOnly: true, Search: "REACT"}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "p2", posts[0].ID)
	})

	t.Run("drafts are included without the published filter", func(t *testing.T) {
		_, total, err := repo.List(PostFilter{}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
	})
}
