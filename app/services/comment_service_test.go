package services

import (
	"context"
	"testing"

	"inkwell/app/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_Add(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := f.createPost(t, alice, PostInput{Title: "Discuss"})

	first, err := f.commentSvc.Add(ctx, bob, post.ID, "  First!  ")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "First!", first[0].Text)
	assert.Equal(t, models.UserSummary{ID: "bob", Name: "Bob"}, first[0].User)
	assert.NotEmpty(t, first[0].ID)

	second, err := f.commentSvc.Add(ctx, alice, post.ID, "Thanks")
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Empty(t, cmp.Diff(first[0], second[0]))
	assert.Equal(t, "Thanks", second[1].Text)

	got, err := f.postSvc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(second, got.Comments))

	t.Run("empty text", func(t *testing.T) {
		_, err := f.commentSvc.Add(ctx, bob, post.ID, "   ")
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "Text is required", err.Error())
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := f.commentSvc.Add(ctx, bob, "missing", "hello")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.commentSvc.Add(ctx, models.Principal{}, post.ID, "hello")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestCommentService_AddThenDeleteRestoresList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	post := f.createPost(t, alice, PostInput{Title: "Round trip"})

	_, err := f.commentSvc.Add(ctx, alice, post.ID, "one")
	require.NoError(t, err)
	before, err := f.commentSvc.Add(ctx, bob, post.ID, "two")
	require.NoError(t, err)

	after, err := f.commentSvc.Add(ctx, bob, post.ID, "three")
	require.NoError(t, err)
	added := after[len(after)-1]

	restored, err := f.commentSvc.Delete(ctx, bob, post.ID, added.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(before, restored); diff != "" {
		t.Fatalf("comment list changed (-before +after):\n%s", diff)
	}
}

func TestCommentService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		principal models.Principal
		wantErr   error
	}{
		{"comment author", bob, nil},
		{"admin", admin, nil},
		{"post author is not enough", alice, ErrForbidden},
		{"anonymous", models.Principal{}, ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			post := f.createPost(t, alice, PostInput{Title: "Thread"})
			_, err := f.commentSvc.Add(ctx, alice, post.ID, "first")
			require.NoError(t, err)
			comments, err := f.commentSvc.Add(ctx, bob, post.ID, "second")
			require.NoError(t, err)
			_, err = f.commentSvc.Add(ctx, alice, post.ID, "third")
			require.NoError(t, err)

			remaining, err := f.commentSvc.Delete(ctx, tt.principal, post.ID, comments[1].ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				got, err := f.postSvc.Get(ctx, post.ID)
				require.NoError(t, err)
				assert.Len(t, got.Comments, 3)
				return
			}
			require.NoError(t, err)
			texts := make([]string, 0, len(remaining))
			for _, c := range remaining {
				texts = append(texts, c.Text)
			}
			assert.Equal(t, []string{"first", "third"}, texts)
		})
	}

	t.Run("missing comment or post", func(t *testing.T) {
		f := newFixture(t)
		post := f.createPost(t, alice, PostInput{Title: "Quiet"})

		_, err := f.commentSvc.Delete(ctx, alice, post.ID, "nope")
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Comment not found", err.Error())

		_, err = f.commentSvc.Delete(ctx, alice, "missing", "nope")
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Post not found", err.Error())

		_, err = f.commentSvc.Delete(ctx, alice, post.ID, "")
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Comment not found", err.Error())

		_, err = f.commentSvc.Delete(ctx, alice, "missing", "")
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Post not found", err.Error())
	})
}
