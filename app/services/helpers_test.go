package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/repositories/mock"

	"github.com/stretchr/testify/require"
)

var (
	pngData  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegData = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")

	alice = models.Principal{ID: "alice", Role: models.RoleUser}
	bob   = models.Principal{ID: "bob", Role: models.RoleUser}
	admin = models.Principal{ID: "root", Role: models.RoleAdmin}
)

// fakeImageStore keeps uploads in memory.
type fakeImageStore struct {
	mu        sync.Mutex
	next      int
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: make(map[string][]byte)}
}

func (f *fakeImageStore) Upload(_ context.Context, name, _ string, r io.Reader) (*models.Image, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := fmt.Sprintf("blog-app/%d-%s", f.next, name)
	f.objects[id] = data
	return &models.Image{ID: id, URL: "https://cdn.example.com/" + id}, nil
}

func (f *fakeImageStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fixture struct {
	posts      *mock.PostRepository
	categories *mock.CategoryRepository
	users      *mock.UserRepository
	images     *fakeImageStore
	postSvc    *PostService
	commentSvc *CommentService
	clock      time.Time
}

// newFixture wires the services to in-memory repositories with a clock that
// advances one second per call.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		posts:      mock.NewPostRepository(),
		categories: mock.NewCategoryRepository(),
		users:      mock.NewUserRepository(),
		images:     newFakeImageStore(),
		clock:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	tick := func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	f.postSvc = NewPostService(f.posts, f.categories, f.users, f.images, nil)
	f.postSvc.now = tick
	f.commentSvc = NewCommentService(f.posts, f.users, nil)
	f.commentSvc.now = tick

	for _, u := range []*models.User{
		{ID: "alice", Name: "Alice", Email: "alice@example.com", Role: models.RoleUser},
		{ID: "bob", Name: "Bob", Email: "bob@example.com", Role: models.RoleUser},
		{ID: "root", Name: "Root", Email: "root@example.com", Role: models.RoleAdmin},
	} {
		require.NoError(t, f.users.Create(u))
	}
	require.NoError(t, f.categories.Create(&models.Category{ID: "cat-go", Name: "Go", Slug: "go"}))
	require.NoError(t, f.categories.Create(&models.Category{ID: "cat-js", Name: "JavaScript", Slug: "javascript"}))
	return f
}

func (f *fixture) createPost(t *testing.T, p models.Principal, input PostInput) *models.PostView {
	t.Helper()
	if input.Content == "" {
		input.Content = "Some content"
	}
	view, err := f.postSvc.Create(context.Background(), p, input, nil)
	require.NoError(t, err)
	return view
}

var allPosts = repositories.PostFilter{}
