package services

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"inkwell/app/logger"
	"inkwell/app/models"
	"inkwell/app/repositories"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultPageSize and MaxPageSize bound listing pages.
	DefaultPageSize = 10
	MaxPageSize     = 100

	maxSlugAttempts = 1000
	fallbackSlug    = "post"
)

// ListFilter selects one page of published posts.
type ListFilter struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// PostInput carries the fields of a new post.
type PostInput struct {
	Title      string
	Content    string
	Excerpt    string
	Categories []string
	Status     models.PostStatus
}

// PostService handles business logic for blog posts
type PostService struct {
	posts      repositories.PostRepository
	categories repositories.CategoryRepository
	users      repositories.UserRepository
	images     ImageStore
	log        *logger.Logger
	now        func() time.Time
}

// NewPostService creates a new PostService. images may be nil, in which case
// requests carrying an image are refused.
func NewPostService(
	posts repositories.PostRepository,
	categories repositories.CategoryRepository,
	users repositories.UserRepository,
	images ImageStore,
	log *logger.Logger,
) *PostService {
	if log == nil {
		log = logger.Nop()
	}
	return &PostService{
		posts:      posts,
		categories: categories,
		users:      users,
		images:     images,
		log:        log.With("service", "PostService"),
		now:        time.Now,
	}
}

// List returns one page of published posts, newest first.
func (s *PostService) List(ctx context.Context, filter ListFilter) (page *models.PostPage, err error) {
	_, span := startSpan(ctx, "PostService.List",
		attribute.String("filter.category", filter.Category),
		attribute.Int("filter.page", filter.Page),
		attribute.Int("filter.limit", filter.Limit),
	)
	defer func() { finishSpan(span, err) }()

	pageNum, limit, err := normalizePage(filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}

	posts, total, err := s.posts.List(repositories.PostFilter{
		PublishedOnly: true,
		CategoryID:    strings.TrimSpace(filter.Category),
		Search:        filter.Search,
	}, limit, pageOffset(pageNum, limit))
	if err != nil {
		return nil, storeError(err, "list posts", "Posts not found")
	}

	views, err := s.resolver().posts(posts)
	if err != nil {
		return nil, err
	}
	return models.NewPostPage(views, total, pageNum, limit), nil
}

// Get returns a single post with its comments. Drafts are returned too.
func (s *PostService) Get(ctx context.Context, id string) (view *models.PostView, err error) {
	_, span := startSpan(ctx, "PostService.Get", attribute.String("post.id", id))
	defer func() { finishSpan(span, err) }()

	post, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return s.resolver().post(post)
}

// Search returns every published post whose title or content contains query.
func (s *PostService) Search(ctx context.Context, query string) (views []*models.PostView, err error) {
	_, span := startSpan(ctx, "PostService.Search")
	defer func() { finishSpan(span, err) }()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newError(ErrValidation, "Search query is required")
	}
	return s.listAll(repositories.PostFilter{PublishedOnly: true, Search: query})
}

// ByCategory returns every published post tagged with categoryID.
func (s *PostService) ByCategory(ctx context.Context, categoryID string) (views []*models.PostView, err error) {
	_, span := startSpan(ctx, "PostService.ByCategory", attribute.String("category.id", categoryID))
	defer func() { finishSpan(span, err) }()

	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, newError(ErrValidation, "Category id is required")
	}
	return s.listAll(repositories.PostFilter{PublishedOnly: true, CategoryID: categoryID})
}

// Create validates and stores a new post authored by principal.
func (s *PostService) Create(ctx context.Context, principal models.Principal, input PostInput, image *ImageUpload) (view *models.PostView, err error) {
	ctx, span := startSpan(ctx, "PostService.Create", attribute.String("principal.id", principal.ID))
	defer func() { finishSpan(span, err) }()

	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
		Excerpt:    input.Excerpt,
		Status:     input.Status,
		Categories: input.Categories,
		AuthorID:   principal.ID,
	}
	post.BeforeCreate(s.now())
	if err := post.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkCategories(post.Categories); err != nil {
		return nil, err
	}

	if image != nil {
		uploaded, err := s.upload(ctx, image)
		if err != nil {
			return nil, err
		}
		post.FeaturedImage = uploaded
	}

	if err := s.saveWithSlug(post, s.posts.Create); err != nil {
		s.discardImage(ctx, post.FeaturedImage)
		return nil, err
	}

	s.log.Info("post created", "post_id", post.ID, "slug", post.Slug, "author", principal.ID)
	return s.resolver().post(post)
}

// Update applies patch to the post. Only the author or an admin may update.
func (s *PostService) Update(ctx context.Context, principal models.Principal, id string, patch models.PostPatch, image *ImageUpload) (view *models.PostView, err error) {
	ctx, span := startSpan(ctx, "PostService.Update", attribute.String("post.id", id))
	defer func() { finishSpan(span, err) }()

	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	post, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !principal.CanModify(post.AuthorID) {
		return nil, newError(ErrForbidden, "Not authorized to update this post")
	}

	titleChanged := post.ApplyPatch(patch)
	if err := post.Validate(); err != nil {
		return nil, invalid(err)
	}
	if patch.Categories.IsSet() {
		if err := s.checkCategories(post.Categories); err != nil {
			return nil, err
		}
	}

	previous := post.FeaturedImage
	if image != nil {
		uploaded, err := s.upload(ctx, image)
		if err != nil {
			return nil, err
		}
		post.FeaturedImage = uploaded
	}
	post.UpdatedAt = s.now()

	if titleChanged {
		err = s.saveWithSlug(post, s.posts.Update)
	} else if err = s.posts.Update(post); err != nil {
		err = storeError(err, "update post", "Post not found")
	}
	if err != nil {
		if image != nil {
			s.discardImage(ctx, post.FeaturedImage)
		}
		return nil, err
	}
	if image != nil {
		s.discardImage(ctx, previous)
	}

	s.log.Info("post updated", "post_id", post.ID, "slug", post.Slug)
	return s.resolver().post(post)
}

// Delete removes the post together with its comments. Only the author or an
// admin may delete.
func (s *PostService) Delete(ctx context.Context, principal models.Principal, id string) (err error) {
	ctx, span := startSpan(ctx, "PostService.Delete", attribute.String("post.id", id))
	defer func() { finishSpan(span, err) }()

	if err := requirePrincipal(principal); err != nil {
		return err
	}
	post, err := s.load(id)
	if err != nil {
		return err
	}
	if !principal.CanModify(post.AuthorID) {
		return newError(ErrForbidden, "Not authorized to delete this post")
	}
	if err := s.posts.Delete(id); err != nil {
		return storeError(err, "delete post", "Post not found")
	}
	s.discardImage(ctx, post.FeaturedImage)

	s.log.Info("post deleted", "post_id", id, "by", principal.ID)
	return nil
}

func (s *PostService) load(id string) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if err != nil {
		return nil, storeError(err, "load post", "Post not found")
	}
	return post, nil
}

func (s *PostService) listAll(filter repositories.PostFilter) ([]*models.PostView, error) {
	posts, _, err := s.posts.List(filter, 0, 0)
	if err != nil {
		return nil, storeError(err, "list posts", "Posts not found")
	}
	return s.resolver().posts(posts)
}

func (s *PostService) resolver() *viewResolver {
	return newViewResolver(s.users, s.categories)
}

// saveWithSlug derives the slug from the title and calls save, appending a
// counter to the slug for as long as the store reports it taken.
func (s *PostService) saveWithSlug(post *models.Post, save func(*models.Post) error) error {
	base := models.Slugify(post.Title)
	if base == "" {
		base = fallbackSlug
	}
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		post.Slug = models.SlugCandidate(base, attempt)
		err := save(post)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrSlugTaken) {
			return storeError(err, "save post", "Post not found")
		}
	}
	return newError(ErrConflict, "Could not find a free slug for %q", base)
}

func (s *PostService) checkCategories(ids []string) error {
	for _, id := range ids {
		if _, err := s.categories.GetByID(id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return newError(ErrValidation, "Category %s does not exist", id)
			}
			return storeError(err, "check category", "Category not found")
		}
	}
	return nil
}

func (s *PostService) upload(ctx context.Context, image *ImageUpload) (*models.Image, error) {
	if s.images == nil {
		return nil, newError(ErrValidation, "image uploads are not configured")
	}
	contentType, err := detectImage(image)
	if err != nil {
		return nil, err
	}
	uploaded, err := s.images.Upload(ctx, image.Filename, contentType, bytes.NewReader(image.Data))
	if err != nil {
		s.log.Error("image upload failed", "filename", image.Filename, "error", err)
		return nil, err
	}
	return uploaded, nil
}

// discardImage removes an image that is no longer referenced. Failures are
// only logged.
func (s *PostService) discardImage(ctx context.Context, image *models.Image) {
	if image == nil || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, image.ID); err != nil {
		s.log.Warn("failed to delete image", "image_id", image.ID, "error", err)
	}
}

// pageOffset is the index of the first record on page. Pages too far out to
// address saturate at math.MaxInt, which lists nothing.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

func normalizePage(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if page < 1 {
		return 0, 0, newError(ErrValidation, "Page must be a positive number")
	}
	if limit < 1 {
		return 0, 0, newError(ErrValidation, "Limit must be a positive number")
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, nil
}
