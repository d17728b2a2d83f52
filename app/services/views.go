package services

import (
	"errors"
	"fmt"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// viewResolver expands the ids stored in a post into summaries. Lookups are
// cached for the lifetime of one resolver, which is one request.
type viewResolver struct {
	users      repositories.UserRepository
	categories repositories.CategoryRepository
	userCache  map[string]models.UserSummary
	catCache   map[string]*models.CategorySummary
}

func newViewResolver(users repositories.UserRepository, categories repositories.CategoryRepository) *viewResolver {
	return &viewResolver{
		users:      users,
		categories: categories,
		userCache:  make(map[string]models.UserSummary),
		catCache:   make(map[string]*models.CategorySummary),
	}
}

// user resolves a user id. Deleted users keep their id and nothing else.
func (r *viewResolver) user(id string) (models.UserSummary, error) {
	if summary, ok := r.userCache[id]; ok {
		return summary, nil
	}
	summary := models.UserSummary{ID: id}
	user, err := r.users.GetByID(id)
	switch {
	case err == nil:
		summary = user.Summary()
	case !errors.Is(err, repositories.ErrNotFound):
		return models.UserSummary{}, fmt.Errorf("resolve user %s: %w", id, err)
	}
	r.userCache[id] = summary
	return summary, nil
}

// category resolves a category id, returning nil for categories that no
// longer exist.
func (r *viewResolver) category(id string) (*models.CategorySummary, error) {
	if summary, ok := r.catCache[id]; ok {
		return summary, nil
	}
	var summary *models.CategorySummary
	category, err := r.categories.GetByID(id)
	switch {
	case err == nil:
		s := category.Summary()
		summary = &s
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("resolve category %s: %w", id, err)
	}
	r.catCache[id] = summary
	return summary, nil
}

func (r *viewResolver) comments(comments []*models.Comment) ([]models.CommentView, error) {
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		author, err := r.user(c.UserID)
		if err != nil {
			return nil, err
		}
		views = append(views, models.CommentView{
			ID:        c.ID,
			User:      author,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return views, nil
}

func (r *viewResolver) post(p *models.Post) (*models.PostView, error) {
	author, err := r.user(p.AuthorID)
	if err != nil {
		return nil, err
	}
	categories := make([]models.CategorySummary, 0, len(p.Categories))
	for _, id := range p.Categories {
		summary, err := r.category(id)
		if err != nil {
			return nil, err
		}
		if summary != nil {
			categories = append(categories, *summary)
		}
	}
	comments, err := r.comments(p.Comments)
	if err != nil {
		return nil, err
	}
	return &models.PostView{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		Status:        p.Status,
		FeaturedImage: p.FeaturedImage,
		Categories:    categories,
		Author:        author,
		Comments:      comments,
		Slug:          p.Slug,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}, nil
}

func (r *viewResolver) posts(posts []*models.Post) ([]*models.PostView, error) {
	views := make([]*models.PostView, 0, len(posts))
	for _, p := range posts {
		view, err := r.post(p)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
