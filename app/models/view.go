package models

import "time"

// UserSummary is the public face of a user embedded in other resources.
type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// CategorySummary is the short form of a category embedded in posts.
type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	ID        string      `json:"id"`
	User      UserSummary `json:"user"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
}

// PostView is a post with author, categories and comment authors resolved.
type PostView struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	Excerpt       string            `json:"excerpt,omitempty"`
	Status        PostStatus        `json:"status"`
	FeaturedImage *Image            `json:"featuredImage,omitempty"`
	Categories    []CategorySummary `json:"categories"`
	Author        UserSummary       `json:"author"`
	Comments      []CommentView     `json:"comments"`
	Slug          string            `json:"slug"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// PostPage is one page of a filtered, ordered post listing.
type PostPage struct {
	Posts       []*PostView `json:"data"`
	Total       int         `json:"total"`
	Page        int         `json:"page"`
	Limit       int         `json:"limit"`
	TotalPages  int         `json:"totalPages"`
	HasNextPage bool        `json:"hasNextPage"`
	HasPrevPage bool        `json:"hasPrevPage"`
}

// NewPostPage builds the page metadata for total matching records.
func NewPostPage(posts []*PostView, total, page, limit int) *PostPage {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	if posts == nil {
		posts = []*PostView{}
	}
	return &PostPage{
		Posts:       posts,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// Summary returns the embeddable form of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// Summary returns the embeddable form of the category.
func (c *Category) Summary() CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug}
}
