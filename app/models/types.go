package models

import "time"

// PostStatus is the publication state of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Image is a featured image held by the object store.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Post represents a blog post with its embedded comments. The post and its
// comments are loaded and saved as one document.
type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title" validate:"required,max=100"`
	Content       string     `json:"content" validate:"required"`
	Excerpt       string     `json:"excerpt,omitempty" validate:"max=200"`
	Status        PostStatus `json:"status" validate:"oneof=draft published"`
	FeaturedImage *Image     `json:"featuredImage,omitempty"`
	Categories    []string   `json:"categories"`
	AuthorID      string     `json:"author"`
	Comments      []*Comment `json:"comments"`
	Slug          string     `json:"slug"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Comment represents a comment on a blog post. It only exists inside a Post.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}

// Category is a named tag referenced by posts.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,max=50"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty" validate:"max=200"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// User is a registered account. PasswordHash never leaves the process in
// API responses.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required,max=50"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
