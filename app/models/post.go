package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrCommentNotFound is returned when a comment id is not part of a post.
var ErrCommentNotFound = errors.New("comment not found")

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate(now time.Time) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = p.CreatedAt
	if p.Status == "" {
		p.Status = StatusPublished
	}
	if p.Comments == nil {
		p.Comments = []*Comment{}
	}
	p.Categories = uniqueIDs(p.Categories)
}

// AddComment appends a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	p.Comments = append(p.Comments, comment)
	return nil
}

// FindComment returns the comment with the given id.
func (p *Post) FindComment(commentID string) (*Comment, bool) {
	for _, comment := range p.Comments {
		if comment.ID == commentID {
			return comment, true
		}
	}
	return nil, false
}

// RemoveComment removes a comment from the post, keeping the order of the
// remaining comments.
func (p *Post) RemoveComment(commentID string) error {
	for i, comment := range p.Comments {
		if comment.ID == commentID {
			p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
			return nil
		}
	}
	return ErrCommentNotFound
}

// IsPublished reports whether the post is visible in listings.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// HasCategory reports whether the post is tagged with categoryID.
func (p *Post) HasCategory(categoryID string) bool {
	for _, id := range p.Categories {
		if id == categoryID {
			return true
		}
	}
	return false
}

// Matches reports whether query occurs in the title or the content,
// ignoring case.
func (p *Post) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Content), q)
}

// ApplyPatch copies the fields present in patch onto the post and reports
// whether the title changed.
func (p *Post) ApplyPatch(patch PostPatch) (titleChanged bool) {
	if title, ok := patch.Title.Get(); ok {
		title = strings.TrimSpace(title)
		titleChanged = title != p.Title
		p.Title = title
	}
	if content, ok := patch.Content.Get(); ok {
		p.Content = content
	}
	if excerpt, ok := patch.Excerpt.Get(); ok {
		p.Excerpt = excerpt
	}
	if categories, ok := patch.Categories.Get(); ok {
		p.Categories = uniqueIDs(categories)
	}
	if status, ok := patch.Status.Get(); ok {
		p.Status = status
	}
	return titleChanged
}

// NewerThan orders posts by creation time, newest first. Ties fall back to
// the id so the order is stable across calls.
func (p *Post) NewerThan(other *Post) bool {
	if !p.CreatedAt.Equal(other.CreatedAt) {
		return p.CreatedAt.After(other.CreatedAt)
	}
	return p.ID > other.ID
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
