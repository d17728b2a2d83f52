package repositories

import (
	"sort"
	"strings"

	"inkwell/app/models"
)

// PostFilter selects posts for listings. Zero fields do not filter.
type PostFilter struct {
	PublishedOnly bool
	CategoryID    string
	Search        string
}

// Match reports whether post passes the filter.
func (f PostFilter) Match(post *models.Post) bool {
	if f.PublishedOnly && !post.IsPublished() {
		return false
	}
	if f.CategoryID != "" && !post.HasCategory(f.CategoryID) {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" && !post.Matches(q) {
		return false
	}
	return true
}

// SortNewestFirst orders posts by creation time, newest first.
func SortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].NewerThan(posts[j])
	})
}

// Paginate returns posts[offset:offset+limit] clamped to the slice bounds. A
// limit of zero or less returns everything from offset on.
func Paginate(posts []*models.Post, limit, offset int) []*models.Post {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(posts) {
		return []*models.Post{}
	}
	end := len(posts)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return posts[offset:end]
}
