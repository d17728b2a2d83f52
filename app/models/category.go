package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BeforeCreate assigns the id, slug and timestamps of a new category.
func (c *Category) BeforeCreate(now time.Time) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Slug = Slugify(c.Name)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = c.CreatedAt
}

// Validate checks the category against its field rules.
func (c *Category) Validate() error {
	return validate.Struct(c)
}
