package models

import (
	"fmt"
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^\w-]+`)

// Slugify lower-cases s, turns spaces into hyphens and drops everything that
// is not a word character or a hyphen.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

// SlugCandidate returns the slug to try on the given attempt, starting at 1.
// The first attempt is the base itself, later ones get a numeric suffix.
func SlugCandidate(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}
