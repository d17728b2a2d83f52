package models

import "encoding/json"

// Optional marks a value as present or absent. The zero value is absent.
// It lets partial updates tell an omitted field apart from an empty one.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// UnmarshalJSON marks the field present whenever its key appears with a
// non-null value.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// PostPatch is a merge patch for a post. Absent fields keep their stored
// value.
type PostPatch struct {
	Title      Optional[string]     `json:"title"`
	Content    Optional[string]     `json:"content"`
	Excerpt    Optional[string]     `json:"excerpt"`
	Categories Optional[[]string]   `json:"categories"`
	Status     Optional[PostStatus] `json:"status"`
}

// IsEmpty reports whether the patch carries no field at all.
func (p PostPatch) IsEmpty() bool {
	return !p.Title.IsSet() && !p.Content.IsSet() && !p.Excerpt.IsSet() &&
		!p.Categories.IsSet() && !p.Status.IsSet()
}
