package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"inkwell/app/models"
	"inkwell/app/services"
)

const imageField = "featuredImage"

// parsePostRequest reads a post body sent as JSON, a urlencoded form or a
// multipart form. Only the fields present in the request are set on the
// patch. The featured image is only accepted in multipart requests.
func parsePostRequest(w http.ResponseWriter, r *http.Request) (models.PostPatch, *services.ImageUpload, error) {
	var (
		patch models.PostPatch
		image *services.ImageUpload
		err   error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageSize+maxJSONBody)
		if err = r.ParseMultipartForm(services.MaxImageSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return patch, nil, services.Errorf(services.ErrValidation, "Image must be 5MB or smaller")
			}
			return patch, nil, services.Errorf(services.ErrValidation, "Invalid form body")
		}
		patch, err = formPatch(r.MultipartForm.Value)
		if err != nil {
			return patch, nil, err
		}
		image, err = readImage(r)
		return patch, image, err

	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err = r.ParseForm(); err != nil {
			return patch, nil, services.Errorf(services.ErrValidation, "Invalid form body")
		}
		patch, err = formPatch(r.PostForm)
		return patch, nil, err

	default:
		err = decodeJSON(w, r, &patch)
		return patch, nil, err
	}
}

func formPatch(values url.Values) (models.PostPatch, error) {
	var patch models.PostPatch
	if _, ok := values["title"]; ok {
		patch.Title = models.Some(values.Get("title"))
	}
	if _, ok := values["content"]; ok {
		patch.Content = models.Some(values.Get("content"))
	}
	if _, ok := values["excerpt"]; ok {
		patch.Excerpt = models.Some(values.Get("excerpt"))
	}
	if _, ok := values["status"]; ok {
		patch.Status = models.Some(models.PostStatus(values.Get("status")))
	}
	if raw, ok := values["categories"]; ok {
		categories, err := parseCategories(raw)
		if err != nil {
			return patch, err
		}
		patch.Categories = models.Some(categories)
	}
	return patch, nil
}

// parseCategories accepts a JSON array of ids, a comma separated list, or
// the field repeated once per id.
func parseCategories(raw []string) ([]string, error) {
	var ids []string
	for _, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if strings.HasPrefix(value, "[") {
			var parsed []string
			if err := json.Unmarshal([]byte(value), &parsed); err != nil {
				return nil, services.Errorf(services.ErrValidation, "Categories must be a JSON array of ids")
			}
			ids = append(ids, parsed...)
			continue
		}
		ids = append(ids, strings.Split(value, ",")...)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func readImage(r *http.Request) (*services.ImageUpload, error) {
	file, header, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", imageField, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", imageField, err)
	}
	return &services.ImageUpload{Filename: header.Filename, Data: data}, nil
}

// inputFromPatch turns a parsed create request into a PostInput.
func inputFromPatch(patch models.PostPatch) services.PostInput {
	var input services.PostInput
	input.Title, _ = patch.Title.Get()
	input.Content, _ = patch.Content.Get()
	input.Excerpt, _ = patch.Excerpt.Get()
	input.Categories, _ = patch.Categories.Get()
	input.Status, _ = patch.Status.Get()
	return input
}

// queryInt reads a positive integer query parameter, returning def when it
// is absent.
func queryInt(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, services.Errorf(services.ErrValidation, "%s must be a positive integer", name)
	}
	return n, nil
}
