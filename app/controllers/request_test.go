package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inkwell/app/models"
	"inkwell/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    []string
		wantErr bool
	}{
		{name: "json array", raw: []string{`["a","b"]`}, want: []string{"a", "b"}},
		{name: "comma list", raw: []string{"a,b"}, want: []string{"a", "b"}},
		{name: "repeated", raw: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "blank clears", raw: []string{""}, want: []string{}},
		{name: "broken json", raw: []string{"[a"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCategories(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, services.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryInt(t *testing.T) {
	q := url.Values{"page": {"3"}, "zero": {"0"}, "word": {"two"}}

	n, err := queryInt(q, "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = queryInt(q, "missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = queryInt(q, "zero", 1)
	assert.EqualError(t, err, "zero must be a positive integer")
	_, err = queryInt(q, "word", 1)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestParsePostRequestJSON(t *testing.T) {
	r := httptest.NewRequest("PUT", "/api/posts/1", strings.NewReader(`{"title":"New","categories":[]}`))
	r.Header.Set("Content-Type", "application/json")

	patch, image, err := parsePostRequest(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Nil(t, image)

	title, ok := patch.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "New", title)
	assert.False(t, patch.Content.IsSet())
	categories, ok := patch.Categories.Get()
	assert.True(t, ok)
	assert.Empty(t, categories)
}

func TestParsePostRequestEmptyBody(t *testing.T) {
	r := httptest.NewRequest("PUT", "/api/posts/1", nil)

	patch, _, err := parsePostRequest(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.True(t, patch.IsEmpty())
}

func TestParsePostRequestBadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/posts", strings.NewReader(`{"title":`))
	r.Header.Set("Content-Type", "application/json")

	_, _, err := parsePostRequest(httptest.NewRecorder(), r)
	assert.EqualError(t, err, "Invalid JSON body")
}

func TestParsePostRequestForm(t *testing.T) {
	form := url.Values{"title": {"Form"}, "status": {"draft"}, "categories": {"c1,c2"}}
	r := httptest.NewRequest("POST", "/api/posts", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	patch, image, err := parsePostRequest(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Nil(t, image)

	input := inputFromPatch(patch)
	assert.Equal(t, services.PostInput{
		Title:      "Form",
		Categories: []string{"c1", "c2"},
		Status:     models.StatusDraft,
	}, input)
}

func TestParsePostRequestMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Photo"))
	require.NoError(t, mw.WriteField("categories", `["c1"]`))
	fw, err := mw.CreateFormFile("featuredImage", "me.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\xff\xd8\xff\xe0 jpeg"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest("POST", "/api/posts", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	patch, image, err := parsePostRequest(httptest.NewRecorder(), r)
	require.NoError(t, err)
	require.NotNil(t, image)
	assert.Equal(t, "me.jpg", image.Filename)
	assert.Equal(t, []byte("\xff\xd8\xff\xe0 jpeg"), image.Data)

	categories, _ := patch.Categories.Get()
	assert.Equal(t, []string{"c1"}, categories)
	assert.False(t, patch.Content.IsSet())
}

func TestParsePostRequestMultipartWithoutImage(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("content", "Text only"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPut, "/api/posts/1", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	patch, image, err := parsePostRequest(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Nil(t, image)
	content, _ := patch.Content.Get()
	assert.Equal(t, "Text only", content)
}
