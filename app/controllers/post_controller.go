package controllers

import (
	"net/http"

	"inkwell/app/auth"
	"inkwell/app/logger"
	"inkwell/app/models"
	"inkwell/app/services"

	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	log         *logger.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, log *logger.Logger) *PostController {
	if log == nil {
		log = logger.Nop()
	}
	return &PostController{
		postService: postService,
		log:         log.With("controller", "PostController"),
	}
}

// Index lists published posts one page at a time
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := queryInt(q, "page", 1)
	if err != nil {
		sendError(w, r, pc.log, err)
		return
	}
	limit, err := queryInt(q, "limit", services.DefaultPageSize)
	if err != nil {
		sendError(w, r, pc.log, err)
		return
	}

	result, err := pc.postService.List(r.Context(), services.ListFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		sendError(w, r, pc.log, err)
		return
	}

	sendJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*models.PostPage
	}{Success: true, PostPage: result})
}

// Search lists published posts matching the query parameter
func (pc *PostController) Search(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		sendError(w, r, pc.log, err)
		return
	}
	sendList(w, posts)
}

// ByCategory lists published posts in a category
func (pc *PostController) ByCategory(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ByCategory(r.Context(), mux.Vars(r)["categoryId"])
	if err != nil {
		sendError(w, r, pc.log, err)
		return
	}
	sendList(w, posts)
}

// Show returns a single post with its comments
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, pc.log, err)
		return
	}
	sendData(w, http.StatusOK, post)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	patch, image, err := parsePostRequest(w, r)
	if err != nil {
		sendError(w, r, pc.log, err)
		return
	}

	post, err := pc.postService.Create(r.Context(), principal, inputFromPatch(patch), image)
	if err != nil {
		sendError(w, r, pc.log, err)
		return
	}
	sendData(w, http.StatusCreated, post)
}

// Update applies the fields present in the request to a post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	patch, image, err := parsePostRequest(w, r)
	if err != nil {
		sendError(w, r, pc.log, err)
		return
	}

	post, err := pc.postService.Update(r.Context(), principal, mux.Vars(r)["id"], patch, image)
	if err != nil {
		sendError(w, r, pc.log, err)
		return
	}
	sendData(w, http.StatusOK, post)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	if err := pc.postService.Delete(r.Context(), principal, mux.Vars(r)["id"]); err != nil {
		sendError(w, r, pc.log, err)
		return
	}
	sendMessage(w, http.StatusOK, "Post removed")
}
