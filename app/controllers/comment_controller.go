package controllers

import (
	"net/http"

	"inkwell/app/auth"
	"inkwell/app/logger"
	"inkwell/app/services"

	"github.com/gorilla/mux"
)

// CommentController handles HTTP requests for the comments of a post
type CommentController struct {
	commentService *services.CommentService
	log            *logger.Logger
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, log *logger.Logger) *CommentController {
	if log == nil {
		log = logger.Nop()
	}
	return &CommentController{
		commentService: commentService,
		log:            log.With("controller", "CommentController"),
	}
}

// Create adds a comment and responds with the post's comments
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var body struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		sendError(w, r, cc.log, err)
		return
	}

	comments, err := cc.commentService.Add(r.Context(), principal, mux.Vars(r)["id"], body.Text)
	if err != nil {
		sendError(w, r, cc.log, err)
		return
	}
	sendData(w, http.StatusCreated, comments)
}

// Delete removes a comment named either in the path or in the body
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	vars := mux.Vars(r)
	commentID := vars["commentId"]
	if commentID == "" {
		var body struct {
			CommentID string `json:"commentId"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			sendError(w, r, cc.log, err)
			return
		}
		commentID = body.CommentID
	}

	comments, err := cc.commentService.Delete(r.Context(), principal, vars["id"], commentID)
	if err != nil {
		sendError(w, r, cc.log, err)
		return
	}
	sendData(w, http.StatusOK, comments)
}
