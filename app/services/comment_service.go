package services

import (
	"context"
	"strings"
	"time"

	"inkwell/app/logger"
	"inkwell/app/models"
	"inkwell/app/repositories"

	"go.opentelemetry.io/otel/attribute"
)

// CommentService manages the comments embedded in a post. Every change loads
// the whole post and saves it back.
type CommentService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
	log   *logger.Logger
	now   func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(posts repositories.PostRepository, users repositories.UserRepository, log *logger.Logger) *CommentService {
	if log == nil {
		log = logger.Nop()
	}
	return &CommentService{
		posts: posts,
		users: users,
		log:   log.With("service", "CommentService"),
		now:   time.Now,
	}
}

// Add appends a comment by principal to the post and returns the post's
// comments.
func (s *CommentService) Add(ctx context.Context, principal models.Principal, postID, text string) (comments []models.CommentView, err error) {
	_, span := startSpan(ctx, "CommentService.Add", attribute.String("post.id", postID))
	defer func() { finishSpan(span, err) }()

	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	comment := &models.Comment{UserID: principal.ID, Text: strings.TrimSpace(text)}
	comment.BeforeCreate(s.now())
	if err := comment.Validate(); err != nil {
		return nil, invalid(err)
	}

	post, err := s.load(postID)
	if err != nil {
		return nil, err
	}
	if err := post.AddComment(comment); err != nil {
		return nil, err
	}
	if err := s.posts.Update(post); err != nil {
		return nil, storeError(err, "save comment", "Post not found")
	}

	s.log.Debug("comment added", "post_id", postID, "comment_id", comment.ID)
	return newViewResolver(s.users, nil).comments(post.Comments)
}

// Delete removes one comment from the post. Only the comment's author or an
// admin may delete it.
func (s *CommentService) Delete(ctx context.Context, principal models.Principal, postID, commentID string) (comments []models.CommentView, err error) {
	_, span := startSpan(ctx, "CommentService.Delete",
		attribute.String("post.id", postID),
		attribute.String("comment.id", commentID),
	)
	defer func() { finishSpan(span, err) }()

	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	post, err := s.load(postID)
	if err != nil {
		return nil, err
	}
	comment, ok := post.FindComment(commentID)
	if !ok {
		return nil, newError(ErrNotFound, "Comment not found")
	}
	if !principal.CanModify(comment.UserID) {
		return nil, newError(ErrForbidden, "Not authorized to delete this comment")
	}
	if err := post.RemoveComment(commentID); err != nil {
		return nil, newError(ErrNotFound, "Comment not found")
	}
	if err := s.posts.Update(post); err != nil {
		return nil, storeError(err, "delete comment", "Post not found")
	}

	s.log.Debug("comment deleted", "post_id", postID, "comment_id", commentID, "by", principal.ID)
	return newViewResolver(s.users, nil).comments(post.Comments)
}

func (s *CommentService) load(id string) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if err != nil {
		return nil, storeError(err, "load post", "Post not found")
	}
	return post, nil
}
