package services

import (
	"context"
	"strings"

	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
)

type CommentService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	validate Validator
}

func NewCommentService(posts repositories.PostRepository, comments repositories.CommentRepository, validate Validator) *CommentService {
	return &CommentService{posts: posts, comments: comments, validate: validate}
}

// AddComment resolves the post first, so a missing post is NotFound even
// when the form is invalid. An invalid form returns a validation error and
// writes nothing.
func (s *CommentService) AddComment(ctx context.Context, viewer *models.User, username string, postID uint, form models.CommentForm) (*models.Comment, error) {
	post, err := s.posts.GetPostByAuthor(ctx, username, postID)
	if err != nil {
		return nil, err
	}
	form.Text = strings.TrimSpace(form.Text)
	if err := s.validate.Validate(&form); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		PostID:   &post.ID,
		AuthorID: viewer.ID,
		Text:     form.Text,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
