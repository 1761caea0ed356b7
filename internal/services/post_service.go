package services

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
	"github.com/anonto42/blogfeed/backend/internal/storage"
	"go.uber.org/zap"
)

const invalidGroupChoice = "Select a valid choice. That choice is not one of the available choices."

type PostService struct {
	posts    repositories.PostRepository
	groups   repositories.GroupRepository
	storage  storage.Storage
	validate Validator
	log      *zap.Logger
}

func NewPostService(posts repositories.PostRepository, groups repositories.GroupRepository, store storage.Storage, validate Validator, log *zap.Logger) *PostService {
	return &PostService{posts: posts, groups: groups, storage: store, validate: validate, log: log}
}

// Groups lists the choices for the group field.
func (s *PostService) Groups(ctx context.Context) ([]models.Group, error) {
	return s.groups.ListGroups(ctx)
}

// Create validates the form and stores a new post by viewer. image may be nil.
func (s *PostService) Create(ctx context.Context, viewer *models.User, form models.PostForm, image *multipart.FileHeader) (*models.Post, error) {
	groupID, img, err := s.clean(ctx, &form, image)
	if err != nil {
		return nil, err
	}
	post := &models.Post{
		Text:     form.Text,
		AuthorID: viewer.ID,
		GroupID:  groupID,
	}
	if img != nil {
		if post.Image, err = s.storage.Save(ctx, image, storage.ImagePath(img.Extension)); err != nil {
			return nil, err
		}
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.discardImage(ctx, post.Image)
		return nil, err
	}
	return post, nil
}

// Editable returns the post if viewer wrote it. For anyone else it returns
// the post together with a Forbidden error.
func (s *PostService) Editable(ctx context.Context, viewer *models.User, username string, postID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByAuthor(ctx, username, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != viewer.ID {
		return post, apperrors.New(apperrors.KindForbidden, "only the author can edit this post")
	}
	return post, nil
}

// Edit updates text, group and, when a new file is uploaded, the image.
// A replaced image is removed from storage. pub_date is left untouched.
func (s *PostService) Edit(ctx context.Context, viewer *models.User, username string, postID uint, form models.PostForm, image *multipart.FileHeader) (*models.Post, error) {
	post, err := s.Editable(ctx, viewer, username, postID)
	if err != nil {
		return post, err
	}
	groupID, img, err := s.clean(ctx, &form, image)
	if err != nil {
		return post, err
	}
	post.Text = form.Text
	post.GroupID = groupID
	previous := post.Image
	if img != nil {
		if post.Image, err = s.storage.Save(ctx, image, storage.ImagePath(img.Extension)); err != nil {
			post.Image = previous
			return post, err
		}
	}
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		if post.Image != previous {
			s.discardImage(ctx, post.Image)
			post.Image = previous
		}
		return post, err
	}
	if post.Image != previous {
		s.discardImage(ctx, previous)
	}
	return post, nil
}

// discardImage removes an image no post references any more.
func (s *PostService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.storage.Delete(ctx, url); err != nil {
		s.log.Warn("failed to remove image", zap.String("url", url), zap.Error(err))
	}
}

// clean runs every check and reports all field errors together.
func (s *PostService) clean(ctx context.Context, form *models.PostForm, image *multipart.FileHeader) (*uint, *storage.Image, error) {
	form.Text = strings.TrimSpace(form.Text)
	form.Group = strings.TrimSpace(form.Group)

	fields := map[string]string{}
	if err := s.validate.Validate(form); err != nil {
		if !apperrors.IsValidation(err) {
			return nil, nil, err
		}
		for k, v := range apperrors.FieldErrors(err) {
			fields[k] = v
		}
	}

	var groupID *uint
	if _, bad := fields["group"]; !bad && form.Group != "" {
		id, err := strconv.ParseUint(form.Group, 10, 32)
		if err != nil {
			fields["group"] = invalidGroupChoice
		} else if group, err := s.groups.GetGroupByID(ctx, uint(id)); err != nil {
			if !apperrors.IsNotFound(err) {
				return nil, nil, err
			}
			fields["group"] = invalidGroupChoice
		} else {
			groupID = &group.ID
		}
	}

	var img *storage.Image
	if image != nil {
		var err error
		if img, err = storage.ValidateImage(image); err != nil {
			if !apperrors.IsValidation(err) {
				return nil, nil, err
			}
			fields["image"] = apperrors.FieldErrors(err)["image"]
		}
	}

	if len(fields) > 0 {
		return nil, nil, apperrors.Invalid(fields)
	}
	return groupID, img, nil
}
