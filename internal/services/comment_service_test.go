package services_test

import (
	"testing"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/anonto42/blogfeed/backend/internal/testutil"
	"github.com/anonto42/blogfeed/backend/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommentService(db *gorm.DB) *services.CommentService {
	return services.NewCommentService(
		repositories.NewPostgresPostRepository(db),
		repositories.NewPostgresCommentRepository(db),
		validators.NewValidator(),
	)
}

func TestAddComment(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	vlad, leo := f.User("vlad"), f.User("leo")
	post := f.Post(vlad, nil, "hello")
	svc := newCommentService(db)

	comment, err := svc.AddComment(testutil.Ctx(), leo, "vlad", post.ID, models.CommentForm{Text: "  nice post  "})
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Text)
	assert.Equal(t, leo.ID, comment.AuthorID)
	require.NotNil(t, comment.PostID)
	assert.Equal(t, post.ID, *comment.PostID)
	assert.False(t, comment.PubDate.IsZero())
}

func TestAddCommentRejectsBlankText(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	vlad := f.User("vlad")
	post := f.Post(vlad, nil, "hello")
	svc := newCommentService(db)

	_, err := svc.AddComment(testutil.Ctx(), vlad, "vlad", post.ID, models.CommentForm{Text: "   "})
	assert.True(t, apperrors.IsValidation(err))

	var n int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAddCommentMissingPost(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	vlad := f.User("vlad")
	post := f.Post(vlad, nil, "hello")
	f.User("leo")
	svc := newCommentService(db)

	_, err := svc.AddComment(testutil.Ctx(), vlad, "leo", post.ID, models.CommentForm{})
	assert.True(t, apperrors.IsNotFound(err))
}
