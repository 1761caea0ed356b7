package services_test

import (
	"testing"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/anonto42/blogfeed/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newFollowService(db *gorm.DB) *services.FollowService {
	return services.NewFollowService(
		repositories.NewPostgresUserRepository(db),
		repositories.NewPostgresFollowRepository(db),
		zap.NewNop(),
	)
}

func countFollows(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&n).Error)
	return n
}

func TestFollowIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	a := f.User("a")
	f.User("b")
	svc := newFollowService(db)

	for i := 0; i < 3; i++ {
		author, err := svc.Follow(testutil.Ctx(), a, "b")
		require.NoError(t, err)
		assert.Equal(t, "b", author.Username)
	}
	assert.Equal(t, int64(1), countFollows(t, db))
}

func TestFollowSelfIsNoop(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.NewFixtures(t, db).User("a")
	svc := newFollowService(db)

	_, err := svc.Follow(testutil.Ctx(), a, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), countFollows(t, db))
}

func TestUnfollow(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	a, b := f.User("a"), f.User("b")
	f.Follow(a, b)
	svc := newFollowService(db)

	_, err := svc.Unfollow(testutil.Ctx(), a, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(0), countFollows(t, db))

	_, err = svc.Unfollow(testutil.Ctx(), a, "b")
	assert.NoError(t, err)
}

func TestFollowUnknownAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.NewFixtures(t, db).User("a")
	svc := newFollowService(db)

	_, err := svc.Follow(testutil.Ctx(), a, "ghost")
	assert.True(t, apperrors.IsNotFound(err))
	_, err = svc.Unfollow(testutil.Ctx(), a, "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}
