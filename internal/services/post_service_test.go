package services_test

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/anonto42/blogfeed/backend/internal/storage"
	"github.com/anonto42/blogfeed/backend/internal/testutil"
	"github.com/anonto42/blogfeed/backend/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var smallGIF = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")

func newPostService(t *testing.T, db *gorm.DB) (*services.PostService, string) {
	root := t.TempDir()
	local, err := storage.NewLocalStorage(root, "/media/", zap.NewNop())
	require.NoError(t, err)
	return services.NewPostService(
		repositories.NewPostgresPostRepository(db),
		repositories.NewPostgresGroupRepository(db),
		local,
		validators.NewValidator(),
		zap.NewNop(),
	), root
}

func upload(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["image"][0]
}

func TestCreatePost(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	vlad := f.User("vlad")
	group := f.Group("Группа", "test-slug")
	svc, root := newPostService(t, db)

	post, err := svc.Create(testutil.Ctx(), vlad, models.PostForm{
		Text:  "Тестовый текст",
		Group: strconv.Itoa(int(group.ID)),
	}, upload(t, "small.gif", smallGIF))
	require.NoError(t, err)

	assert.Equal(t, vlad.ID, post.AuthorID)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)
	assert.False(t, post.PubDate.IsZero())
	require.True(t, strings.HasPrefix(post.Image, "/media/posts/"))
	_, err = os.Stat(filepath.Join(root, strings.TrimPrefix(post.Image, "/media/")))
	assert.NoError(t, err)
}

func TestCreatePostReportsAllFieldErrors(t *testing.T) {
	db := testutil.NewDB(t)
	vlad := testutil.NewFixtures(t, db).User("vlad")
	svc, _ := newPostService(t, db)

	_, err := svc.Create(testutil.Ctx(), vlad, models.PostForm{Text: "  ", Group: "42"}, upload(t, "notes.txt", []byte("hi")))

	require.True(t, apperrors.IsValidation(err))
	fields := apperrors.FieldErrors(err)
	assert.Equal(t, "This field is required.", fields["text"])
	assert.Contains(t, fields["group"], "Select a valid choice")
	assert.NotEmpty(t, fields["image"])

	var n int64
	require.NoError(t, db.Model(&models.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestEditPost(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	vlad := f.User("vlad")
	post := f.Post(vlad, f.Group("Группа", "test-slug"), "before")
	svc, _ := newPostService(t, db)

	edited, err := svc.Edit(testutil.Ctx(), vlad, "vlad", post.ID, models.PostForm{Text: "after"}, nil)
	require.NoError(t, err)
	assert.Nil(t, edited.GroupID)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "after", stored.Text)
	assert.Nil(t, stored.GroupID)
	assert.True(t, post.PubDate.Equal(stored.PubDate))
}

func TestEditPostByOtherUser(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixtures(t, db)
	vlad, leo := f.User("vlad"), f.User("leo")
	post := f.Post(vlad, nil, "mine")
	svc, _ := newPostService(t, db)

	got, err := svc.Edit(testutil.Ctx(), leo, "vlad", post.ID, models.PostForm{Text: "hijack"}, nil)
	assert.True(t, apperrors.IsForbidden(err))
	require.NotNil(t, got)
	assert.Equal(t, post.ID, got.ID)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "mine", stored.Text)

	_, err = svc.Editable(testutil.Ctx(), leo, "leo", post.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func storedImages(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(root, "posts"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func TestEditPostReplacesImage(t *testing.T) {
	db := testutil.NewDB(t)
	vlad := testutil.NewFixtures(t, db).User("vlad")
	svc, root := newPostService(t, db)

	post, err := svc.Create(testutil.Ctx(), vlad, models.PostForm{Text: "with image"}, upload(t, "first.gif", smallGIF))
	require.NoError(t, err)
	first := post.Image

	edited, err := svc.Edit(testutil.Ctx(), vlad, "vlad", post.ID, models.PostForm{Text: "new image"}, upload(t, "second.gif", smallGIF))
	require.NoError(t, err)

	assert.NotEqual(t, first, edited.Image)
	assert.Equal(t, []string{strings.TrimPrefix(edited.Image, "/media/posts/")}, storedImages(t, root))

	kept, err := svc.Edit(testutil.Ctx(), vlad, "vlad", post.ID, models.PostForm{Text: "text only"}, nil)
	require.NoError(t, err)
	assert.Equal(t, edited.Image, kept.Image)
	assert.Len(t, storedImages(t, root), 1)
}

func TestCreatePostFailureRemovesImage(t *testing.T) {
	db := testutil.NewDB(t)
	svc, root := newPostService(t, db)
	ghost := &models.User{ID: 9999, Username: "ghost"}

	_, err := svc.Create(testutil.Ctx(), ghost, models.PostForm{Text: "orphan"}, upload(t, "small.gif", smallGIF))

	require.Error(t, err)
	assert.Empty(t, storedImages(t, root))
}
