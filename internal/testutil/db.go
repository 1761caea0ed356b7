// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database private to the test, with foreign
// keys enforced so cascades behave as they do on PostgreSQL.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "blogfeed.db") + "?_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repositories.Migrate(db))
	return db
}

// Fixtures creates rows directly through GORM.
type Fixtures struct {
	t    *testing.T
	db   *gorm.DB
	base time.Time
	n    int
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db, base: time.Date(2021, 4, 20, 11, 31, 0, 0, time.UTC)}
}

func (f *Fixtures) User(username string) *models.User {
	f.t.Helper()
	u := &models.User{Username: username}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *Fixtures) Group(title, slug string) *models.Group {
	f.t.Helper()
	g := &models.Group{Title: title, Slug: slug, Description: "Описание"}
	require.NoError(f.t, f.db.Create(g).Error)
	return g
}

// Post creates a post whose pub_date is one minute after the previous
// fixture post, so creation order is also pub_date order.
func (f *Fixtures) Post(author *models.User, group *models.Group, text string) *models.Post {
	f.t.Helper()
	f.n++
	p := &models.Post{
		Text:     text,
		AuthorID: author.ID,
		PubDate:  f.base.Add(time.Duration(f.n) * time.Minute),
	}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(f.t, f.db.Omit("Author", "Group").Create(p).Error)
	return p
}

func (f *Fixtures) Comment(author *models.User, post *models.Post, text string) *models.Comment {
	f.t.Helper()
	c := &models.Comment{Text: text, AuthorID: author.ID, PostID: &post.ID}
	require.NoError(f.t, f.db.Omit("Author", "Post").Create(c).Error)
	return c
}

func (f *Fixtures) Follow(user, author *models.User) {
	f.t.Helper()
	require.NoError(f.t, f.db.Omit("User", "Author").Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error)
}

// Ctx is a background context for repository calls in tests.
func Ctx() context.Context {
	return context.Background()
}
