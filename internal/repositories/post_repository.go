package repositories

import (
	"context"

	"github.com/anonto42/blogfeed/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
// Every list method returns posts newest first.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetPostByAuthor(ctx context.Context, username string, id uint) (*models.Post, error)

	ListPosts(ctx context.Context, offset, limit int) ([]models.Post, error)
	CountPosts(ctx context.Context) (int64, error)
	ListPostsByGroup(ctx context.Context, groupID uint, offset, limit int) ([]models.Post, error)
	CountPostsByGroup(ctx context.Context, groupID uint) (int64, error)
	ListPostsByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]models.Post, error)
	CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error)
	ListFollowingPosts(ctx context.Context, followerID uint, offset, limit int) ([]models.Post, error)
	CountFollowingPosts(ctx context.Context, followerID uint) (int64, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.pub_date DESC").Order("posts.id DESC")
}

func withAuthorAndGroup(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Group")
}

func page(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}

func byGroup(groupID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.group_id = ?", groupID)
	}
}

func byAuthor(authorID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.author_id = ?", authorID)
	}
}

// followedBy keeps posts whose author is followed by followerID.
func followedBy(followerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN follows ON follows.author_id = posts.author_id AND follows.user_id = ?", followerID)
	}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error
}

// UpdatePost writes the editable columns only; pub_date and author never change.
func (r *PostgresPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "post")
	}
	return nil
}

func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Scopes(withAuthorAndGroup).First(&post, id).Error; err != nil {
		return nil, translate(err, "post")
	}
	return &post, nil
}

// GetPostByAuthor finds post id only if it was written by username.
func (r *PostgresPostRepository) GetPostByAuthor(ctx context.Context, username string, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Scopes(withAuthorAndGroup).
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.id = ? AND users.username = ?", id, username).
		First(&post).Error
	if err != nil {
		return nil, translate(err, "post")
	}
	return &post, nil
}

func (r *PostgresPostRepository) list(ctx context.Context, offset, limit int, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Post, error) {
	posts := []models.Post{}
	scopes = append(scopes, withAuthorAndGroup, newestFirst, page(offset, limit))
	if err := r.db.WithContext(ctx).Scopes(scopes...).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostgresPostRepository) count(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(scopes...).Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) ListPosts(ctx context.Context, offset, limit int) ([]models.Post, error) {
	return r.list(ctx, offset, limit)
}

func (r *PostgresPostRepository) CountPosts(ctx context.Context) (int64, error) {
	return r.count(ctx)
}

func (r *PostgresPostRepository) ListPostsByGroup(ctx context.Context, groupID uint, offset, limit int) ([]models.Post, error) {
	return r.list(ctx, offset, limit, byGroup(groupID))
}

func (r *PostgresPostRepository) CountPostsByGroup(ctx context.Context, groupID uint) (int64, error) {
	return r.count(ctx, byGroup(groupID))
}

func (r *PostgresPostRepository) ListPostsByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]models.Post, error) {
	return r.list(ctx, offset, limit, byAuthor(authorID))
}

func (r *PostgresPostRepository) CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return r.count(ctx, byAuthor(authorID))
}

func (r *PostgresPostRepository) ListFollowingPosts(ctx context.Context, followerID uint, offset, limit int) ([]models.Post, error) {
	return r.list(ctx, offset, limit, followedBy(followerID))
}

func (r *PostgresPostRepository) CountFollowingPosts(ctx context.Context, followerID uint) (int64, error) {
	return r.count(ctx, followedBy(followerID))
}
