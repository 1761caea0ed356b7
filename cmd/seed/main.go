// Seed tool: fills the database with demo users, groups, posts, comments
// and follow edges through the repositories.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/anonto42/blogfeed/backend/pkg/config"
	"github.com/anonto42/blogfeed/backend/pkg/logger"
	"github.com/anonto42/blogfeed/backend/validators"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var words = strings.Fields("go echo gorm feed post group author follow cache page comment blog morning river city code night tea book")

type seeder struct {
	r        *rand.Rand
	auth     *services.AuthService
	groups   repositories.GroupRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	follows  repositories.FollowRepository
}

func main() {
	var numUsers, numGroups, numPosts, numFollows int
	var password string
	flag.IntVar(&numUsers, "users", 10, "number of users")
	flag.IntVar(&numGroups, "groups", 3, "number of groups")
	flag.IntVar(&numPosts, "posts", 50, "number of posts")
	flag.IntVar(&numFollows, "follows", 20, "number of follow edges to attempt")
	flag.StringVar(&password, "password", "password123", "password for every seeded user")
	flag.Parse()

	cfg := config.Load()
	cfg.CacheBackend = "memory" // the seeder never touches the page cache
	zlog, err := logger.New(cfg.LogLevel, true)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.InitDB(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()
	if err := repositories.Migrate(db.Postgres); err != nil {
		zlog.Fatal("Failed to migrate", zap.Error(err))
	}

	s := newSeeder(db.Postgres, cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
	ctx := context.Background()
	start := time.Now()

	users, err := s.seedUsers(ctx, numUsers, password)
	if err != nil {
		zlog.Fatal("seed users failed", zap.Error(err))
	}
	groups, err := s.seedGroups(ctx, numGroups)
	if err != nil {
		zlog.Fatal("seed groups failed", zap.Error(err))
	}
	if err := s.seedPosts(ctx, users, groups, numPosts); err != nil {
		zlog.Fatal("seed posts failed", zap.Error(err))
	}
	created, err := s.seedFollows(ctx, users, numFollows)
	if err != nil {
		zlog.Fatal("seed follows failed", zap.Error(err))
	}

	zlog.Info("done",
		zap.Int("users", len(users)),
		zap.Int("groups", len(groups)),
		zap.Int("posts", numPosts),
		zap.Int("follows", created),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)),
	)
}

func newSeeder(db *gorm.DB, cfg *config.Config, r *rand.Rand) *seeder {
	users := repositories.NewPostgresUserRepository(db)
	return &seeder{
		r:        r,
		auth:     services.NewAuthService(users, validators.NewValidator(), cfg.JWTSecret, cfg.SessionTTL),
		groups:   repositories.NewPostgresGroupRepository(db),
		posts:    repositories.NewPostgresPostRepository(db),
		comments: repositories.NewPostgresCommentRepository(db),
		follows:  repositories.NewPostgresFollowRepository(db),
	}
}

func (s *seeder) sentence(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = words[s.r.Intn(len(words))]
	}
	return strings.Join(out, " ")
}

// seedUsers signs users up; names that already exist are skipped.
func (s *seeder) seedUsers(ctx context.Context, n int, password string) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 1; i <= n; i++ {
		user, err := s.auth.Signup(ctx, models.SignupRequest{
			Username: fmt.Sprintf("user%d", i),
			Password: password,
		})
		if apperrors.IsValidation(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no new users created; the database is probably seeded already")
	}
	return users, nil
}

func (s *seeder) seedGroups(ctx context.Context, n int) ([]*models.Group, error) {
	groups := make([]*models.Group, 0, n)
	for i := 1; i <= n; i++ {
		g := &models.Group{
			Title:       fmt.Sprintf("Group %d", i),
			Slug:        fmt.Sprintf("group-%d-%d", i, s.r.Intn(100000)),
			Description: s.sentence(12),
		}
		if err := s.groups.CreateGroup(ctx, g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// seedPosts leaves roughly a third of the posts without a group and
// comments on about half of them.
func (s *seeder) seedPosts(ctx context.Context, users []*models.User, groups []*models.Group, n int) error {
	for i := 0; i < n; i++ {
		post := &models.Post{
			Text:     s.sentence(8 + s.r.Intn(30)),
			AuthorID: users[s.r.Intn(len(users))].ID,
		}
		if len(groups) > 0 && s.r.Intn(3) > 0 {
			post.GroupID = &groups[s.r.Intn(len(groups))].ID
		}
		if err := s.posts.CreatePost(ctx, post); err != nil {
			return err
		}
		if s.r.Intn(2) == 0 {
			comment := &models.Comment{
				PostID:   &post.ID,
				AuthorID: users[s.r.Intn(len(users))].ID,
				Text:     s.sentence(6),
			}
			if err := s.comments.CreateComment(ctx, comment); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) seedFollows(ctx context.Context, users []*models.User, n int) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}
	created := 0
	for i := 0; i < n; i++ {
		a, b := users[s.r.Intn(len(users))], users[s.r.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		ok, err := s.follows.CreateFollow(ctx, a.ID, b.ID)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}
