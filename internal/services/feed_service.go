package services

import (
	"context"

	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/pagination"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
)

// FeedPage is one page of a feed, newest post first.
type FeedPage struct {
	Posts []models.Post
	Page  pagination.Page
}

type GroupFeed struct {
	FeedPage
	Group *models.Group
}

type ProfileFeed struct {
	FeedPage
	Author         *models.User
	PostsCount     int64
	FollowersCount int64
	FollowingCount int64
	// Following reports whether the viewer follows Author; false for anonymous viewers.
	Following bool
}

type PostDetail struct {
	Post       *models.Post
	PostsCount int64
	Comments   []models.Comment
}

type FeedService struct {
	posts    repositories.PostRepository
	groups   repositories.GroupRepository
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	comments repositories.CommentRepository
}

func NewFeedService(
	posts repositories.PostRepository,
	groups repositories.GroupRepository,
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	comments repositories.CommentRepository,
) *FeedService {
	return &FeedService{posts: posts, groups: groups, users: users, follows: follows, comments: comments}
}

// Index is the global feed. Only the rows of the requested page are read;
// the count drives the page links and clamping.
func (s *FeedService) Index(ctx context.Context, rawPage string) (*FeedPage, error) {
	count, err := s.posts.CountPosts(ctx)
	if err != nil {
		return nil, err
	}
	pg := pageOf(count, rawPage)

	rows, err := s.posts.ListPosts(ctx, pg.Offset(), pg.Limit())
	if err != nil {
		return nil, err
	}
	return &FeedPage{Posts: rows, Page: pg}, nil
}

func (s *FeedService) Group(ctx context.Context, slug, rawPage string) (*GroupFeed, error) {
	group, err := s.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.CountPostsByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	pg := pageOf(count, rawPage)
	posts, err := s.posts.ListPostsByGroup(ctx, group.ID, pg.Offset(), pg.Limit())
	if err != nil {
		return nil, err
	}
	return &GroupFeed{FeedPage: FeedPage{Posts: posts, Page: pg}, Group: group}, nil
}

// Profile lists the posts of username. viewer may be nil.
func (s *FeedService) Profile(ctx context.Context, username, rawPage string, viewer *models.User) (*ProfileFeed, error) {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.CountPostsByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	pg := pageOf(count, rawPage)
	posts, err := s.posts.ListPostsByAuthor(ctx, author.ID, pg.Offset(), pg.Limit())
	if err != nil {
		return nil, err
	}

	feed := &ProfileFeed{
		FeedPage:   FeedPage{Posts: posts, Page: pg},
		Author:     author,
		PostsCount: count,
	}
	if feed.FollowersCount, err = s.follows.GetFollowersCount(ctx, author.ID); err != nil {
		return nil, err
	}
	if feed.FollowingCount, err = s.follows.GetFollowingCount(ctx, author.ID); err != nil {
		return nil, err
	}
	if viewer != nil {
		if feed.Following, err = s.follows.IsFollowing(ctx, viewer.ID, author.ID); err != nil {
			return nil, err
		}
	}
	return feed, nil
}

// Following lists posts by every author the viewer follows.
func (s *FeedService) Following(ctx context.Context, viewer *models.User, rawPage string) (*FeedPage, error) {
	count, err := s.posts.CountFollowingPosts(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	pg := pageOf(count, rawPage)
	posts, err := s.posts.ListFollowingPosts(ctx, viewer.ID, pg.Offset(), pg.Limit())
	if err != nil {
		return nil, err
	}
	return &FeedPage{Posts: posts, Page: pg}, nil
}

// PostDetail resolves a post by its author's username and id.
func (s *FeedService) PostDetail(ctx context.Context, username string, postID uint) (*PostDetail, error) {
	post, err := s.posts.GetPostByAuthor(ctx, username, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.CountPostsByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.GetCommentsByPostID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, PostsCount: count, Comments: comments}, nil
}
