package services

import (
	"context"

	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
	"go.uber.org/zap"
)

type FollowService struct {
	users   repositories.UserRepository
	follows repositories.FollowRepository
	log     *zap.Logger
}

func NewFollowService(users repositories.UserRepository, follows repositories.FollowRepository, log *zap.Logger) *FollowService {
	return &FollowService{users: users, follows: follows, log: log}
}

// Follow makes viewer follow username. Following yourself or following
// twice is a no-op. The resolved author is returned.
func (s *FollowService) Follow(ctx context.Context, viewer *models.User, username string) (*models.User, error) {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author.ID == viewer.ID {
		return author, nil
	}
	created, err := s.follows.CreateFollow(ctx, viewer.ID, author.ID)
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Debug("follow created", zap.Uint("user_id", viewer.ID), zap.Uint("author_id", author.ID))
	}
	return author, nil
}

// Unfollow removes the edge if there is one.
func (s *FollowService) Unfollow(ctx context.Context, viewer *models.User, username string) (*models.User, error) {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	removed, err := s.follows.DeleteFollow(ctx, viewer.ID, author.ID)
	if err != nil {
		return nil, err
	}
	if removed {
		s.log.Debug("follow removed", zap.Uint("user_id", viewer.ID), zap.Uint("author_id", author.ID))
	}
	return author, nil
}
