package service

import (
	"context"

	"yatube/internal/repository"
)

// RelationshipService manages follow edges between users.
type RelationshipService interface {
	Follow(ctx context.Context, userID, authorID string) error
	Unfollow(ctx context.Context, userID, authorID string) error
	Following(ctx context.Context, userID, authorID string) (bool, error)
	HasFollowers(ctx context.Context, authorID string) (bool, error)
}

type relationshipService struct {
	follows repository.FollowRepository
}

func NewRelationshipService(follows repository.FollowRepository) RelationshipService {
	return &relationshipService{follows: follows}
}

// Follow creates the edge. Following yourself is a silent no-op, and so
// is following someone twice: both still count as success for the caller.
func (s *relationshipService) Follow(ctx context.Context, userID, authorID string) error {
	if userID == authorID {
		return nil
	}
	return s.follows.Create(ctx, userID, authorID)
}

// Unfollow deletes the edge if it exists; an absent edge is not an error.
func (s *relationshipService) Unfollow(ctx context.Context, userID, authorID string) error {
	return s.follows.Delete(ctx, userID, authorID)
}

func (s *relationshipService) Following(ctx context.Context, userID, authorID string) (bool, error) {
	return s.follows.Exists(ctx, userID, authorID)
}

func (s *relationshipService) HasFollowers(ctx context.Context, authorID string) (bool, error) {
	return s.follows.HasFollowers(ctx, authorID)
}
