package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"yatube/internal/model"
	"yatube/internal/repository"
)

// PageSize is the fixed feed page length.
const PageSize = 10

// FeedPage is one slice of a feed: the rows, the 1-based page number and
// the total match count.
type FeedPage struct {
	Posts []repository.PostRow `json:"posts"`
	Page  int                  `json:"page"`
	Total int64                `json:"total"`
}

// ProfileView is an author page: the author, their feed page, and the
// following flag. The flag is true when the author has at least one
// follower, whoever that is.
type ProfileView struct {
	Author    *model.User `json:"author"`
	Following bool        `json:"following"`
	Feed      *FeedPage   `json:"feed"`
}

type FeedService interface {
	Index(ctx context.Context, page int) (*FeedPage, error)
	Group(ctx context.Context, slug string, page int) (*model.Group, *FeedPage, error)
	Profile(ctx context.Context, username string, page int) (*ProfileView, error)
	Followed(ctx context.Context, userID string, page int) (*FeedPage, error)
}

type feedService struct {
	posts   repository.PostRepository
	groups  repository.GroupRepository
	users   repository.UserRepository
	follows repository.FollowRepository
}

func NewFeedService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	follows repository.FollowRepository,
) FeedService {
	return &feedService{posts: posts, groups: groups, users: users, follows: follows}
}

// clampPage keeps pages 1-based; anything below 1 means page 1.
func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func offsetFor(page int) int { return (page - 1) * PageSize }

func (s *feedService) Index(ctx context.Context, page int) (*FeedPage, error) {
	page = clampPage(page)
	rows, err := s.posts.List(ctx, offsetFor(page), PageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.posts.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Posts: rows, Page: page, Total: total}, nil
}

func (s *feedService) Group(ctx context.Context, slug string, page int) (*model.Group, *FeedPage, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	page = clampPage(page)
	rows, err := s.posts.ListByGroup(ctx, group.ID, offsetFor(page), PageSize)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.posts.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, nil, err
	}
	return group, &FeedPage{Posts: rows, Page: page, Total: total}, nil
}

func (s *feedService) Profile(ctx context.Context, username string, page int) (*ProfileView, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	page = clampPage(page)
	rows, err := s.posts.ListByAuthor(ctx, author.ID, offsetFor(page), PageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.posts.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.HasFollowers(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{
		Author:    author,
		Following: following,
		Feed:      &FeedPage{Posts: rows, Page: page, Total: total},
	}, nil
}

func (s *feedService) Followed(ctx context.Context, userID string, page int) (*FeedPage, error) {
	page = clampPage(page)
	rows, err := s.posts.ListFollowed(ctx, userID, offsetFor(page), PageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.posts.CountFollowed(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Posts: rows, Page: page, Total: total}, nil
}
