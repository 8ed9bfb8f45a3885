package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yatube/internal/model"
	"yatube/internal/repository"
)

// PostInput carries the writable post fields. The author is never part of
// it: whatever a client submits, the author is the acting identity.
type PostInput struct {
	Text      string
	GroupSlug string
	Image     string
}

// PostDetail is the detail view payload: the post, its comments newest
// first, the comment count and the author's total post count.
type PostDetail struct {
	Post            *repository.PostRow     `json:"post"`
	Comments        []repository.CommentRow `json:"comments"`
	CommentCount    int64                   `json:"comment_count"`
	AuthorPostCount int64                   `json:"author_post_count"`
}

type PostService interface {
	Create(ctx context.Context, authorID string, in PostInput) (*model.Post, error)
	Detail(ctx context.Context, id string) (*PostDetail, error)
	// GetForEdit returns the post's feed row, only to its author; anyone
	// else gets ErrNotAuthor. The row carries the group slug the edit
	// form redisplays.
	GetForEdit(ctx context.Context, actorID, id string) (*repository.PostRow, error)
	Update(ctx context.Context, actorID, id string, in PostInput) error
	Delete(ctx context.Context, actorID, id string) error
	AddComment(ctx context.Context, actorID, postID, text string) (*model.Comment, error)
}

type postService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	comments repository.CommentRepository
}

func NewPostService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	comments repository.CommentRepository,
) PostService {
	return &postService{posts: posts, groups: groups, comments: comments}
}

// resolveGroup maps an optional group slug to its id. An empty slug means
// no group.
func (s *postService) resolveGroup(ctx context.Context, slug string) (*string, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group.ID, nil
}

func (s *postService) Create(ctx context.Context, authorID string, in PostInput) (*model.Post, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrTextRequired
	}
	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}
	post := &model.Post{
		ID:       uuid.New().String(),
		Text:     in.Text,
		AuthorID: authorID,
		GroupID:  groupID,
		Image:    in.Image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Detail(ctx context.Context, id string) (*PostDetail, error) {
	row, err := s.posts.GetRow(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	commentCount, err := s.comments.CountByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	authorPostCount, err := s.posts.CountByAuthor(ctx, row.AuthorID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{
		Post:            row,
		Comments:        comments,
		CommentCount:    commentCount,
		AuthorPostCount: authorPostCount,
	}, nil
}

func (s *postService) GetForEdit(ctx context.Context, actorID, id string) (*repository.PostRow, error) {
	row, err := s.posts.GetRow(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if row.AuthorID != actorID {
		return nil, ErrNotAuthor
	}
	return row, nil
}

func (s *postService) Update(ctx context.Context, actorID, id string, in PostInput) error {
	if _, err := s.GetForEdit(ctx, actorID, id); err != nil {
		return err
	}
	if strings.TrimSpace(in.Text) == "" {
		return ErrTextRequired
	}
	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return err
	}
	fields := map[string]any{
		"text":     in.Text,
		"group_id": groupID,
	}
	if in.Image != "" {
		fields["image"] = in.Image
	}
	return s.posts.Update(ctx, id, fields)
}

func (s *postService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.GetForEdit(ctx, actorID, id); err != nil {
		return err
	}
	return s.posts.Delete(ctx, id)
}

func (s *postService) AddComment(ctx context.Context, actorID, postID, text string) (*model.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}
	comment := &model.Comment{
		ID:       uuid.New().String(),
		PostID:   postID,
		AuthorID: actorID,
		Text:     text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
