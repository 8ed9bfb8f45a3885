package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"yatube/internal/model"
)

// CommentRow is a comment joined with its author's username.
type CommentRow struct {
	ID             string    `json:"id"`
	PostID         string    `json:"post_id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByPost(ctx context.Context, postID string) ([]CommentRow, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]CommentRow, error) {
	var rows []CommentRow
	err := r.db.WithContext(ctx).
		Table("comments").
		Select(
			"comments.id", "comments.post_id", "comments.author_id",
			"users.username AS author_username",
			"comments.text", "comments.created_at",
		).
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at DESC, comments.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}
