package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"yatube/internal/model"
)

// PostRow is the feed projection of a post: the post columns plus the
// author username and group slug the listing views render.
type PostRow struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	GroupID        *string   `json:"group_id"`
	GroupSlug      *string   `json:"group_slug"`
	Image          string    `json:"image,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	GetRow(ctx context.Context, id string) (*PostRow, error)
	// Update writes the given columns only; created_at is never part of
	// the set, so the publication timestamp stays immutable.
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, offset, limit int) ([]PostRow, error)
	ListByGroup(ctx context.Context, groupID string, offset, limit int) ([]PostRow, error)
	ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]PostRow, error)
	ListFollowed(ctx context.Context, userID string, offset, limit int) ([]PostRow, error)

	CountAll(ctx context.Context) (int64, error)
	CountByGroup(ctx context.Context, groupID string) (int64, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	CountFollowed(ctx context.Context, userID string) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetRow(ctx context.Context, id string) (*PostRow, error) {
	var rows []PostRow
	if err := r.rowQuery(ctx).Where("posts.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *postRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	// comments follow their post
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Post{}).Error
	})
}

// rowQuery builds the joined newest-first projection every feed shares.
func (r *postRepository) rowQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select(
			"posts.id", "posts.text", "posts.author_id",
			"users.username AS author_username",
			"posts.group_id", "groups.slug AS group_slug",
			"posts.image", "posts.created_at",
		).
		Joins("JOIN users ON users.id = posts.author_id").
		Joins("LEFT JOIN groups ON groups.id = posts.group_id").
		Order("posts.created_at DESC, posts.id DESC")
}

func (r *postRepository) scan(q *gorm.DB, offset, limit int) ([]PostRow, error) {
	rows := make([]PostRow, 0, limit)
	err := q.Offset(offset).Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *postRepository) List(ctx context.Context, offset, limit int) ([]PostRow, error) {
	return r.scan(r.rowQuery(ctx), offset, limit)
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID string, offset, limit int) ([]PostRow, error) {
	return r.scan(r.rowQuery(ctx).Where("posts.group_id = ?", groupID), offset, limit)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]PostRow, error) {
	return r.scan(r.rowQuery(ctx).Where("posts.author_id = ?", authorID), offset, limit)
}

func (r *postRepository) ListFollowed(ctx context.Context, userID string, offset, limit int) ([]PostRow, error) {
	return r.scan(
		r.rowQuery(ctx).
			Joins("JOIN follows ON follows.author_id = posts.author_id").
			Where("follows.user_id = ?", userID),
		offset, limit,
	)
}

func (r *postRepository) CountAll(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) CountByGroup(ctx context.Context, groupID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("group_id = ?", groupID).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) CountFollowed(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Table("posts").
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.user_id = ?", userID).
		Count(&cnt).Error
	return cnt, err
}
