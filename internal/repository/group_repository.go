package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yatube/internal/model"
)

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	Delete(ctx context.Context, id string) error
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository { return &groupRepository{db: db} }

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	// a duplicate slug is ignored rather than surfaced
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(group).Error
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Delete removes the group but keeps its posts: their group reference is
// cleared, never cascaded.
func (r *groupRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).
			Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Group{}).Error
	})
}
