package model

import "time"

// Post is the content unit. GroupID is nullable: deleting a group keeps
// its posts and clears the reference. CreatedAt is set once at creation;
// updates go through a column whitelist and never touch it.
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_post_author;not null" json:"author_id"`
	GroupID   *string   `gorm:"type:varchar(36);index:idx_post_group" json:"group_id"`
	Image     string    `gorm:"type:varchar(255)" json:"image,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_post_created" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Post) TableName() string { return "posts" }
