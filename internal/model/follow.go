package model

import "time"

// Follow records that UserID follows AuthorID.
// idx_follow_pair = (user_id, author_id): the pair is unique, so a
// duplicate follow lands on the index and becomes a no-op.
type Follow struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index:idx_follow_user;index:idx_follow_pair,unique;not null" json:"user_id"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_follow_author;index:idx_follow_pair,unique;not null" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }
