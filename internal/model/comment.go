package model

import "time"

// Comment belongs to a post; deleting the post removes its comments.
type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PostID    string    `gorm:"type:varchar(36);index:idx_comment_post;not null" json:"post_id"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_comment_author;not null" json:"author_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string { return "comments" }
