package model

import "time"

// Group is a topic posts can be filed under. Slug is the URL-safe handle
// and is globally unique.
type Group struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (Group) TableName() string { return "groups" }
