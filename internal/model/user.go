package model

import "time"

// User is the identity record posts, comments and follow edges reference.
// Authentication itself lives outside this service; we only keep what the
// content model needs.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"type:varchar(254)" json:"email,omitempty"`
	Password  string    `gorm:"type:varchar(128)" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "users" }
