// Package models holds the persisted entity types shared by the bot core and
// the gorm store.
package models

import "time"

// User is a chat participant recognized by the bot. Rows are provisioned on
// first sighting of a handle and never deleted by the bot.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:64;not null"`
	Password  string `gorm:"size:128;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Project is created lazily on the first reference to an unseen tag. Name is
// uppercase-normalized; the literal "GENERAL" is the sentinel for untagged
// messages. Uniqueness is enforced by the index, not by the caller.
type Project struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:64;not null"`
	CreatedBy string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Description string `gorm:"not null"`
	Priority    string `gorm:"size:8;not null;default:P3"`
	Completed   bool   `gorm:"not null;default:false"`
	ProjectID   *uint  `gorm:"index"`
	Project     *Project
	CreatedBy   string `gorm:"size:64"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Note struct {
	ID        uint   `gorm:"primaryKey"`
	Content   string `gorm:"not null"`
	ProjectID *uint  `gorm:"index"`
	Project   *Project
	CreatedBy string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AuthKey struct {
	ID        uint   `gorm:"primaryKey"`
	Content   string `gorm:"not null"`
	ProjectID *uint  `gorm:"index"`
	Project   *Project
	CreatedBy string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
