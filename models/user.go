package models

import (
	"time"

	"gorm.io/gorm"
)

// Permission codenames understood by the attachment policy.
const (
	PermAddAttachment            = "add_attachment"
	PermDeleteAttachment         = "delete_attachment"
	PermDeleteForeignAttachments = "delete_foreign_attachments"
)

// User represents an account that can upload and delete attachments.
// Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"size:255" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Permissions  []Permission   `json:"-"`
}

// Permission grants a user one named capability.
type Permission struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"uniqueIndex:idx_user_codename;not null" json:"user_id"`
	Codename string `gorm:"size:64;uniqueIndex:idx_user_codename;not null" json:"codename"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// Grant adds permission codenames to the user, skipping ones already held.
func (u *User) Grant(db *gorm.DB, codenames ...string) error {
	for _, code := range codenames {
		var existing Permission
		err := db.Where("user_id = ? AND codename = ?", u.ID, code).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&Permission{UserID: u.ID, Codename: code}).Error; err != nil {
			return err
		}
	}
	return nil
}

// HasPerm reports whether the user holds the given permission codename.
func (u *User) HasPerm(db *gorm.DB, codename string) bool {
	var count int64
	db.Model(&Permission{}).Where("user_id = ? AND codename = ?", u.ID, codename).Count(&count)
	return count > 0
}
