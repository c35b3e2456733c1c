// Package permissions decides who may add and delete attachments.
package permissions

import (
	"gorm.io/gorm"

	"attachd/models"
)

// Policy answers attachment capability questions for a user. Implementations
// must treat a nil user as holding nothing.
type Policy interface {
	CanAdd(user *models.User) bool
	CanDeleteOwn(user *models.User, attachment *models.Attachment) bool
	CanDeleteForeign(user *models.User) bool
}

// DBPolicy checks permission codename rows in the database.
type DBPolicy struct {
	db *gorm.DB
}

// NewDBPolicy returns a Policy backed by the users' permission rows.
func NewDBPolicy(db *gorm.DB) *DBPolicy {
	return &DBPolicy{db: db}
}

// CanAdd reports whether user may create attachments.
func (p *DBPolicy) CanAdd(user *models.User) bool {
	return user != nil && user.HasPerm(p.db, models.PermAddAttachment)
}

// CanDeleteOwn reports whether user may delete this attachment as its
// creator. The creator check is part of the grant: holding the permission
// on someone else's attachment is not enough.
func (p *DBPolicy) CanDeleteOwn(user *models.User, attachment *models.Attachment) bool {
	if user == nil || attachment == nil || attachment.CreatorID == nil {
		return false
	}
	if *attachment.CreatorID != user.ID {
		return false
	}
	return user.HasPerm(p.db, models.PermDeleteAttachment)
}

// CanDeleteForeign reports whether user may delete attachments regardless of
// authorship.
func (p *DBPolicy) CanDeleteForeign(user *models.User) bool {
	return user != nil && user.HasPerm(p.db, models.PermDeleteForeignAttachments)
}
