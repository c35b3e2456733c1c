package models

import (
	"path"
	"strings"
	"time"

	"gorm.io/gorm"
)

// maxAttachmentNameLen caps the display name column.
const maxAttachmentNameLen = 150

// Attachment records one uploaded file pinned to a content object. The owner
// is a polymorphic (ContentType, ObjectID) pair; no foreign key is enforced
// on it, so deleting the owner later orphans the row.
type Attachment struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ContentType string `gorm:"size:100;not null;index:idx_attachment_owner" json:"content_type"`
	ObjectID    uint   `gorm:"not null;index:idx_attachment_owner" json:"object_id"`
	// CreatorID is nulled when the uploading user is removed.
	CreatorID *uint     `gorm:"index" json:"creator_id"`
	Creator   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"creator,omitempty"`
	FilePath  string    `gorm:"size:1024;not null" json:"file_path"`
	Name      string    `gorm:"size:150" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tags      []Tag     `gorm:"many2many:attachment_tags;" json:"tags"`
}

// Filename returns the base name of the stored file.
func (a *Attachment) Filename() string {
	return path.Base(a.FilePath)
}

// BeforeCreate derives the display name from the stored filename when none
// was supplied: the stem before the first dot, truncated to 150 runes. An
// existing name is never overwritten.
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.Name == "" {
		stem := strings.SplitN(a.Filename(), ".", 2)[0]
		if runes := []rune(stem); len(runes) > maxAttachmentNameLen {
			stem = string(runes[:maxAttachmentNameLen])
		}
		a.Name = stem
	}
	return nil
}

// Attachments is the query helper scoping attachment lookups to an owner.
type Attachments struct {
	db *gorm.DB
}

// NewAttachments returns a query helper bound to db.
func NewAttachments(db *gorm.DB) *Attachments {
	return &Attachments{db: db}
}

// For returns the attachments owned by entity, newest first. An entity with
// no attachments yields an empty slice, not an error.
func (a *Attachments) For(entity Entity) ([]Attachment, error) {
	return a.ForRef(entity.EntityType(), entity.EntityID())
}

// ForRef is For with the owner reference already split into its pair.
func (a *Attachments) ForRef(contentType string, objectID uint) ([]Attachment, error) {
	attachments := []Attachment{}
	err := a.db.Preload("Tags").
		Where("content_type = ? AND object_id = ?", contentType, objectID).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}

// Get loads one attachment with its tags.
func (a *Attachments) Get(id uint) (*Attachment, error) {
	var attachment Attachment
	if err := a.db.Preload("Tags").First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// FindOrCreateTags resolves label strings to tag rows, creating missing ones.
func FindOrCreateTags(db *gorm.DB, labels []string) ([]Tag, error) {
	tags := make([]Tag, 0, len(labels))
	for _, label := range labels {
		var tag Tag
		err := db.Where("name = ?", label).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = Tag{Name: label}
			err = db.Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// IconFor selects the display icon for a freshly created attachment. Only the
// first tag is consulted even when several were supplied.
func IconFor(db *gorm.DB, tags []Tag) string {
	if len(tags) == 0 {
		return DefaultIcon
	}
	var group IconGroup
	if err := db.Where("name = ?", tags[0].Name).First(&group).Error; err != nil {
		return DefaultIcon
	}
	return group.Icon
}
