package models

import "time"

// Tag is a shared label vocabulary entry. Attachments reference tags through
// the attachment_tags join table.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// IconGroup maps a tag label to the icon rendered next to attachments carrying
// that tag. Unmatched labels fall back to DefaultIcon.
type IconGroup struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Icon string `gorm:"size:64;not null" json:"icon"`
}

// DefaultIcon is used when an attachment has no tags or its first tag has no
// icon group.
const DefaultIcon = "fa-paperclip"
