package models

import "time"

// Comment represents a reply to a post. It doubles as the second registered
// content-object kind, exercising attachments on more than one entity type.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// EntityType implements Entity.
func (Comment) EntityType() string { return "forum.comment" }

// EntityID implements Entity.
func (c *Comment) EntityID() uint { return c.ID }
