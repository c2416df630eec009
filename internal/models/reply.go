package models

import (
	"time"
)

// Reply belongs to a post and may point at another reply of the same
// post. Nesting never goes deeper than that: the board shows all
// replies of a post as one flat list and only uses ParentUsername as a
// textual cue.
type Reply struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	PostID        int       `gorm:"not null;index" json:"post_id"`
	ParentReplyID *int      `gorm:"index" json:"parent_reply_id"`
	Username      string    `gorm:"size:120;not null" json:"username"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	ImageURLs     []string  `gorm:"serializer:json" json:"image_urls,omitempty"`
	Label         *string   `gorm:"size:20" json:"label,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	GoodCount int `gorm:"-" json:"good_count"`
	BadCount  int `gorm:"-" json:"bad_count"`

	// Author of the parent reply, captured when the reply is created.
	// Set only for reply-to-reply; used purely as a display cue.
	ParentUsername *string `gorm:"size:120" json:"parent_username,omitempty"`
}
