package models

import (
	"time"
)

const (
	ReactionGood = "good"
	ReactionBad  = "bad"
)

// Reaction is a single anonymous good/bad on a post or a reply. Exactly
// one of PostID/ReplyID is set. The server keeps no per-device identity;
// duplicate protection lives on the device (see internal/ledger).
type Reaction struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	PostID       *int      `gorm:"index" json:"post_id"`
	ReplyID      *int      `gorm:"index" json:"reply_id"`
	ReactionType string    `gorm:"size:10;not null" json:"reaction_type"`
	CreatedAt    time.Time `json:"created_at"`
}
