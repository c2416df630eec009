package models

import (
	"time"
)

// ラベルは閉じた集合。「管理者」は管理者セッションのみ付与可能
const (
	LabelLocalSighting = "現地情報"
	LabelOther         = "その他"
	LabelAdmin         = "管理者"
)

// UserLabels are the labels a visitor may pick when composing a post.
var UserLabels = []string{LabelLocalSighting, LabelOther}

// ValidLabel reports whether label is in the closed set. Admin label is
// only accepted when isAdmin is set.
func ValidLabel(label string, isAdmin bool) bool {
	switch label {
	case LabelLocalSighting, LabelOther:
		return true
	case LabelAdmin:
		return isAdmin
	}
	return false
}

type Post struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:120;not null" json:"username"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURLs []string  `gorm:"serializer:json" json:"image_urls"`
	Label     string    `gorm:"size:20;index" json:"label"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Derived from the reactions table at read time.
	GoodCount int `gorm:"-" json:"good_count"`
	BadCount  int `gorm:"-" json:"bad_count"`

	// Filled when the listing is asked to include replies.
	Replies []Reply `gorm:"-" json:"replies"`
}

// PostsPage is the paginated listing shape of GET /api/posts.
type PostsPage struct {
	Posts      []Post `json:"posts"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}
