package board

import (
	"fmt"
	"strings"

	"bakuwaki/internal/ledger"
	"bakuwaki/internal/models"
)

const (
	MaxUsernameRunes     = 30
	MaxContentRunes      = 150
	MaxAdminContentRunes = 1000
	MaxImages            = 4
)

// ValidationError is a local, pre-submission failure. It never reaches
// the network; the caller shows it inline and keeps the draft.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Draft is a post or reply being composed. Image payloads are opaque
// strings (data URLs); the board never looks inside them.
type Draft struct {
	Username string
	Content  string
	Label    string
	Images   []string
	IsAdmin  bool
}

// NewDraft starts a post draft with the default label.
func NewDraft() *Draft {
	return &Draft{Label: models.LabelLocalSighting}
}

// Validate checks the draft against the submission rules. The admin
// path gets a longer body allowance; everything else is the same.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Username) == "" {
		return &ValidationError{Field: "username", Message: "お名前を入力してください"}
	}
	if len([]rune(d.Username)) > MaxUsernameRunes {
		return &ValidationError{Field: "username", Message: fmt.Sprintf("お名前が長すぎます（%d文字以内）", MaxUsernameRunes)}
	}
	if strings.TrimSpace(d.Content) == "" {
		return &ValidationError{Field: "content", Message: "本文を入力してください"}
	}
	maxContent := MaxContentRunes
	if d.IsAdmin {
		maxContent = MaxAdminContentRunes
	}
	if len([]rune(d.Content)) > maxContent {
		return &ValidationError{Field: "content", Message: fmt.Sprintf("本文が長すぎます（%d文字以内）", maxContent)}
	}
	if len(d.Images) > MaxImages {
		return &ValidationError{Field: "images", Message: fmt.Sprintf("写真は最大%d枚までです", MaxImages)}
	}
	return nil
}

// ValidateLabel checks the label choice for a post draft. The admin
// label is never selectable from the public composer.
func (d *Draft) ValidateLabel() error {
	if !models.ValidLabel(d.Label, d.IsAdmin) {
		return &ValidationError{Field: "label", Message: "不正なラベルです"}
	}
	return nil
}

// AttachImages appends images up to the cap. When the batch would
// overflow, the free slots are filled and the rest dropped; dropped > 0
// is the signal to surface a warning, not a hard rejection.
func (d *Draft) AttachImages(payloads []string) (added, dropped int) {
	free := MaxImages - len(d.Images)
	if free < 0 {
		free = 0
	}
	if len(payloads) <= free {
		d.Images = append(d.Images, payloads...)
		return len(payloads), 0
	}
	d.Images = append(d.Images, payloads[:free]...)
	return free, len(payloads) - free
}

// RemoveImage drops one attached image by position.
func (d *Draft) RemoveImage(index int) {
	if index < 0 || index >= len(d.Images) {
		return
	}
	d.Images = append(d.Images[:index], d.Images[index+1:]...)
}

// ReplyTarget names what a reply draft is aimed at: a post directly, or
// one of its replies. For a reply target, Username is the parent
// author, recorded on the new reply as its textual attribution — the
// new reply still lands as a sibling in the post's flat list.
type ReplyTarget struct {
	Type     ledger.TargetType
	ID       int
	Username string
}

// PostTarget aims a reply at the post itself.
func PostTarget(post Comment) ReplyTarget {
	return ReplyTarget{Type: ledger.TargetPost, ID: post.ID, Username: post.Username}
}

// ReplyToTarget aims a reply at an existing reply.
func ReplyToTarget(reply ReplyView) ReplyTarget {
	return ReplyTarget{Type: ledger.TargetReply, ID: reply.ID, Username: reply.Username}
}
