package board

import (
	"fmt"
	"sync"
)

// Threads tracks which posts have their reply list expanded. Replies
// are collapsed by default; posting a new top-level reply forces the
// post open so the result is immediately visible.
type Threads struct {
	mu       sync.Mutex
	expanded map[int]bool
}

func NewThreads() *Threads {
	return &Threads{expanded: make(map[int]bool)}
}

func (t *Threads) IsExpanded(postID int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expanded[postID]
}

func (t *Threads) Expand(postID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expanded[postID] = true
}

func (t *Threads) Toggle(postID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expanded[postID] = !t.expanded[postID]
}

// ToggleLabel is the text for a post's expand/collapse control.
func (t *Threads) ToggleLabel(postID, replyCount int) string {
	if t.IsExpanded(postID) {
		return "返信を隠す"
	}
	return fmt.Sprintf("%d件の返信を表示", replyCount)
}

// Attribution is the textual cue shown before a reply's body when it
// answers another reply. Never a tree: all replies render flat.
func Attribution(r ReplyView) string {
	if r.ParentUsername == nil || *r.ParentUsername == "" {
		return ""
	}
	return "@" + *r.ParentUsername
}
