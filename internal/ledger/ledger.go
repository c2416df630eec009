// Package ledger records which targets this device has already reacted
// to. It is the only source of truth for "already reacted": the server
// keeps no per-device identity, so the guarantee is best-effort — wiping
// the ledger file (or using another device) allows reacting again.
package ledger

import (
	"fmt"
	"sync"
)

type TargetType string

const (
	TargetPost  TargetType = "post"
	TargetReply TargetType = "reply"
)

type Polarity string

const (
	Good Polarity = "good"
	Bad  Polarity = "bad"
)

// Ledger holds at most one polarity per (target type, id). Entries are
// written once and only removed by an explicit Clear.
type Ledger interface {
	Get(t TargetType, id int) (Polarity, bool)
	Set(t TargetType, id int, p Polarity) error
	Clear(t TargetType, id int) error
}

// Key namespaces post and reply ids so they never collide. Same scheme
// the web client uses for its localStorage entries.
func Key(t TargetType, id int) string {
	return fmt.Sprintf("reaction_%s_%d", t, id)
}

// Memory is a map-backed Ledger with no persistence. Used in tests and
// as the fallback when no ledger file is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]Polarity
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Polarity)}
}

func (m *Memory) Get(t TargetType, id int) (Polarity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.entries[Key(t, id)]
	return p, ok
}

func (m *Memory) Set(t TargetType, id int, p Polarity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[Key(t, id)] = p
	return nil
}

func (m *Memory) Clear(t TargetType, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, Key(t, id))
	return nil
}
