// Package board is the client-side engagement subsystem: it holds the
// current page of posts, coordinates reactions against the device
// ledger, validates drafts, and computes the list view (sort, search,
// page window). The server stays authoritative for everything durable;
// the only state mutated ahead of server confirmation is a reaction's
// optimistic count bump, which is rolled back by a forced re-fetch on
// failure.
package board

import (
	"context"
	"sync"

	"bakuwaki/internal/client"
	"bakuwaki/internal/ledger"
	"bakuwaki/internal/models"
)

// ReplyView is a reply with the device's own reaction merged in.
type ReplyView struct {
	models.Reply
	MyReaction ledger.Polarity // empty when this device has not reacted
}

// Comment is the view model of one post: server state plus locally
// incrementable counts and the device's own reaction. GoodCount and
// BadCount deliberately shadow the embedded wire counts; they start as
// mirrors and are the fields the coordinator bumps between fetches.
type Comment struct {
	models.Post
	Replies    []ReplyView
	GoodCount  int
	BadCount   int
	MyReaction ledger.Polarity
}

type FetchState int

const (
	StateIdle FetchState = iota
	StateLoading
	StateError
)

// Store owns the in-memory page of comments. Every successful fetch
// replaces the whole page in one step under the lock, so readers see
// either the old page or the fully merged new one, never a partial mix.
type Store struct {
	mu sync.Mutex

	api    *client.Client
	ledger ledger.Ledger

	comments   []Comment
	total      int
	page       int
	limit      int
	totalPages int

	state      FetchState
	lastError  string
	lastParams client.ListParams
	fetched    bool
}

func NewStore(api *client.Client, led ledger.Ledger) *Store {
	return &Store{
		api:    api,
		ledger: led,
		state:  StateIdle,
	}
}

// Fetch loads one page from the server and swaps it in. The ledger
// merge happens on every fetch, so a page arriving late can never
// resurrect a rolled-back reaction: MyReaction always comes from the
// ledger as it is now, not from previous in-memory state.
func (s *Store) Fetch(ctx context.Context, params client.ListParams) error {
	s.mu.Lock()
	s.state = StateLoading
	s.lastParams = params
	s.fetched = true
	s.mu.Unlock()

	page, err := s.api.ListPosts(ctx, params)
	if err != nil {
		s.mu.Lock()
		s.state = StateError
		s.lastError = err.Error()
		s.mu.Unlock()
		return err
	}

	comments := make([]Comment, 0, len(page.Posts))
	for _, post := range page.Posts {
		c := Comment{
			Post:      post,
			GoodCount: post.GoodCount,
			BadCount:  post.BadCount,
		}
		if p, ok := s.ledger.Get(ledger.TargetPost, post.ID); ok {
			c.MyReaction = p
		}
		c.Replies = make([]ReplyView, 0, len(post.Replies))
		for _, reply := range post.Replies {
			rv := ReplyView{Reply: reply}
			if p, ok := s.ledger.Get(ledger.TargetReply, reply.ID); ok {
				rv.MyReaction = p
			}
			c.Replies = append(c.Replies, rv)
		}
		c.Post.Replies = nil
		comments = append(comments, c)
	}

	s.mu.Lock()
	s.comments = comments
	s.total = page.Total
	s.page = page.Page
	s.limit = page.Limit
	s.totalPages = page.TotalPages
	s.state = StateIdle
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// Refetch repeats the last fetch. Used by the reaction rollback path
// and after successful submissions.
func (s *Store) Refetch(ctx context.Context) error {
	s.mu.Lock()
	params := s.lastParams
	fetched := s.fetched
	s.mu.Unlock()
	if !fetched {
		params = client.ListParams{}
	}
	return s.Fetch(ctx, params)
}

// Comments returns a copy of the current page.
func (s *Store) Comments() []Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Comment, len(s.comments))
	copy(out, s.comments)
	for i := range out {
		replies := make([]ReplyView, len(out[i].Replies))
		copy(replies, out[i].Replies)
		out[i].Replies = replies
	}
	return out
}

// PageInfo returns the server-reported window of the held page.
func (s *Store) PageInfo() (total, page, limit, totalPages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total, s.page, s.limit, s.totalPages
}

// State reports the fetch lifecycle and, in the error state, the
// message to show at page level.
func (s *Store) State() (FetchState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.lastError
}

// ApplyReaction is the single patch entry point, used only by the
// coordinator: bump one target's count and set its MyReaction without
// a round trip.
func (s *Store) ApplyReaction(t ledger.TargetType, targetID int, p ledger.Polarity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.comments {
		c := &s.comments[i]
		if t == ledger.TargetPost && c.ID == targetID {
			c.MyReaction = p
			if p == ledger.Good {
				c.GoodCount++
			} else {
				c.BadCount++
			}
			return
		}
		if t == ledger.TargetReply {
			for j := range c.Replies {
				if c.Replies[j].ID == targetID {
					c.Replies[j].MyReaction = p
					if p == ledger.Good {
						c.Replies[j].GoodCount++
					} else {
						c.Replies[j].BadCount++
					}
					return
				}
			}
		}
	}
}
