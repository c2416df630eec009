package board

import (
	"context"

	"bakuwaki/internal/client"
	"bakuwaki/internal/ledger"
)

// Session wires the whole subsystem together for one device: the API
// client, the device ledger, the aggregation store, the reaction
// coordinator, the list view and the thread state.
type Session struct {
	Store       *Store
	Coordinator *Coordinator
	View        *ListView
	Threads     *Threads

	api *client.Client
}

func NewSession(api *client.Client, led ledger.Ledger) *Session {
	store := NewStore(api, led)
	return &Session{
		Store:       store,
		Coordinator: NewCoordinator(api, led, store),
		View:        NewListView(store),
		Threads:     NewThreads(),
		api:         api,
	}
}

// SubmitPost validates the draft, submits it and reloads the list with
// the criteria in effect. There is no optimistic insertion: the new
// post appears once the server confirms and the page is re-fetched. On
// any error the draft is untouched so nothing typed is lost.
func (s *Session) SubmitPost(ctx context.Context, draft *Draft) error {
	if err := draft.Validate(); err != nil {
		return err
	}
	if err := draft.ValidateLabel(); err != nil {
		return err
	}
	if err := s.api.CreatePost(ctx, draft.Username, draft.Content, draft.Label, draft.Images); err != nil {
		return err
	}
	return s.View.Load(ctx)
}

// SubmitReply validates and submits a reply to a post or to another
// reply, reloads the list, and forces the owning post's replies open.
func (s *Session) SubmitReply(ctx context.Context, target ReplyTarget, draft *Draft, owningPostID int) error {
	if err := draft.Validate(); err != nil {
		return err
	}
	if err := s.api.CreateReply(ctx, target.ID, target.Type, draft.Username, draft.Content, draft.Images); err != nil {
		return err
	}
	if err := s.View.Load(ctx); err != nil {
		return err
	}
	if target.Type == ledger.TargetPost {
		s.Threads.Expand(owningPostID)
	}
	return nil
}

// React forwards to the coordinator.
func (s *Session) React(ctx context.Context, t ledger.TargetType, targetID int, p ledger.Polarity) error {
	return s.Coordinator.React(ctx, t, targetID, p)
}
