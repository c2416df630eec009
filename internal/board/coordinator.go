package board

import (
	"context"
	"log"

	"bakuwaki/internal/client"
	"bakuwaki/internal/ledger"
)

// Coordinator runs a reaction submission through its three states:
//
//	eligible  — no ledger entry, no in-flight submission for the key
//	pending   — the key sits in the in-flight guard; repeat attempts
//	            (rapid clicks, or the opposite polarity) are no-ops
//	committed — the ledger holds an entry; attempts stop at the check
//
// The ledger is written before the network call resolves. That risks an
// orphaned entry if the process dies mid-request, and buys idempotence
// for every repeat gesture in between. On failure the entry is cleared
// and a full re-fetch discards the optimistic bump.
type Coordinator struct {
	api    *client.Client
	ledger ledger.Ledger
	store  *Store

	guard *inflightGuard
}

func NewCoordinator(api *client.Client, led ledger.Ledger, store *Store) *Coordinator {
	return &Coordinator{
		api:    api,
		ledger: led,
		store:  store,
		guard:  newInflightGuard(),
	}
}

// React submits one good/bad for the target. Ineligible attempts return
// nil without touching the network. A transport failure is returned
// after the rollback (ledger cleared, page re-fetched) has already run,
// so the caller may log it but has nothing left to repair.
func (c *Coordinator) React(ctx context.Context, t ledger.TargetType, targetID int, p ledger.Polarity) error {
	key := ledger.Key(t, targetID)

	// Check-and-insert plus the ledger write happen atomically, so two
	// racing attempts on the same key can never both dispatch.
	if !c.guard.tryAcquire(key, func() bool {
		_, committed := c.ledger.Get(t, targetID)
		return !committed
	}) {
		return nil
	}
	if err := c.ledger.Set(t, targetID, p); err != nil {
		log.Printf("ledger write failed for %s: %v", key, err)
	}

	c.store.ApplyReaction(t, targetID, p)

	err := c.api.CreateReaction(ctx, targetID, t, p)
	if err != nil {
		// Roll back: free the key for a later retry and resync counts
		// from the server, dropping the optimistic bump.
		if clearErr := c.ledger.Clear(t, targetID); clearErr != nil {
			log.Printf("ledger clear failed for %s: %v", key, clearErr)
		}
		if fetchErr := c.store.Refetch(ctx); fetchErr != nil {
			log.Printf("resync after failed reaction: %v", fetchErr)
		}
	}
	c.guard.release(key)
	return err
}
