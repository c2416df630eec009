package board

import (
	"context"
	"sort"
	"sync"

	"bakuwaki/internal/client"
)

const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortGood   = "good"
	SortBad    = "bad"
)

// CommentsPerPage is the fixed page size of the board.
const CommentsPerPage = 30

// PageWindow describes the currently visible slice of results.
type PageWindow struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// ListView owns the listing criteria. Label filter and search text
// travel to the server with every fetch; sort is also applied locally
// to the held page so display order never depends on the server
// honoring the parameter. Changing any criterion resets to page 1.
type ListView struct {
	mu     sync.Mutex
	store  *Store
	params client.ListParams
}

func NewListView(store *Store) *ListView {
	return &ListView{
		store: store,
		params: client.ListParams{
			Page:  1,
			Limit: CommentsPerPage,
			Sort:  SortNewest,
		},
	}
}

// Load fetches with the current criteria.
func (v *ListView) Load(ctx context.Context) error {
	v.mu.Lock()
	params := v.params
	v.mu.Unlock()
	return v.store.Fetch(ctx, params)
}

// SetSearch changes the search text, resets to page 1 and re-fetches.
// A no-op when the text is unchanged.
func (v *ListView) SetSearch(ctx context.Context, search string) error {
	return v.updateCriteria(ctx, func(p *client.ListParams) bool {
		if p.Search == search {
			return false
		}
		p.Search = search
		return true
	})
}

// SetSort changes the sort order, resets to page 1 and re-fetches.
func (v *ListView) SetSort(ctx context.Context, sortOrder string) error {
	return v.updateCriteria(ctx, func(p *client.ListParams) bool {
		if p.Sort == sortOrder {
			return false
		}
		p.Sort = sortOrder
		return true
	})
}

// SetLabel changes the label filter (empty clears it), resets to page 1
// and re-fetches.
func (v *ListView) SetLabel(ctx context.Context, label string) error {
	return v.updateCriteria(ctx, func(p *client.ListParams) bool {
		if p.Label == label {
			return false
		}
		p.Label = label
		return true
	})
}

func (v *ListView) updateCriteria(ctx context.Context, apply func(*client.ListParams) bool) error {
	v.mu.Lock()
	if !apply(&v.params) {
		v.mu.Unlock()
		return nil
	}
	v.params.Page = 1
	params := v.params
	v.mu.Unlock()
	return v.store.Fetch(ctx, params)
}

// SetPage moves to the requested page, clamped into the current window
// (a filter that shrank the result set pulls the page index down).
func (v *ListView) SetPage(ctx context.Context, page int) error {
	window := v.Window()
	if page < 1 {
		page = 1
	}
	if page > window.TotalPages {
		page = window.TotalPages
	}
	v.mu.Lock()
	v.params.Page = page
	params := v.params
	v.mu.Unlock()
	return v.store.Fetch(ctx, params)
}

// Window recomputes the page window from the store's totals.
func (v *ListView) Window() PageWindow {
	total, page, limit, _ := v.store.PageInfo()
	if limit <= 0 {
		limit = CommentsPerPage
	}
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		v.mu.Lock()
		page = v.params.Page
		v.mu.Unlock()
	}
	if page > totalPages {
		page = totalPages
	}
	return PageWindow{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Params returns the criteria currently in effect.
func (v *ListView) Params() client.ListParams {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.params
}

// Comments returns the held page in the selected display order.
func (v *ListView) Comments() []Comment {
	comments := v.store.Comments()
	v.mu.Lock()
	sortOrder := v.params.Sort
	v.mu.Unlock()
	SortComments(comments, sortOrder)
	return comments
}

// SortComments orders a page in place. good/bad sort by the respective
// count descending with newest-first as the tie-break.
func SortComments(comments []Comment, sortOrder string) {
	switch sortOrder {
	case SortOldest:
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		})
	case SortGood:
		sort.SliceStable(comments, func(i, j int) bool {
			if comments[i].GoodCount != comments[j].GoodCount {
				return comments[i].GoodCount > comments[j].GoodCount
			}
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		})
	case SortBad:
		sort.SliceStable(comments, func(i, j int) bool {
			if comments[i].BadCount != comments[j].BadCount {
				return comments[i].BadCount > comments[j].BadCount
			}
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		})
	default: // newest
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		})
	}
}
