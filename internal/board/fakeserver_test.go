package board

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"bakuwaki/internal/models"
)

// fakeServer is an in-memory engagement API for board tests: it serves
// the list endpoint, accepts replies (capturing parent_username like
// the real server), and counts every reaction call so idempotence is
// observable.
type fakeServer struct {
	t *testing.T

	mu            sync.Mutex
	posts         []models.Post
	totalOverride int
	failReactions bool

	listCalls     int
	reactionCalls int
	lastQuery     url.Values

	srv *httptest.Server
}

func newFakeServer(t *testing.T, posts []models.Post) *fakeServer {
	f := &fakeServer{t: t, posts: posts}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) URL() string { return f.srv.URL }

func (f *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	segments := strings.FieldsFunc(r.URL.Path, func(c rune) bool { return c == '/' })

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/posts":
		f.handleList(w, r)
	case r.Method == http.MethodPost && len(segments) == 4 && segments[3] == "reaction":
		f.handleReaction(w, r, segments[1], atoi(segments[2]))
	case r.Method == http.MethodPost && len(segments) == 4 && segments[3] == "replies":
		f.handleReply(w, r, segments[1], atoi(segments[2]))
	default:
		http.NotFound(w, r)
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func (f *fakeServer) handleList(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	f.lastQuery = r.URL.Query()

	page := atoi(f.lastQuery.Get("page"))
	if page < 1 {
		page = 1
	}
	limit := atoi(f.lastQuery.Get("limit"))
	if limit < 1 {
		limit = 30
	}
	total := len(f.posts)
	if f.totalOverride > 0 {
		total = f.totalOverride
	}
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	posts := make([]models.Post, len(f.posts))
	copy(posts, f.posts)
	json.NewEncoder(w).Encode(models.PostsPage{
		Posts:      posts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}

func (f *fakeServer) handleReaction(w http.ResponseWriter, r *http.Request, kind string, id int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reactionCalls++
	if f.failReactions {
		http.Error(w, "リアクションできませんでした", http.StatusInternalServerError)
		return
	}

	var body struct {
		ReactionType string `json:"reaction_type"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	for i := range f.posts {
		if kind == "posts" && f.posts[i].ID == id {
			bump(&f.posts[i].GoodCount, &f.posts[i].BadCount, body.ReactionType)
			w.WriteHeader(http.StatusCreated)
			return
		}
		if kind == "replies" {
			for j := range f.posts[i].Replies {
				if f.posts[i].Replies[j].ID == id {
					bump(&f.posts[i].Replies[j].GoodCount, &f.posts[i].Replies[j].BadCount, body.ReactionType)
					w.WriteHeader(http.StatusCreated)
					return
				}
			}
		}
	}
	http.NotFound(w, r)
}

func bump(good, bad *int, reactionType string) {
	if reactionType == models.ReactionGood {
		*good++
	} else {
		*bad++
	}
}

func (f *fakeServer) handleReply(w http.ResponseWriter, r *http.Request, kind string, id int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body struct {
		Username string `json:"username"`
		Content  string `json:"content"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	nextID := 1000
	for i := range f.posts {
		for _, reply := range f.posts[i].Replies {
			if reply.ID >= nextID {
				nextID = reply.ID + 1
			}
		}
	}

	for i := range f.posts {
		if kind == "posts" && f.posts[i].ID == id {
			f.posts[i].Replies = append(f.posts[i].Replies, models.Reply{
				ID:       nextID,
				PostID:   f.posts[i].ID,
				Username: body.Username,
				Content:  body.Content,
			})
			w.WriteHeader(http.StatusCreated)
			return
		}
		if kind == "replies" {
			for _, parent := range f.posts[i].Replies {
				if parent.ID == id {
					parentID := parent.ID
					parentName := parent.Username
					// Sibling in the flat list, attribution captured at
					// write time. Never nested.
					f.posts[i].Replies = append(f.posts[i].Replies, models.Reply{
						ID:             nextID,
						PostID:         f.posts[i].ID,
						ParentReplyID:  &parentID,
						Username:       body.Username,
						Content:        body.Content,
						ParentUsername: &parentName,
					})
					w.WriteHeader(http.StatusCreated)
					return
				}
			}
		}
	}
	http.NotFound(w, r)
}

func (f *fakeServer) counts() (listCalls, reactionCalls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.reactionCalls
}

func (f *fakeServer) setFailReactions(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failReactions = fail
}

func (f *fakeServer) setTotal(total int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totalOverride = total
}

func (f *fakeServer) query() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}
