package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bakuwaki/internal/ledger"
	"bakuwaki/internal/models"
)

func TestListPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("include") != "replies" {
			t.Errorf("expected include=replies, got %q", q.Get("include"))
		}
		if q.Get("page") != "2" || q.Get("limit") != "30" {
			t.Errorf("unexpected window params: page=%s limit=%s", q.Get("page"), q.Get("limit"))
		}
		if q.Get("sort") != "good" || q.Get("label") != models.LabelLocalSighting || q.Get("search") != "烏賊" {
			t.Errorf("unexpected criteria: sort=%s label=%s search=%s", q.Get("sort"), q.Get("label"), q.Get("search"))
		}

		json.NewEncoder(w).Encode(models.PostsPage{
			Posts: []models.Post{{
				ID:        1,
				Username:  "Aki",
				Content:   "ホタルイカ湧いてます",
				Label:     models.LabelLocalSighting,
				CreatedAt: time.Now(),
				GoodCount: 3,
				Replies:   []models.Reply{{ID: 10, PostID: 1, Username: "Umi"}},
			}},
			Total:      61,
			Page:       2,
			Limit:      30,
			TotalPages: 3,
		})
	}))
	defer server.Close()

	c := New(server.URL)
	page, err := c.ListPosts(context.Background(), ListParams{
		Page:   2,
		Sort:   "good",
		Label:  models.LabelLocalSighting,
		Search: "烏賊",
	})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if page.Total != 61 || page.TotalPages != 3 {
		t.Errorf("unexpected page meta: %+v", page)
	}
	if len(page.Posts) != 1 || page.Posts[0].GoodCount != 3 || len(page.Posts[0].Replies) != 1 {
		t.Errorf("unexpected posts payload: %+v", page.Posts)
	}
}

func TestCreateReplyRouting(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "Umi" {
			t.Errorf("unexpected body: %v", body)
		}
		if _, ok := body["image_urls"]; ok {
			t.Error("image_urls should be omitted when empty")
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := New(server.URL)

	if err := c.CreateReply(context.Background(), 7, ledger.TargetPost, "Umi", "いいですね", nil); err != nil {
		t.Fatalf("CreateReply to post failed: %v", err)
	}
	if gotPath != "/api/posts/7/replies" {
		t.Errorf("post reply routed to %s", gotPath)
	}

	if err := c.CreateReply(context.Background(), 12, ledger.TargetReply, "Umi", "どのあたりですか", nil); err != nil {
		t.Fatalf("CreateReply to reply failed: %v", err)
	}
	if gotPath != "/api/replies/12/replies" {
		t.Errorf("reply reply routed to %s", gotPath)
	}
}

func TestCreateReactionBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/replies/3/reaction" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["reaction_type"] != "bad" {
			t.Errorf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := New(server.URL)
	if err := c.CreateReaction(context.Background(), 3, ledger.TargetReply, ledger.Bad); err != nil {
		t.Fatalf("CreateReaction failed: %v", err)
	}
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "投稿の取得に失敗しました", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.ListPosts(context.Background(), ListParams{})
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.Status != http.StatusInternalServerError {
		t.Errorf("unexpected status %d", terr.Status)
	}
}

func TestAuthExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "認証されていません", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.AdminCheck(context.Background())
	if !errors.Is(err, ErrAuthExpired) {
		t.Errorf("401 should unwrap to ErrAuthExpired, got %v", err)
	}
}
