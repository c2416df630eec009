package services

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *ImageStore {
	store, err := NewImageStore(t.TempDir(), "http://localhost:8080/images")
	if err != nil {
		t.Fatalf("NewImageStore failed: %v", err)
	}
	return store
}

func TestStoreAllDataURLs(t *testing.T) {
	store := newTestStore(t)

	pngData := []byte{0x89, 'P', 'N', 'G'}
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)

	urls, err := store.StoreAll([]string{payload})
	if err != nil {
		t.Fatalf("StoreAll failed: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("expected 1 url, got %d", len(urls))
	}
	if !strings.HasPrefix(urls[0], "http://localhost:8080/images/") || !strings.HasSuffix(urls[0], ".png") {
		t.Errorf("unexpected url %q", urls[0])
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), filepath.Base(urls[0])))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != string(pngData) {
		t.Error("stored bytes differ from the decoded payload")
	}
}

func TestStorePassesPlainURLsThrough(t *testing.T) {
	store := newTestStore(t)

	urls, err := store.StoreAll([]string{"http://elsewhere/photo.jpg"})
	if err != nil {
		t.Fatalf("StoreAll failed: %v", err)
	}
	if urls[0] != "http://elsewhere/photo.jpg" {
		t.Errorf("plain url rewritten to %q", urls[0])
	}
}

func TestStoreRejectsBadPayload(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.StoreAll([]string{"data:image/png,no-base64-marker"}); err == nil {
		t.Error("payload without base64 marker must fail")
	}
	if _, err := store.StoreAll([]string{"data:image/png;base64,%%%"}); err == nil {
		t.Error("undecodable payload must fail")
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	payload := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpg"))
	urls, err := store.StoreAll([]string{payload})
	if err != nil {
		t.Fatalf("StoreAll failed: %v", err)
	}

	if err := store.Remove(append(urls, "http://elsewhere/skip.jpg")); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), filepath.Base(urls[0]))); !os.IsNotExist(err) {
		t.Error("file still present after Remove")
	}

	// Removing an already-deleted url is not an error.
	if err := store.Remove(urls); err != nil {
		t.Errorf("double remove returned %v", err)
	}
}
