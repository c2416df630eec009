package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists the opaque image payloads that arrive with posts
// and replies. Payloads are data URLs (`data:image/png;base64,...`);
// they get decoded once here and served back as public URLs. Plain
// URLs pass through untouched so re-submission of existing images
// works.
type ImageStore struct {
	dir     string
	baseURL string
}

// NewImageStore ensures dir exists and returns a store whose public
// URLs start with baseURL (e.g. http://host:8080/images).
func NewImageStore(dir, baseURL string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &ImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is where the files land; the router serves it statically.
func (s *ImageStore) Dir() string {
	return s.dir
}

// StoreAll decodes and saves every data URL in payloads, returning the
// public URLs in order. One bad payload fails the whole batch.
func (s *ImageStore) StoreAll(payloads []string) ([]string, error) {
	urls := make([]string, 0, len(payloads))
	for _, payload := range payloads {
		url, err := s.store(payload)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *ImageStore) store(payload string) (string, error) {
	if !strings.HasPrefix(payload, "data:") {
		return payload, nil
	}

	parts := strings.SplitN(payload, ";base64,", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("画像データが不正です")
	}
	mimeType := strings.TrimPrefix(parts[0], "data:")
	extension := "jpeg"
	if strings.Contains(mimeType, "png") {
		extension = "png"
	} else if strings.Contains(mimeType, "gif") {
		extension = "gif"
	} else if strings.Contains(mimeType, "webp") {
		extension = "webp"
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", uuid.NewString(), extension)
	if err := os.WriteFile(filepath.Join(s.dir, filename), decoded, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return s.baseURL + "/" + filename, nil
}

// Remove deletes the stored files behind the given public URLs. URLs
// not served from this store are skipped.
func (s *ImageStore) Remove(urls []string) error {
	var firstErr error
	for _, url := range urls {
		if !strings.HasPrefix(url, s.baseURL+"/") {
			continue
		}
		name := filepath.Base(url)
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
