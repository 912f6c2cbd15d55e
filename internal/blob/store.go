package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Store is the object-store boundary. Keys are write-once: Put never
// reuses a key, so a failed delete of an orphaned old object can never
// corrupt a newer reference. Delete is idempotent; deleting a missing
// object is not an error.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// HTTPStore talks to a blob service over plain PUT/DELETE.
type HTTPStore struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPStore builds a store for the given endpoint.
func NewHTTPStore(endpoint, token string) *HTTPStore {
	return &HTTPStore{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Put uploads the object and returns its public URL.
func (s *HTTPStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	url := s.endpoint + "/" + key
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("blob put %s: unexpected status %d", key, resp.StatusCode)
	}
	return url, nil
}

// Delete removes the object at url. A 404 counts as success.
func (s *HTTPStore) Delete(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("blob delete %s: unexpected status %d", url, resp.StatusCode)
	}
	return nil
}
