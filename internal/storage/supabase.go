package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type SupabaseConfig struct {
	ProjectURL string
	ServiceKey string
	Bucket     string
	HTTPClient *http.Client
}

// supabaseStorage speaks the BaaS storage REST API:
// https://<project>/storage/v1/object/<bucket>/<key>
type supabaseStorage struct {
	prefix string
	key    string
	client *http.Client
}

func NewSupabase(cfg SupabaseConfig) (Storage, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("service key is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if _, err := url.Parse(cfg.ProjectURL); err != nil {
		return nil, fmt.Errorf("invalid project URL: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &supabaseStorage{
		prefix: strings.TrimRight(cfg.ProjectURL, "/") + "/storage/v1/object/" + url.PathEscape(cfg.Bucket),
		key:    cfg.ServiceKey,
		client: client,
	}, nil
}

func (s *supabaseStorage) objectURL(key string) string {
	parts := strings.Split(key, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return s.prefix + "/" + strings.Join(parts, "/")
}

func (s *supabaseStorage) newRequest(ctx context.Context, method, key string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.objectURL(key), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	return req, nil
}

func (s *supabaseStorage) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	if err := validKey(key); err != nil {
		return err
	}
	req, err := s.newRequest(ctx, http.MethodPost, key, r)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload %s: status %d: %s", key, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

func (s *supabaseStorage) Open(ctx context.Context, key string) (*Object, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	req, err := s.newRequest(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	// The storage API answers 400 with a JSON "not_found" body for missing objects.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
		resp.Body.Close()
		return nil, ErrObjectNotFound
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("download %s: status %d", key, resp.StatusCode)
	}

	return &Object{
		ReadCloser:  resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

func (s *supabaseStorage) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	req, err := s.newRequest(ctx, http.MethodDelete, key, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete %s: status %d", key, resp.StatusCode)
	}
	return nil
}
