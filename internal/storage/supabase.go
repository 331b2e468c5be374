// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Supabase stores objects in a Supabase Storage bucket through its REST API.
type Supabase struct {
	baseURL    string
	serviceKey string
	bucket     string
	client     *http.Client
}

// SupabaseConfig holds the project URL, service-role key and bucket.
type SupabaseConfig struct {
	URL        string
	ServiceKey string
	Bucket     string
	Timeout    time.Duration
}

// NewSupabase returns a Supabase Storage backend.
func NewSupabase(cfg SupabaseConfig) *Supabase {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Supabase{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		bucket:     cfg.Bucket,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *Supabase) Name() string { return "supabase" }

// PublicURL returns the public object URL for key.
func (s *Supabase) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, escapeKey(key))
}

func (s *Supabase) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, escapeKey(key))
}

func (s *Supabase) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(key), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")
	if err := s.do(req); err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

func (s *Supabase) Delete(ctx context.Context, key string) error {
	if key == "" || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(key), nil)
	if err != nil {
		return fmt.Errorf("building delete request: %w", err)
	}
	err = s.do(req)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return nil
	}
	return err
}

func (s *Supabase) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/storage/v1/bucket/%s", s.baseURL, url.PathEscape(s.bucket)), nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

// StatusError is returned when Supabase answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("supabase storage: status %d: %s", e.Code, e.Body)
}

func (s *Supabase) do(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
