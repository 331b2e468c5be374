// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/churchcms/internal/imaging"
	"github.com/olegiv/churchcms/internal/storage"
	"github.com/olegiv/churchcms/internal/util"
)

// Upload errors
var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("file exceeds the upload size limit")
)

// DefaultUploadFolder is used when the caller names no folder.
const DefaultUploadFolder = "media"

// UploadResult describes a stored image.
type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int    `json:"size"`
}

// MediaService validates, normalises and stores uploaded images.
type MediaService struct {
	storage   storage.Storage
	processor *imaging.Processor
	maxBytes  int64
	now       func() time.Time
}

// NewMediaService creates a media service writing to st.
func NewMediaService(st storage.Storage, maxBytes int64, maxWidth int) *MediaService {
	return &MediaService{
		storage:   st,
		processor: imaging.NewProcessor(maxWidth),
		maxBytes:  maxBytes,
		now:       time.Now,
	}
}

// MaxBytes returns the upload size limit.
func (s *MediaService) MaxBytes() int64 {
	return s.maxBytes
}

// Upload stores the image read from r under folder. declaredType is the
// Content-Type the client sent for the file part.
func (s *MediaService) Upload(ctx context.Context, folder, filename, declaredType string, r io.Reader) (*UploadResult, error) {
	if !strings.HasPrefix(strings.ToLower(declaredType), "image/") {
		return nil, ErrNotImage
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, ErrNotImage
	}

	res, err := s.processor.Process(bytes.NewReader(data))
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		return nil, ErrNotImage
	}
	if err != nil {
		return nil, fmt.Errorf("processing image: %w", err)
	}

	key := s.objectKey(folder, filename, res.Ext)
	url, err := s.storage.Put(ctx, key, res.MimeType, res.Data)
	if err != nil {
		return nil, fmt.Errorf("storing image: %w", err)
	}

	slog.Info("image uploaded",
		"key", key,
		"storage", s.storage.Name(),
		"width", res.Width,
		"height", res.Height,
		"bytes", len(res.Data))

	return &UploadResult{
		URL:      url,
		Key:      key,
		MimeType: res.MimeType,
		Width:    res.Width,
		Height:   res.Height,
		Size:     len(res.Data),
	}, nil
}

// objectKey builds <folder>/<yyyy>/<mm>/<uuid>-<slug><ext>.
func (s *MediaService) objectKey(folder, filename, ext string) string {
	folder = util.Slugify(folder)
	if folder == "" {
		folder = DefaultUploadFolder
	}
	base := filepath.Base(filename)
	name := util.Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		name = "image"
	}
	now := s.now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%s-%s%s", folder, now.Year(), int(now.Month()), uuid.NewString(), name, ext)
}
