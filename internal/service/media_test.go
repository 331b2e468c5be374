// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchcms/internal/storage"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestMedia(t *testing.T, maxBytes int64) (*MediaService, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocal(dir)
	require.NoError(t, err)
	svc := NewMediaService(local, maxBytes, 64)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, dir
}

func TestMediaService_Upload(t *testing.T) {
	svc, dir := newTestMedia(t, 1<<20)

	res, err := svc.Upload(context.Background(), "Gallery", "Choir Sunday.PNG", "image/png", bytes.NewReader(pngBytes(t, 256, 128)))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^gallery/2025/03/[0-9a-f-]{36}-choir-sunday\.png$`), res.Key)
	assert.Equal(t, "/uploads/"+res.Key, res.URL)
	assert.Equal(t, 64, res.Width, "downscaled to max width")
	assert.Equal(t, 32, res.Height)

	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(res.Key)))
	assert.NoError(t, err, "object written to the uploads directory")
}

func TestMediaService_RejectsNonImages(t *testing.T) {
	svc, _ := newTestMedia(t, 1<<20)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "events", "notes.txt", "text/plain", strings.NewReader("hello"))
	assert.ErrorIs(t, err, ErrNotImage, "declared type")

	_, err = svc.Upload(ctx, "events", "fake.png", "image/png", strings.NewReader("<html>not really</html>"))
	assert.ErrorIs(t, err, ErrNotImage, "sniffed type")
}

func TestMediaService_RejectsLargeFiles(t *testing.T) {
	data := pngBytes(t, 64, 64)
	svc, _ := newTestMedia(t, int64(len(data)-1))

	_, err := svc.Upload(context.Background(), "events", "big.png", "image/png", bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestMediaService_ObjectKeyFallbacks(t *testing.T) {
	svc, _ := newTestMedia(t, 1)
	key := svc.objectKey("", "???.jpg", ".jpg")
	assert.True(t, strings.HasPrefix(key, "media/2025/03/"), key)
	assert.True(t, strings.HasSuffix(key, "-image.jpg"), key)
}
