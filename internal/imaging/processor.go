// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalises uploaded photos before they go to object
// storage: EXIF orientation is applied and wide images are downscaled.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Image formats the processor accepts.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatWebP = "webp"
)

// ErrUnsupportedFormat is returned for data that is not a JPEG, PNG, GIF or WebP image.
var ErrUnsupportedFormat = errors.New("imaging: unsupported image format")

// Result is a processed image ready for storage.
type Result struct {
	Data     []byte
	Format   string
	MimeType string
	Ext      string
	Width    int
	Height   int
}

// Processor re-encodes uploads.
type Processor struct {
	MaxWidth int
	Quality  int
}

// NewProcessor returns a processor that limits width to maxWidth pixels.
// A non-positive maxWidth disables downscaling.
func NewProcessor(maxWidth int) *Processor {
	return &Processor{MaxWidth: maxWidth, Quality: 88}
}

// Process decodes data, applies EXIF orientation, downscales to MaxWidth and
// re-encodes. WebP input is written as JPEG. GIFs are passed through
// unchanged so animations survive.
func (p *Processor) Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	format := DetectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading image header: %w", err)
	}
	if format == FormatGIF {
		return &Result{Data: data, Format: format, MimeType: "image/gif", Ext: ".gif", Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if format == FormatJPEG {
		img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
	}
	if p.MaxWidth > 0 && img.Bounds().Dx() > p.MaxWidth {
		img = imaging.Resize(img, p.MaxWidth, 0, imaging.Lanczos)
	}

	out := format
	if out == FormatWebP {
		out = FormatJPEG
	}
	encoded, err := p.encode(img, out)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	b := img.Bounds()
	return &Result{
		Data:     encoded,
		Format:   out,
		MimeType: "image/" + out,
		Ext:      extension(out),
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

func (p *Processor) encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(&buf, img)
	default:
		q := p.Quality
		if q <= 0 || q > 100 {
			q = 88
		}
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: q})
	}
	return buf.Bytes(), err
}

func extension(format string) string {
	if format == FormatJPEG {
		return ".jpg"
	}
	return "." + format
}

// DetectFormat sniffs the image format of data. TIFF and everything that is
// not an image return "".
func DetectFormat(data []byte) string {
	ct := http.DetectContentType(data)
	switch {
	case strings.Contains(ct, "tiff"):
		return ""
	case ct == "image/jpeg":
		return FormatJPEG
	case ct == "image/png":
		return FormatPNG
	case ct == "image/gif":
		return FormatGIF
	case ct == "image/webp":
		return FormatWebP
	}
	return ""
}

// readExifOrientation returns the EXIF orientation tag, or 1 when absent.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}

// applyOrientation maps EXIF orientations 2-8 to flips and rotations.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
