// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package asset holds the in-memory set of images a studio works with:
// uploaded or generated logos and product photos. Assets are immutable
// once registered; removing one does not touch canvas layers that
// reference it, so readers must tolerate dangling ids.
package asset

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// Type distinguishes the two roles an image can play in a mockup.
type Type string

const (
	TypeLogo    Type = "logo"
	TypeProduct Type = "product"
)

// ParseType validates a type name.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeLogo, TypeProduct:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

const (
	// MaxSize is the largest accepted image payload (20 MB, the inline
	// request limit of the generation API).
	MaxSize = 20 << 20

	// maxPixels caps decoded dimensions to reject decompression bombs.
	maxPixels = 50_000_000
)

// allowedTypes are the MIME types accepted as asset payloads.
var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

var (
	ErrInvalidType     = errors.New("asset: invalid type")
	ErrUnsupportedMIME = errors.New("asset: unsupported image format")
	ErrTooLarge        = errors.New("asset: image too large")
	ErrEmpty           = errors.New("asset: empty image")
	ErrInvalidImage    = errors.New("asset: invalid image data")
	ErrInvalidDataURL  = errors.New("asset: invalid data URL")
	ErrNotFound        = errors.New("asset: not found")
	ErrLimitReached    = errors.New("asset: limit reached")
)

// Asset is one registered image.
type Asset struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Name      string    `json:"name"`
	Data      []byte    `json:"-"`
	MimeType  string    `json:"mimeType"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"createdAt"`
}

// DataURL returns the payload as a data: URL.
func (a *Asset) DataURL() string {
	return DataURL(a.MimeType, a.Data)
}

// DataURL encodes data as "data:<mime>;base64,<payload>".
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL splits a base64 data URL into its MIME type and payload.
func ParseDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return mimeType, data, nil
}

// DetectMIME sniffs the content type of data. The declared type is used
// only when sniffing is inconclusive.
func DetectMIME(data []byte, declared string) string {
	sniffed := http.DetectContentType(data)
	if allowedTypes[sniffed] {
		return sniffed
	}
	declared = strings.ToLower(strings.TrimSpace(declared))
	if sniffed == "application/octet-stream" && allowedTypes[declared] {
		return declared
	}
	return sniffed
}

// Inspect sniffs and validates an image payload, returning its MIME type
// and dimensions. declared is used only when sniffing is inconclusive.
func Inspect(data []byte, declared string) (string, int, int, error) {
	mimeType := DetectMIME(data, declared)
	w, h, err := inspect(data, mimeType)
	if err != nil {
		return "", 0, 0, err
	}
	return mimeType, w, h, nil
}

// inspect validates an image payload and returns its dimensions.
func inspect(data []byte, mimeType string) (int, int, error) {
	if len(data) == 0 {
		return 0, 0, ErrEmpty
	}
	if len(data) > MaxSize {
		return 0, 0, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), MaxSize)
	}
	if !allowedTypes[mimeType] {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnsupportedMIME, mimeType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return 0, 0, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	return cfg.Width, cfg.Height, nil
}
