// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package asset

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

// pngBytes encodes a small solid image as PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 6)), nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"logo", TypeLogo, false},
		{"product", TypeProduct, false},
		{" Product ", TypeProduct, false},
		{"banner", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q): err=%v, wantErr=%v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidType) {
			t.Errorf("ParseType(%q): error should wrap ErrInvalidType", tt.in)
		}
		if got != tt.want {
			t.Errorf("ParseType(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegistryAdd(t *testing.T) {
	r := NewRegistry(0)
	data := pngBytes(t, 12, 7)

	// Declared type is ignored when the payload sniffs as something allowed.
	a, err := r.Add(TypeLogo, "  Acme  ", "image/jpeg", data)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if a.ID == "" {
		t.Error("ID should be generated")
	}
	if a.MimeType != "image/png" {
		t.Errorf("MimeType: got %q, want image/png", a.MimeType)
	}
	if a.Name != "Acme" {
		t.Errorf("Name: got %q, want trimmed %q", a.Name, "Acme")
	}
	if a.Width != 12 || a.Height != 7 {
		t.Errorf("dimensions: got %dx%d, want 12x7", a.Width, a.Height)
	}

	// The registry keeps its own copy of the payload.
	data[0] = 0
	if a.Data[0] == 0 {
		t.Error("Add should copy the payload")
	}
}

func TestRegistryAddDefaultsName(t *testing.T) {
	r := NewRegistry(0)
	a, err := r.Add(TypeProduct, "", "", jpegBytes(t))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if a.Name != "product" {
		t.Errorf("Name: got %q, want %q", a.Name, "product")
	}
	if a.MimeType != "image/jpeg" {
		t.Errorf("MimeType: got %q", a.MimeType)
	}
}

func TestRegistryAddRejects(t *testing.T) {
	r := NewRegistry(0)
	valid := pngBytes(t, 2, 2)

	tests := []struct {
		name    string
		typ     Type
		data    []byte
		wantErr error
	}{
		{"bad type", "banner", valid, ErrInvalidType},
		{"empty", TypeLogo, nil, ErrEmpty},
		{"not an image", TypeLogo, []byte("%PDF-1.4 hello"), ErrUnsupportedMIME},
		{"truncated png", TypeLogo, valid[:20], ErrInvalidImage},
		{"too large", TypeLogo, append(append([]byte(nil), valid...), make([]byte, MaxSize)...), ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Add(tt.typ, "x", "", tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
	if r.Len() != 0 {
		t.Errorf("rejected assets must not be registered, got %d", r.Len())
	}
}

func TestRegistryLimit(t *testing.T) {
	r := NewRegistry(2)
	data := pngBytes(t, 2, 2)

	for i := 0; i < 2; i++ {
		if _, err := r.Add(TypeLogo, "logo", "", data); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}
	if _, err := r.Add(TypeProduct, "one too many", "", data); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("Add past the limit: got %v, want ErrLimitReached", err)
	}
	if r.Len() != 2 || !r.Full() {
		t.Errorf("Len: got %d full=%v, want 2 and full", r.Len(), r.Full())
	}
	if NewRegistry(0).Full() {
		t.Error("an unbounded registry is never full")
	}

	// Removing an asset frees a slot.
	first := r.List("")[0]
	r.Remove(first.ID)
	if _, err := r.Add(TypeLogo, "replacement", "", data); err != nil {
		t.Errorf("Add after Remove: %v", err)
	}
}

func TestInspect(t *testing.T) {
	mimeType, w, h, err := Inspect(pngBytes(t, 5, 3), "image/gif")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if mimeType != "image/png" || w != 5 || h != 3 {
		t.Errorf("got %s %dx%d, want image/png 5x3", mimeType, w, h)
	}

	if _, _, _, err := Inspect([]byte("<svg></svg>"), "image/svg+xml"); !errors.Is(err, ErrUnsupportedMIME) {
		t.Errorf("svg: got %v, want ErrUnsupportedMIME", err)
	}
	if _, _, _, err := Inspect(make([]byte, MaxSize+1), "image/png"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("oversize: got %v, want ErrTooLarge", err)
	}
}

func TestRegistryGetRemoveList(t *testing.T) {
	r := NewRegistry(0)
	logo, _ := r.Add(TypeLogo, "logo", "", pngBytes(t, 2, 2))
	product, _ := r.Add(TypeProduct, "shirt", "", pngBytes(t, 3, 3))
	logo2, _ := r.Add(TypeLogo, "logo2", "", pngBytes(t, 4, 4))

	if got, ok := r.Get(product.ID); !ok || got != product {
		t.Error("Get should find the product")
	}

	logos := r.List(TypeLogo)
	if len(logos) != 2 || logos[0] != logo || logos[1] != logo2 {
		t.Errorf("List(logo): got %v", logos)
	}
	if all := r.List(""); len(all) != 3 {
		t.Errorf("List(all): got %d, want 3", len(all))
	}

	if !r.Remove(logo.ID) {
		t.Fatal("Remove should report success")
	}
	if r.Remove(logo.ID) {
		t.Error("second Remove should report nothing removed")
	}
	if _, ok := r.Get(logo.ID); ok {
		t.Error("removed asset should be gone")
	}
	if all := r.List(""); len(all) != 2 || all[0] != product || all[1] != logo2 {
		t.Errorf("order after remove: %v", all)
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	data := pngBytes(t, 3, 3)
	u := DataURL("image/png", data)

	if !strings.HasPrefix(u, "data:image/png;base64,") {
		t.Fatalf("DataURL prefix: %q", u[:30])
	}

	mimeType, got, err := ParseDataURL(u)
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if mimeType != "image/png" || !bytes.Equal(got, data) {
		t.Error("round trip mismatch")
	}

	r := NewRegistry(0)
	a, err := r.AddDataURL(TypeLogo, "from-url", u)
	if err != nil {
		t.Fatalf("AddDataURL: %v", err)
	}
	if a.DataURL() != u {
		t.Error("asset DataURL should match the ingested URL")
	}
}

func TestParseDataURLInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"image/png;base64,AAAA",
		"data:image/png;base64",
		"data:text/plain,hello",
		"data:image/png;base64,@@@",
	} {
		if _, _, err := ParseDataURL(in); !errors.Is(err, ErrInvalidDataURL) {
			t.Errorf("ParseDataURL(%q): got %v, want ErrInvalidDataURL", in, err)
		}
	}
}

func TestDetectMIMEFallsBackToDeclared(t *testing.T) {
	// Bytes that sniff as octet-stream take the declared allowed type.
	got := DetectMIME([]byte{0x00, 0x01, 0x02}, "IMAGE/WEBP")
	if got != "image/webp" {
		t.Errorf("got %q, want image/webp", got)
	}
	got = DetectMIME([]byte("plain text"), "image/png")
	if got == "image/png" {
		t.Error("a confident sniff must win over the declared type")
	}
}
