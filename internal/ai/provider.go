// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai is the boundary to the generative image backend. A call
// takes an ordered list of inline images and text parts and always
// yields exactly one Response variant: Success, Empty, or *ProviderError.
// Provider payloads are decoded here once so callers never probe raw
// response shapes.
package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultModel is the image-capable Gemini model used when none is set.
const DefaultModel = "gemini-2.5-flash-image"

// Modality is an output type the model is asked to produce.
type Modality string

const (
	ModalityImage Modality = "IMAGE"
	ModalityText  Modality = "TEXT"
)

// Model is implemented by generation backends.
type Model interface {
	// GenerateContent runs a single generation request.
	GenerateContent(ctx context.Context, req Request) Response
}

// ProviderConfig holds the credentials and connection settings for a backend.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Part is one request input: an inline image when Data is set, text otherwise.
type Part struct {
	MimeType string
	Data     []byte
	Text     string
}

// ImagePart builds an inline image part.
func ImagePart(mimeType string, data []byte) Part {
	return Part{MimeType: mimeType, Data: data}
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// Request is a single generateContent call.
type Request struct {
	Model       string
	Parts       []Part
	Modalities  []Modality
	Temperature *float64
}

// Temperature returns a pointer to t for Request.Temperature.
func Temperature(t float64) *float64 {
	return &t
}

// Image is one generated image.
type Image struct {
	Data     []byte
	MimeType string
}

// DataURL encodes the image as a data: URL.
func (i Image) DataURL() string {
	return "data:" + i.MimeType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Response is the decoded outcome of a call. It is one of Success,
// Empty or *ProviderError.
type Response interface {
	response()
}

// Success carries whatever the model produced: inline images in order,
// and any text parts joined.
type Success struct {
	Images []Image
	Text   string
}

// Empty means the call succeeded but returned neither image nor text.
// Reason carries the finish or block reason when the provider gave one.
type Empty struct {
	Reason string
}

// ProviderError is a failed call: a non-2xx answer, an undecodable
// body, or a transport error (Status 0). Err is set for local failures
// and carries the wrapped cause.
type ProviderError struct {
	Status  int
	Code    string // provider status, e.g. "INVALID_ARGUMENT"
	Reason  string // detail reason, e.g. "API_KEY_INVALID"
	Message string
	Err     error
}

func (Success) response()        {}
func (Empty) response()          {}
func (*ProviderError) response() {}

// Error includes every provider detail so the message survives string
// matching by layers that only see the text.
func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	var b strings.Builder
	b.WriteString("gemini")
	if e.Status != 0 {
		fmt.Fprintf(&b, " API error (status %d", e.Status)
		if e.Code != "" {
			b.WriteString(" " + e.Code)
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Reason != "" {
		b.WriteString(" [" + e.Reason + "]")
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// FirstImage returns the first inline image of r, if any.
func FirstImage(r Response) (Image, bool) {
	s, ok := r.(Success)
	if !ok || len(s.Images) == 0 {
		return Image{}, false
	}
	return s.Images[0], true
}

// credentialSignatures are provider message fragments that mean the API
// key is invalid or lacks permission.
var credentialSignatures = []string{
	"API_KEY_INVALID",
	"API key not valid",
	"PERMISSION_DENIED",
}

// IsCredentialRejected reports whether err is the provider refusing the
// API key. Such errors are resolved by asking the user for a new key.
// Local and transport failures never count: their text carries request
// URLs and OS messages, not provider verdicts.
func IsCredentialRejected(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		if pe.Err != nil {
			return false
		}
		if pe.Status == http.StatusForbidden {
			return true
		}
		return hasCredentialSignature(pe.Code + " " + pe.Message + " " + pe.Reason)
	}
	return hasCredentialSignature(err.Error())
}

func hasCredentialSignature(msg string) bool {
	for _, sig := range credentialSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// IsModelNotFound reports whether err looks like an unknown model id.
func IsModelNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Requested entity was not found")
}
