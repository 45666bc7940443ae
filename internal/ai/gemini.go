// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

	// defaultTimeout accommodates image generation, which routinely takes
	// tens of seconds.
	defaultTimeout = 120 * time.Second

	// maxResponseSize bounds the decoded response body (images are inline).
	maxResponseSize = 64 << 20
)

// Gemini implements Model using the Google Gemini REST API
// (POST /v1beta/models/{model}:generateContent).
type Gemini struct {
	config ProviderConfig
	client *http.Client
}

// NewGemini creates a Gemini client for one API key.
func NewGemini(cfg ProviderConfig) *Gemini {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Gemini{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// GenerateContent sends req and decodes the answer into a Response.
func (g *Gemini) GenerateContent(ctx context.Context, req Request) Response {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	payload, err := json.Marshal(buildGeminiRequest(req))
	if err != nil {
		return localError(0, fmt.Errorf("gemini marshal: %w", err))
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.config.BaseURL, model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return localError(0, fmt.Errorf("gemini request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.config.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return localError(0, fmt.Errorf("gemini http: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return localError(resp.StatusCode, fmt.Errorf("gemini read body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return decodeGeminiError(resp.StatusCode, respBody)
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return localError(resp.StatusCode, fmt.Errorf("gemini unmarshal: %w", err))
	}
	return decodeGeminiResponse(result)
}

func buildGeminiRequest(req Request) geminiRequest {
	parts := make([]geminiPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		if len(p.Data) > 0 {
			parts = append(parts, geminiPart{InlineData: &geminiInlineData{
				MimeType: p.MimeType,
				Data:     base64.StdEncoding.EncodeToString(p.Data),
			}})
			continue
		}
		parts = append(parts, geminiPart{Text: p.Text})
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	}
	if len(req.Modalities) > 0 || req.Temperature != nil {
		cfg := &geminiGenerationConfig{Temperature: req.Temperature}
		for _, m := range req.Modalities {
			cfg.ResponseModalities = append(cfg.ResponseModalities, string(m))
		}
		body.GenerationConfig = cfg
	}
	return body
}

// decodeGeminiResponse reads the first candidate's parts.
func decodeGeminiResponse(result geminiResponse) Response {
	if len(result.Candidates) == 0 {
		reason := ""
		if result.PromptFeedback != nil {
			reason = result.PromptFeedback.BlockReason
		}
		return Empty{Reason: reason}
	}

	c := result.Candidates[0]
	var out Success
	var texts []string
	for _, part := range c.Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return localError(0, fmt.Errorf("gemini decode image: %w", err))
			}
			mimeType := part.InlineData.MimeType
			if mimeType == "" {
				mimeType = "image/png"
			}
			out.Images = append(out.Images, Image{Data: data, MimeType: mimeType})
			continue
		}
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	out.Text = strings.Join(texts, "\n")

	if len(out.Images) == 0 && out.Text == "" {
		return Empty{Reason: c.FinishReason}
	}
	return out
}

func localError(status int, err error) *ProviderError {
	return &ProviderError{Status: status, Message: err.Error(), Err: err}
}

// decodeGeminiError turns a non-2xx answer into a ProviderError, using
// the structured Google error body when present.
func decodeGeminiError(status int, body []byte) *ProviderError {
	pe := &ProviderError{Status: status}

	var env geminiErrorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		pe.Code = env.Error.Status
		pe.Message = env.Error.Message
		for _, d := range env.Error.Details {
			if d.Reason != "" {
				pe.Reason = d.Reason
				break
			}
		}
		return pe
	}

	pe.Message = strings.TrimSpace(string(body))
	if pe.Message == "" {
		pe.Message = http.StatusText(status)
	}
	return pe
}

// --- Gemini API types ---

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
	Temperature        *float64 `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
}

type geminiErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Reason string `json:"reason"`
		} `json:"details"`
	} `json:"error"`
}
