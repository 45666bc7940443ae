// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for free-text fields.
const (
	maxPromptLen    = 4_000
	maxAssetNameLen = 200
	maxModelIDLen   = 200
)

// validatePrompt checks a free-text instruction and returns the first error
// found. Empty prompts are allowed; the generators decide whether they need one.
func validatePrompt(prompt string) string {
	if utf8.RuneCountInString(prompt) > maxPromptLen {
		return "Prompt is too long (max 4,000 characters)."
	}
	return ""
}

// validateAssetName checks an optional asset display name.
func validateAssetName(name string) string {
	if utf8.RuneCountInString(strings.TrimSpace(name)) > maxAssetNameLen {
		return "Name is too long (max 200 characters)."
	}
	return ""
}

// validateModelID checks a model identifier. Empty restores the default.
func validateModelID(id string) string {
	id = strings.TrimSpace(id)
	if utf8.RuneCountInString(id) > maxModelIDLen {
		return "Model id is too long (max 200 characters)."
	}
	if strings.ContainsAny(id, "/?#: \t") {
		return "Model id contains invalid characters."
	}
	return ""
}
