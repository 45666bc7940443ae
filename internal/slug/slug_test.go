// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"strings"
	"testing"
)

// TestGenerate exercises the slug generator with typical generation
// prompts, special characters, whitespace and edge cases.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Typical prompts ---
		{
			name:  "simple two words",
			input: "Red Fox",
			want:  "red-fox",
		},
		{
			name:  "product description",
			input: "White cotton t-shirt, front view",
			want:  "white-cotton-t-shirt-front-view",
		},
		{
			name:  "already a slug",
			input: "coffee-mug",
			want:  "coffee-mug",
		},

		// --- Special characters ---
		{
			name:  "punctuation marks",
			input: "Bold! Modern? Logo.",
			want:  "bold-modern-logo",
		},
		{
			name:  "ampersand",
			input: "Salt & Pepper Bakery",
			want:  "salt-pepper-bakery",
		},
		{
			name:  "quotes",
			input: `"Acme" coffee's logo`,
			want:  "acme-coffees-logo",
		},
		{
			name:  "unicode stripped",
			input: "café ☕ logo",
			want:  "caf-logo",
		},

		// --- Whitespace handling ---
		{
			name:  "leading and trailing spaces",
			input: "  hello world  ",
			want:  "hello-world",
		},
		{
			name:  "tabs and newlines collapse",
			input: "hello\t\nworld",
			want:  "hello-world",
		},

		// --- Hyphen handling ---
		{
			name:  "leading and trailing hyphens",
			input: "--hello--",
			want:  "hello",
		},
		{
			name:  "hyphens and spaces mixed",
			input: "a - b - c",
			want:  "a-b-c",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only special characters",
			input: "!@#$%^&*()",
			want:  "",
		},
		{
			name:  "numbers only",
			input: "2026",
			want:  "2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	long := strings.Repeat("word ", 40)

	tests := []struct {
		name     string
		input    string
		fallback string
		maxLen   int
		want     string
	}{
		{"short passes through", "Red Fox", "logo", 80, "red-fox"},
		{"fallback on empty", "???", "logo", 80, "logo"},
		{"cut at last hyphen", "alpha beta gamma delta", "x", 14, "alpha-beta"},
		{"default max length", long, "x", 0, strings.TrimSuffix(strings.Repeat("word-", 16), "-")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Name(tt.input, tt.fallback, tt.maxLen)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that a slug maps to itself.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"hello-world", "logo-2026", "a", "123"} {
		if got := Generate(s); got != s {
			t.Errorf("Generate(%q) = %q, want idempotent result", s, got)
		}
	}
}
