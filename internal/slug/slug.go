// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives short, filesystem-safe names from free text such
// as generation prompts.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, whitespace or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace matches runs of any whitespace.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// DefaultMaxLen bounds names derived with Name.
const DefaultMaxLen = 80

// Generate turns s into a lowercase hyphenated slug.
// Example: "Red Fox, Minimal!" → "red-fox-minimal"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Name slugifies s and cuts it to maxLen, at the last hyphen when that
// does not leave too little. It returns fallback when nothing is left.
func Name(s, fallback string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	name := Generate(s)
	if len(name) > maxLen {
		name = name[:maxLen]
		// Trim at the last hyphen to avoid cutting a word in half.
		if i := strings.LastIndex(name, "-"); i > maxLen/4 {
			name = name[:i]
		}
		name = strings.Trim(name, "-")
	}
	if name == "" {
		return fallback
	}
	return name
}
