// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package tagname canonicalises user-entered tag names and aliases.
//
// # Usage
//
// Tag names are what users type in search queries, so a stored name must be a
// valid query token: a lowercase ASCII letter followed by letters, digits,
// underscores or colons (e.g. "fox", "tail_wag", "artist:jane").
package tagname

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps a canonical name or alias.
const MaxLength = 64

var (
	// pattern is the lexical shape of a tag name and of a search token body.
	pattern = regexp.MustCompile(`^[a-z][a-z0-9_:]*$`)
	// multiUnderscore collapses runs of underscores left by separator folding.
	multiUnderscore = regexp.MustCompile(`_{2,}`)
)

// Normalize folds raw input toward canonical form.
//
// # Transformation Pipeline
//
// 1. NFKD decomposition, dropping combining marks ("Pokémon" → "Pokemon").
// 2. Lowercase and trim.
// 3. Whitespace and hyphens become underscores; runs collapse to one.
//
// Normalize never rejects input; pair it with [Valid].
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	result = strings.ToLower(strings.TrimSpace(result))

	result = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return '_'
		}
		return r
	}, result)

	result = multiUnderscore.ReplaceAllString(result, "_")
	return strings.Trim(result, "_")
}

// Valid reports whether s is already a well-formed canonical name.
func Valid(s string) bool {
	return len(s) <= MaxLength && pattern.MatchString(s)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
