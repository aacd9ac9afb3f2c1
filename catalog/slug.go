package catalog

import (
	"math/rand"
	"regexp"
	"strings"
)

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9-]`)
)

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// generateSlug derives a URL slug from a store name: lowercased, whitespace
// collapsed to hyphens, everything else stripped.
func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	return slugInvalid.ReplaceAllString(slug, "")
}

// randomSuffix returns six base36 characters for slug collisions.
func randomSuffix() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
