package numbering

import (
	"strings"
	"unicode/utf8"

	"github.com/sopas/backend/internal/domain/shared"
)

// Prefix is the short alphabetic code shared by all identifiers of a
// semantic group (e.g. "CU" for fallback customers, "OID" for orders).
type Prefix string

// Fallback and fixed prefixes per entity kind.
const (
	PartyFallbackPrefix Prefix = "CU"
	AgentFallbackPrefix Prefix = "AG"
	StoreFallbackPrefix Prefix = "ST"
	UserPrefix          Prefix = "EMP"
	OrderPrefix         Prefix = "OID"

	namePrefixLength     = 2
	categoryPrefixLength = 3
)

// PartyPrefix derives a two-letter prefix for a party. Company-type parties
// use the company name; everyone else uses the first consignee name. The
// function is total: missing or unusable attributes fall back to "CU".
func PartyPrefix(partyType, companyName string, consigneeNames []string) Prefix {
	if strings.EqualFold(partyType, "Company") {
		if p, ok := leadingLetters(companyName, namePrefixLength); ok {
			return p
		}
	}
	if len(consigneeNames) > 0 {
		if p, ok := leadingLetters(consigneeNames[0], namePrefixLength); ok {
			return p
		}
	}
	return PartyFallbackPrefix
}

// NamePrefix derives a two-letter prefix from a display name, falling back
// to the given constant when the name yields nothing usable. Total.
func NamePrefix(name string, fallback Prefix) Prefix {
	if p, ok := leadingLetters(name, namePrefixLength); ok {
		return p
	}
	return fallback
}

// CategoryPrefix derives a prefix from a product category: the first letter
// of each word, concatenated and truncated to three characters. Unlike the
// name-based derivations there is no fallback: a category that is blank or
// yields no letters is a validation error, not a silent default.
func CategoryPrefix(category string) (Prefix, error) {
	var b strings.Builder
	for _, word := range strings.Fields(category) {
		r, _ := utf8.DecodeRuneInString(word)
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
		if b.Len() >= categoryPrefixLength {
			break
		}
	}
	if b.Len() == 0 {
		return "", shared.NewDomainError("INVALID_CATEGORY", "Category is required for product ID generation")
	}
	return Prefix(strings.ToUpper(b.String())), nil
}

// leadingLetters takes the first n characters of the trimmed input,
// uppercased. It reports false when the input is too short to fill the
// prefix width.
func leadingLetters(s string, n int) (Prefix, bool) {
	trimmed := strings.TrimSpace(s)
	runes := []rune(trimmed)
	if len(runes) < n {
		return "", false
	}
	return Prefix(strings.ToUpper(string(runes[:n]))), true
}
