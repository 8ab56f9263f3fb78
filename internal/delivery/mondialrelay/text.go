package mondialrelay

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Unaccent strips diacritics so text survives the carrier's ASCII-only fields
func Unaccent(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// FormatPhone renders a local number as +<dialing code><digits>.
// Without a dialing code only the digits are returned.
func FormatPhone(country *Country, value string) string {
	var digits strings.Builder
	for _, r := range Unaccent(value) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if country == nil || country.PhoneCode == "" {
		return digits.String()
	}
	return "+" + strings.TrimPrefix(country.PhoneCode, "+") + digits.String()
}
