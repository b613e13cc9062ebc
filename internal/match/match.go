// Package match provides name comparators used when a profile is verified.
package match

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug compares the record's name with the vanity slug of its LinkedIn URL,
// e.g. "José Núñez" matches https://www.linkedin.com/in/jose-nunez-4a1b2c.
// Every name token must appear in the slug.
type Slug struct{}

func (Slug) MatchNames(r profile.Record) profile.NameMatch {
	first := tokens(r.FirstName)
	last := tokens(r.LastName)
	if len(first) == 0 || len(last) == 0 {
		return profile.NameMatchNo
	}

	slug := tokens(profileSlug(r.LinkedInURL))
	if len(slug) == 0 {
		return profile.NameMatchNo
	}
	have := make(map[string]bool, len(slug))
	for _, t := range slug {
		have[t] = true
	}
	joined := strings.Join(slug, "")

	for _, t := range append(first, last...) {
		if !have[t] && !strings.Contains(joined, t) {
			return profile.NameMatchNo
		}
	}
	return profile.NameMatchYes
}

// Fixed always answers v. Handy for tests and dry runs.
type Fixed profile.NameMatch

func (f Fixed) MatchNames(r profile.Record) profile.NameMatch {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return profile.NameMatchNo
	}
	return profile.NameMatch(f)
}

// ByName returns the comparator registered under name, or false.
func ByName(name string) (profile.Matcher, bool) {
	switch strings.ToLower(name) {
	case "", "slug":
		return Slug{}, true
	case "always-yes":
		return Fixed(profile.NameMatchYes), true
	case "always-no":
		return Fixed(profile.NameMatchNo), true
	}
	return nil, false
}

// profileSlug extracts the path segment following /in/ (or /pub/).
func profileSlug(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if (p == "in" || p == "pub") && i+1 < len(parts) {
			if s, err := url.PathUnescape(parts[i+1]); err == nil {
				return s
			}
			return parts[i+1]
		}
	}
	return ""
}

// fold lower-cases s and strips diacritics.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// tokens splits s into folded alphanumeric words.
func tokens(s string) []string {
	return strings.FieldsFunc(fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
