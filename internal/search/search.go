package search

import (
	"strings"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
)

type Result struct {
	Record   profile.Record
	Position int    // index in list order
	Field    string // which field matched: name, organization, url
	Snippet  string
}

type Options struct {
	Query  string
	Status profile.Status // "" = all
	Limit  int            // 0 = no limit
}

// makeSnippet wraps the first case-insensitive occurrence of query in text
// with >>> <<< markers.
func makeSnippet(text, query string) string {
	lower := strings.ToLower(text)
	if query == "" || len(lower) != len(text) {
		return text
	}
	idx := strings.Index(lower, strings.ToLower(query))
	if idx < 0 {
		return text
	}
	end := idx + len(query)
	return text[:idx] + ">>>" + text[idx:end] + "<<<" + text[end:]
}

// Find returns the records matching opts, in list order. Every word of the
// query must appear in the full name, organization or URL.
func Find(records []profile.Record, opts Options) []Result {
	terms := strings.Fields(strings.ToLower(opts.Query))

	var results []Result
	for i, r := range records {
		if opts.Status != "" && r.VerificationStatus != opts.Status {
			continue
		}
		field, text, ok := matchRecord(r, terms)
		if !ok {
			continue
		}
		snippet := text
		if len(terms) > 0 {
			snippet = makeSnippet(text, terms[0])
		}
		results = append(results, Result{
			Record:   r,
			Position: i,
			Field:    field,
			Snippet:  snippet,
		})
		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
	}
	return results
}

func matchRecord(r profile.Record, terms []string) (field, text string, ok bool) {
	fields := []struct{ name, text string }{
		{"name", r.FullName()},
		{"organization", r.Organization},
		{"url", r.LinkedInURL},
	}
	if len(terms) == 0 {
		return "name", r.FullName(), true
	}

	all := strings.ToLower(r.FullName() + " " + r.Organization + " " + r.LinkedInURL)
	for _, t := range terms {
		if !strings.Contains(all, t) {
			return "", "", false
		}
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f.text), terms[0]) {
			return f.name, f.text, true
		}
	}
	return "name", r.FullName(), true
}
