// Package export serializes verification results back to delimited text.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
)

// Header is the fixed column order of an export.
var Header = []string{
	"firstname",
	"lastname",
	"organization",
	"linkedin_url",
	"name_match",
	"verification_status",
	"verified_at",
}

// ErrExportFailure wraps any failure to produce or deliver an export.
var ErrExportFailure = errors.New("export failed")

// ToDelimitedText renders a header row plus one row per record. Values are
// written as-is: a comma inside a value is not escaped.
func ToDelimitedText(records []profile.Record) string {
	var b strings.Builder
	b.WriteString(strings.Join(Header, ","))
	for _, r := range records {
		b.WriteByte('\n')
		b.WriteString(strings.Join(row(r), ","))
	}
	return b.String()
}

func row(r profile.Record) []string {
	nameMatch := string(r.NameMatch)
	if nameMatch == "" {
		nameMatch = string(profile.StatusPending)
	}
	status := string(r.VerificationStatus)
	if status == "" {
		status = string(profile.StatusPending)
	}
	verifiedAt := ""
	if r.VerifiedAt != nil {
		verifiedAt = r.VerifiedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		r.FirstName,
		r.LastName,
		r.Organization,
		r.LinkedInURL,
		nameMatch,
		status,
		verifiedAt,
	}
}

// FileName returns profile_verification_results_<YYYY-MM-DD>.csv for t.
func FileName(t time.Time) string {
	return fmt.Sprintf("profile_verification_results_%s.csv", t.Format("2006-01-02"))
}

// WriteFile writes the export for records into dir and returns its path.
func WriteFile(dir string, records []profile.Record, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create dir: %v", ErrExportFailure, err)
	}

	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, []byte(ToDelimitedText(records)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	return path, nil
}
