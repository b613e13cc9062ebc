package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
)

func sampleRecords() []profile.Record {
	at := time.Date(2024, 3, 9, 14, 30, 0, 0, time.FixedZone("CET", 3600))
	return []profile.Record{
		{ID: 1, FirstName: "Jane", LastName: "Doe", Organization: "Acme", LinkedInURL: "https://linkedin.com/in/jd",
			VerificationStatus: profile.StatusYes, NameMatch: profile.NameMatchYes, VerifiedAt: &at},
		{ID: 2, FirstName: "John", LastName: "Roe", LinkedInURL: "https://linkedin.com/in/jr",
			VerificationStatus: profile.StatusPending},
		{ID: 3, FirstName: "Ann", LastName: "Lee", Organization: "Initech", LinkedInURL: "https://linkedin.com/in/al"},
	}
}

func TestToDelimitedText(t *testing.T) {
	got := ToDelimitedText(sampleRecords())
	want := strings.Join([]string{
		"firstname,lastname,organization,linkedin_url,name_match,verification_status,verified_at",
		"Jane,Doe,Acme,https://linkedin.com/in/jd,yes,yes,2024-03-09T13:30:00Z",
		"John,Roe,,https://linkedin.com/in/jr,pending,pending,",
		"Ann,Lee,Initech,https://linkedin.com/in/al,pending,pending,",
	}, "\n")
	if got != want {
		t.Errorf("ToDelimitedText:\n%s\nwant:\n%s", got, want)
	}
}

func TestToDelimitedTextLineCount(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		records := sampleRecords()[:n]
		lines := strings.Split(ToDelimitedText(records), "\n")
		if len(lines) != n+1 {
			t.Errorf("%d records: %d lines, want %d", n, len(lines), n+1)
		}
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC))
	if got != "profile_verification_results_2024-01-05.csv" {
		t.Errorf("FileName = %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	now := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	path, err := WriteFile(dir, sampleRecords(), now)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if filepath.Base(path) != "profile_verification_results_2024-03-09.csv" {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != ToDelimitedText(sampleRecords())+"\n" {
		t.Errorf("file content mismatch:\n%s", data)
	}
}

func TestWriteFileFailure(t *testing.T) {
	// a regular file where the directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := WriteFile(blocker, sampleRecords(), time.Now())
	if !errors.Is(err, ErrExportFailure) {
		t.Fatalf("err = %v, want ErrExportFailure", err)
	}
}
