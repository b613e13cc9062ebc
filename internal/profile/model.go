package profile

import (
	"strings"
	"time"
)

// Status is the human (or bulk) judgment of whether a LinkedIn URL belongs
// to the named person.
type Status string

const (
	StatusPending Status = "pending"
	StatusYes     Status = "yes"
	StatusNo      Status = "no"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusYes, StatusNo:
		return true
	}
	return false
}

// ParseStatus accepts "yes"/"no" (and y/n, match/nomatch) case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch lower(s) {
	case "yes", "y", "match":
		return StatusYes, nil
	case "no", "n", "nomatch", "no-match":
		return StatusNo, nil
	case "pending":
		return StatusPending, nil
	}
	return "", ErrInvalidStatus
}

// NameMatch is the secondary signal set when a record is verified.
// The zero value means "not computed yet".
type NameMatch string

const (
	NameMatchUnset NameMatch = ""
	NameMatchYes   NameMatch = "yes"
	NameMatchNo    NameMatch = "no"
)

type Record struct {
	ID                 int
	FirstName          string
	LastName           string
	Organization       string
	LinkedInURL        string
	VerificationStatus Status
	NameMatch          NameMatch
	VerifiedAt         *time.Time
	Notes              *string
}

// FullName joins first and last name with a single space.
func (r Record) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	if r.FirstName == "" {
		return r.LastName
	}
	return r.FirstName + " " + r.LastName
}

// Pending reports whether nobody has judged the record yet.
func (r Record) Pending() bool {
	return r.VerificationStatus == "" || r.VerificationStatus == StatusPending
}

// Clone returns a copy that shares no pointers with r.
func (r Record) Clone() Record {
	c := r
	if r.VerifiedAt != nil {
		t := *r.VerifiedAt
		c.VerifiedAt = &t
	}
	if r.Notes != nil {
		n := *r.Notes
		c.Notes = &n
	}
	return c
}

// Patch holds the fields to merge into a record. Nil fields are left alone.
type Patch struct {
	VerificationStatus *Status
	NameMatch          *NameMatch
	Organization       *string
	Notes              *string
}

// Stats summarizes verification progress.
type Stats struct {
	Total     int
	Verified  int
	Matches   int
	NoMatches int
	Pending   int
}

// ComputeStats counts records by status.
func ComputeStats(records []Record) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		switch r.VerificationStatus {
		case StatusYes:
			s.Matches++
		case StatusNo:
			s.NoMatches++
		}
	}
	s.Verified = s.Matches + s.NoMatches
	s.Pending = s.Total - s.Verified
	return s
}

// Percent returns verified progress in the range 0-100.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Verified * 100 / s.Total
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
