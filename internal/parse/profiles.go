// Package parse turns uploaded delimited text into profile records.
//
// The format is deliberately naive: lines are split on '\n' and cells on ','
// with no quoting or escaping, so a value containing a comma shifts every
// column after it.
package parse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Required header columns, matched case-insensitively.
const (
	ColFirstName    = "firstname"
	ColLastName     = "lastname"
	ColOrganization = "organization"
	ColLinkedInURL  = "linkedin_url"
)

// RequiredColumns lists the header names every upload must carry.
var RequiredColumns = []string{ColFirstName, ColLastName, ColOrganization, ColLinkedInURL}

// Kind classifies a parse failure.
type Kind int

const (
	EmptyFile Kind = iota + 1
	MissingColumns
	NoValidRows
	ReadFailure
)

func (k Kind) String() string {
	switch k {
	case EmptyFile:
		return "empty file"
	case MissingColumns:
		return "missing columns"
	case NoValidRows:
		return "no valid rows"
	case ReadFailure:
		return "read failure"
	}
	return "unknown"
}

// ParseError is returned for every parse failure.
type ParseError struct {
	Kind    Kind
	Columns []string // set for MissingColumns
	Err     error    // set for ReadFailure
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case EmptyFile:
		return "empty file: must contain a header row and at least one data row"
	case MissingColumns:
		return "missing required columns: " + strings.Join(e.Columns, ", ")
	case NoValidRows:
		return "no valid rows: no profiles with firstname, lastname and linkedin_url found"
	case ReadFailure:
		if e.Err != nil {
			return "read failure: " + e.Err.Error()
		}
		return "read failure"
	}
	return "parse error"
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches any ParseError of the same Kind, so callers can write
// errors.Is(err, parse.ErrEmptyFile).
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyFile      = &ParseError{Kind: EmptyFile}
	ErrMissingColumns = &ParseError{Kind: MissingColumns}
	ErrNoValidRows    = &ParseError{Kind: NoValidRows}
	ErrReadFailure    = &ParseError{Kind: ReadFailure}
)

// ErrFileTooLarge is wrapped in a ReadFailure when an input exceeds the limit.
var ErrFileTooLarge = errors.New("file too large")

// IDAllocator hands out record ids. *profile.Store satisfies it.
type IDAllocator interface {
	NextID() int
}

// Result is a successful parse.
type Result struct {
	Records []profile.Record
	Skipped int // data rows dropped for missing required values
}

// Parse converts raw text into records, drawing ids from ids only for rows
// that are kept.
func Parse(raw string, ids IDAllocator) (*Result, error) {
	lines := strings.Split(raw, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) < 2 {
		return nil, &ParseError{Kind: EmptyFile}
	}

	idx := headerIndex(lines[0])
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &ParseError{Kind: MissingColumns, Columns: missing}
	}

	res := &Result{}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		values := strings.Split(line, ",")
		r := profile.Record{
			FirstName:          cell(values, idx[ColFirstName]),
			LastName:           cell(values, idx[ColLastName]),
			Organization:       cell(values, idx[ColOrganization]),
			LinkedInURL:        cell(values, idx[ColLinkedInURL]),
			VerificationStatus: profile.StatusPending,
		}
		if r.FirstName == "" || r.LastName == "" || r.LinkedInURL == "" {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, r)
	}

	if len(res.Records) == 0 {
		return nil, &ParseError{Kind: NoValidRows}
	}
	for i := range res.Records {
		res.Records[i].ID = ids.NextID()
	}
	return res, nil
}

// Read parses everything from r. A UTF-8 or UTF-16 byte order mark is
// honored and invalid UTF-8 is replaced. limit <= 0 disables the size check.
func Read(r io.Reader, limit int64, ids IDAllocator) (*Result, error) {
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, &ParseError{Kind: ReadFailure, Err: err}
	}
	if limit > 0 && int64(len(raw)) > limit {
		return nil, &ParseError{Kind: ReadFailure, Err: fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, limit)}
	}

	data, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, &ParseError{Kind: ReadFailure, Err: fmt.Errorf("decode: %w", err)}
	}
	return Parse(string(data), ids)
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string, limit int64, ids IDAllocator) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Kind: ReadFailure, Err: err}
	}
	defer f.Close()

	if limit > 0 {
		if info, err := f.Stat(); err == nil && info.Size() > limit {
			return nil, &ParseError{Kind: ReadFailure, Err: fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, info.Size(), limit)}
		}
	}
	return Read(f, limit, ids)
}

func headerIndex(line string) map[string]int {
	idx := make(map[string]int)
	for i, h := range strings.Split(line, ",") {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

func cell(values []string, pos int) string {
	if pos < 0 || pos >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[pos])
}
