package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Zuo-Peng/profile-verifier/internal/export"
	"github.com/Zuo-Peng/profile-verifier/internal/parse"
	"github.com/Zuo-Peng/profile-verifier/internal/profile"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"empty file", &parse.ParseError{Kind: parse.EmptyFile}, "PARSE001"},
		{"missing columns", fmt.Errorf("upload x: %w", &parse.ParseError{Kind: parse.MissingColumns, Columns: []string{"organization"}}), "PARSE002"},
		{"no valid rows", &parse.ParseError{Kind: parse.NoValidRows}, "PARSE003"},
		{"read failure", &parse.ParseError{Kind: parse.ReadFailure, Err: errors.New("eof")}, "PARSE004"},
		{"too large", &parse.ParseError{Kind: parse.ReadFailure, Err: fmt.Errorf("%w: big", parse.ErrFileTooLarge)}, "PARSE005"},
		{"not found", fmt.Errorf("verify: %w", &profile.NotFoundError{ID: 7}), "PROF001"},
		{"invalid status", profile.ErrInvalidStatus, "PROF002"},
		{"busy", profile.ErrBusy, "PROF003"},
		{"export", fmt.Errorf("%w: disk full", export.ErrExportFailure), "EXP001"},
		{"no profiles", ErrNoProfiles, "SES001"},
		{"no selection", ErrNoSelection, "SES002"},
		{"cancelled", context.Canceled, "SES003"},
		{"other", errors.New("boom"), "ERR000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := UserMessage(tt.err)
			if m.Code != tt.code {
				t.Errorf("code = %s, want %s", m.Code, tt.code)
			}
			if m.Message == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestUserMessageDetails(t *testing.T) {
	m := UserMessage(&parse.ParseError{Kind: parse.MissingColumns, Columns: []string{"lastname", "organization"}})
	if !strings.Contains(m.Message, "lastname, organization") {
		t.Errorf("message = %q, want the missing columns listed", m.Message)
	}

	m = UserMessage(&profile.NotFoundError{ID: 7})
	if got := m.String(); got != "Profile with ID 7 not found (Code: PROF001). List the profiles to see valid IDs" {
		t.Errorf("String() = %q", got)
	}

	if got := UserMessage(nil); got != (Message{}) || got.String() != "" {
		t.Errorf("nil error mapped to %+v", got)
	}
}
