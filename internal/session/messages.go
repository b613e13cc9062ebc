package session

// messages.go maps errors from the parser, the store and the exporter to a
// single user-visible message with a code that can be quoted in a bug report.
//
//	PARSE001  empty file            PROF001  profile not found
//	PARSE002  missing columns       PROF002  invalid status
//	PARSE003  no valid rows         PROF003  store busy
//	PARSE004  read failure          SES001   no profiles loaded
//	PARSE005  file too large        SES002   no profile selected
//	EXP001    export failed         SES003   cancelled
//	ERR000    anything else

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Zuo-Peng/profile-verifier/internal/export"
	"github.com/Zuo-Peng/profile-verifier/internal/parse"
	"github.com/Zuo-Peng/profile-verifier/internal/profile"
)

// Message is the user-facing rendition of an error.
type Message struct {
	Message string // what happened
	Action  string // what to do about it
	Code    string
}

func (m Message) String() string {
	if m.Message == "" {
		return ""
	}
	if m.Action == "" {
		return fmt.Sprintf("%s (Code: %s)", m.Message, m.Code)
	}
	return fmt.Sprintf("%s (Code: %s). %s", m.Message, m.Code, m.Action)
}

var defaultMessage = Message{
	Message: "An unexpected error occurred",
	Action:  "Try again, or reset the session",
	Code:    "ERR000",
}

// UserMessage maps err to a Message. A nil error maps to the zero Message.
func UserMessage(err error) Message {
	if err == nil {
		return Message{}
	}

	var pe *parse.ParseError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case parse.EmptyFile:
			return Message{
				Message: "The file is empty",
				Action:  "Upload a file with a header row and at least one data row",
				Code:    "PARSE001",
			}
		case parse.MissingColumns:
			return Message{
				Message: "Missing required columns: " + strings.Join(pe.Columns, ", "),
				Action:  "Add the columns firstname, lastname, organization, linkedin_url to the header row",
				Code:    "PARSE002",
			}
		case parse.NoValidRows:
			return Message{
				Message: "No valid profiles found in the file",
				Action:  "Each row needs firstname, lastname and linkedin_url",
				Code:    "PARSE003",
			}
		case parse.ReadFailure:
			if errors.Is(err, parse.ErrFileTooLarge) {
				return Message{
					Message: "The file is too large",
					Action:  "Split the file into smaller chunks",
					Code:    "PARSE005",
				}
			}
			return Message{
				Message: "Error reading file",
				Action:  "Check the path and that the file is readable",
				Code:    "PARSE004",
			}
		}
	}

	var nf *profile.NotFoundError
	switch {
	case errors.As(err, &nf):
		return Message{
			Message: fmt.Sprintf("Profile with ID %d not found", nf.ID),
			Action:  "List the profiles to see valid IDs",
			Code:    "PROF001",
		}
	case errors.Is(err, profile.ErrInvalidStatus):
		return Message{
			Message: "Verification status must be yes or no",
			Code:    "PROF002",
		}
	case errors.Is(err, profile.ErrBusy):
		return Message{
			Message: "Another update is still in progress",
			Action:  "Wait for it to finish and try again",
			Code:    "PROF003",
		}
	case errors.Is(err, export.ErrExportFailure):
		return Message{
			Message: "Could not export results",
			Action:  "Check that the export directory is writable",
			Code:    "EXP001",
		}
	case errors.Is(err, ErrNoProfiles):
		return Message{
			Message: "No profiles loaded",
			Action:  "Upload a file first",
			Code:    "SES001",
		}
	case errors.Is(err, ErrNoSelection):
		return Message{
			Message: "No profile selected",
			Action:  "Select a profile to verify",
			Code:    "SES002",
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Message{
			Message: "The operation was cancelled",
			Code:    "SES003",
		}
	}
	return defaultMessage
}
