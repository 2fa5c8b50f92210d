package core

// errors.go defines the sentinel errors shared across the service and
// the mapping from technical errors to user-facing messages.
//
// Error codes are grouped by category so users can quote them to
// support staff:
//
//	FILE001 - manifest encoding is not UTF-8
//	FILE002 - manifest is missing its two header rows
//	FILE003 - manifest header columns do not match the template
//	REF001  - a referenced address/package/shipment does not exist
//	SVC001  - unknown shipping service id
//	PUR001  - purchase attempted without accepting terms
//	GEN001  - anything else

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a referenced record does not exist. Bulk
// handlers map it to a 404 for the failing sub-operation.
var ErrNotFound = errors.New("record not found")

// ErrTermsNotAccepted rejects a purchase before any side effect.
var ErrTermsNotAccepted = errors.New("terms must be accepted")

// UserMessage is a user-facing rendition of an error.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

// MapError translates an internal error into a user-facing message with
// a support code. The technical error should still be logged server-side.
func MapError(err error) UserMessage {
	switch {
	case errors.Is(err, ErrInvalidEncoding):
		return UserMessage{
			Message: "The uploaded file contains invalid characters.",
			Action:  "Save the file with UTF-8 encoding and try again.",
			Code:    "FILE001",
		}
	case errors.Is(err, ErrMissingHeaders):
		return UserMessage{
			Message: "The uploaded file is missing its two header rows.",
			Action:  "Download the manifest template and keep both header rows.",
			Code:    "FILE002",
		}
	case errors.Is(err, ErrNotFound):
		return UserMessage{
			Message: "A referenced record was not found.",
			Action:  "Refresh the page and retry with existing records.",
			Code:    "REF001",
		}
	case errors.Is(err, ErrUnknownService):
		return UserMessage{
			Message: "The selected shipping service does not exist.",
			Action:  "Choose one of the listed shipping services.",
			Code:    "SVC001",
		}
	case errors.Is(err, ErrTermsNotAccepted):
		return UserMessage{
			Message: "Terms must be accepted before purchasing labels.",
			Action:  "Accept the terms and conditions, then retry.",
			Code:    "PUR001",
		}
	case err != nil && strings.Contains(err.Error(), "header mismatch"):
		return UserMessage{
			Message: "The uploaded file's columns do not match the manifest template.",
			Action:  "Download the current template and re-export your data.",
			Code:    "FILE003",
		}
	default:
		return UserMessage{
			Message: "Something went wrong processing the request.",
			Action:  "Try again; contact support if the problem persists.",
			Code:    "GEN001",
		}
	}
}
