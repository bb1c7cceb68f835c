package core

// error_messages.go maps technical errors to user-facing messages.
//
// This file defines user-friendly error messages with codes for support
// reference. Codes are grouped by category:
//
//	DB001-DB007   store errors (duplicates, constraints, connectivity)
//	VAL001-VAL004 validation errors (dates, recurrence rules, required fields)
//	FILE001-FILE005 file errors (size, format, parse failures)
//	IMP001-IMP005 import and bulk errors (limits, expired previews, deadlines)
//	RATE001       request throttling
//	ERR000        fallback
//
// Sentinel errors from this package are matched with errors.Is/errors.As
// first. Everything else falls through to case-insensitive substring
// patterns, where the first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgLimitExceeded = UserMessage{
		Message: "Too many sessions in one request",
		Action:  "Split the sessions into batches of at most 500",
		Code:    "IMP001",
	}
	msgImportNotFound = UserMessage{
		Message: "Import preview not found",
		Action:  "The preview may have expired. Please upload the file again",
		Code:    "IMP002",
	}
	msgTooManyImports = UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "IMP003",
	}
	msgCommitDeadline = UserMessage{
		Message: "The commit ran out of time",
		Action:  "Retry the sessions listed as failed",
		Code:    "IMP004",
	}
	msgUnsupportedFormat = UserMessage{
		Message: "File format is not supported",
		Action:  "Upload a CSV, JSON or XML file",
		Code:    "FILE002",
	}
	msgParse = UserMessage{
		Message: "The file could not be read",
		Action:  "Compare your file with the sample file for its format",
		Code:    "FILE003",
	}
	msgInvalidRecurrence = UserMessage{
		Message: "The repeat rule is incomplete or invalid",
		Action:  "Check the frequency, interval and end condition",
		Code:    "VAL002",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains; more specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Store Constraint Errors (DB001-DB003)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A session with this ID already exists",
			Action:  "Retry the failed sessions",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate sessions in your file",
			Code:    "DB002",
		},
	},
	{
		pattern: "check constraint",
		msg: UserMessage{
			Message: "A session value was rejected by the database",
			Action:  "Review the failed session's fields",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Store Connection Errors (DB004-DB007)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller batch or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL004)
	// =========================================================================
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Use YYYY-MM-DD, 2024-01-15T09:00:00Z, or Jan 15, 2024",
			Code:    "VAL001",
		},
	},
	{
		pattern: "title is required",
		msg: UserMessage{
			Message: "A session is missing its title",
			Action:  "Give every session a title",
			Code:    "VAL003",
		},
	},
	{
		pattern: "duration must be",
		msg: UserMessage{
			Message: "A session has no duration",
			Action:  "Set the duration in whole minutes",
			Code:    "VAL004",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE005)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with at least one session",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Import Errors (IMP005)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP005",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Known sentinel errors are checked first; then the pattern table is searched
// and the first match returned. Unmatched errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var parseErr *ParseError
	switch {
	case errors.Is(err, ErrLimitExceeded):
		return msgLimitExceeded
	case errors.Is(err, ErrImportNotFound):
		return msgImportNotFound
	case errors.Is(err, ErrTooManyImports):
		return msgTooManyImports
	case errors.Is(err, ErrCommitDeadline):
		return msgCommitDeadline
	case errors.Is(err, ErrUnsupportedFormat):
		return msgUnsupportedFormat
	case errors.Is(err, ErrInvalidRecurrence):
		return msgInvalidRecurrence
	case errors.As(err, &parseErr):
		return msgParse
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
