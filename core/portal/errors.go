package portal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCollaboratorFailure matches every error returned by the portal client.
var ErrCollaboratorFailure = errors.New("portal request failed")

// Error describes a failed portal call.
type Error struct {
	// Op is the operation that failed, e.g. "query".
	Op string
	// Code is the HTTP status or the portal error code.
	Code int
	// Message is the portal's message, if any.
	Message string
	// Details holds additional portal messages.
	Details []string
	// Err is the underlying transport or decoding error, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "portal %s failed", e.Op)
	if e.Code != 0 {
		fmt.Fprintf(&b, " (code %d)", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if len(e.Details) > 0 {
		b.WriteString(" [" + strings.Join(e.Details, "; ") + "]")
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrCollaboratorFailure
}

// apiError is the {"error": {...}} envelope the portal returns with HTTP 200.
type apiError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}
