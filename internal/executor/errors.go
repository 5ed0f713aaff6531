package executor

import (
	"errors"
	"fmt"
)

// ErrUnsupportedQuery means normalization produced a query id this layer
// does not implement. That is a normalizer/executor mapping bug, not a
// user error.
var ErrUnsupportedQuery = errors.New("unsupported query id")

// ScopeError reports a requested date outside the stored data range. The
// HTTP layer turns this into a clarification request, so the message names
// both the offending date and the valid range.
type ScopeError struct {
	Date    string
	MinDate string
	MaxDate string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("date %s is outside the available range %s to %s", e.Date, e.MinDate, e.MaxDate)
}
