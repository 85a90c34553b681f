package parse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrUnparseableDate indicates a date string no known format could parse.
// Callers must treat a row with an unparseable date as invalid and reject
// the whole batch.
var ErrUnparseableDate = errors.New("unparseable date")

// dateLayouts are tried in order before falling back to the permissive
// parser. They cover the statement formats seen in practice.
var dateLayouts = []string{
	"02 Jan 2006",
	"02Jan2006",
	"2006-01-02",
}

// NormalizeDate parses a free-form date string into a calendar date.
func NormalizeDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}

	if t, err := dateparse.ParseAny(trimmed); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
}
