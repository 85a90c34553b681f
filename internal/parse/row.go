package parse

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// StatementRow is one parsed line of pasted statement data.
type StatementRow struct {
	Date        time.Time
	DateText    string
	Description string
	RawText     string
}

// ParseStatementRows reads tab-separated statement lines: date text,
// description, raw amount text. Date validation is all-or-nothing; if any
// row's date fails to parse the whole batch is rejected with the
// offending values listed.
func ParseStatementRows(r io.Reader) ([]StatementRow, error) {
	var rows []StatementRow
	var invalidDates []string

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 tab-separated fields, got %d", lineNo, len(fields))
		}

		row := StatementRow{
			DateText:    strings.TrimSpace(fields[0]),
			Description: strings.TrimSpace(fields[1]),
			RawText:     strings.TrimSpace(fields[2]),
		}

		date, err := NormalizeDate(row.DateText)
		if err != nil {
			invalidDates = append(invalidDates, row.DateText)
			continue
		}
		row.Date = date
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read statement data: %w", err)
	}

	if len(invalidDates) > 0 {
		return nil, fmt.Errorf("%w: invalid date format found in: %s",
			ErrUnparseableDate, strings.Join(invalidDates, ", "))
	}

	return rows, nil
}
