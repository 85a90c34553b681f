package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatementRows(t *testing.T) {
	t.Run("parses valid batch", func(t *testing.T) {
		input := "01 Jan 2024\tGRAB SINGAPORE\tS$18.40\n" +
			"02 Jan 2024\tNTUC FAIRPRICE\tS$52.30\n"

		rows, err := ParseStatementRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "GRAB SINGAPORE", rows[0].Description)
		assert.Equal(t, "S$18.40", rows[0].RawText)
		assert.Equal(t, 1, rows[0].Date.Day())
		assert.Equal(t, "NTUC FAIRPRICE", rows[1].Description)
		assert.Equal(t, 2, rows[1].Date.Day())
	})

	t.Run("skips blank lines", func(t *testing.T) {
		input := "01 Jan 2024\tGRAB SINGAPORE\tS$18.40\n" +
			"\n" +
			"   \n" +
			"02 Jan 2024\tNTUC FAIRPRICE\tS$52.30\n"

		rows, err := ParseStatementRows(strings.NewReader(input))
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("ignores fields beyond the third", func(t *testing.T) {
		input := "01 Jan 2024\tGRAB SINGAPORE\tS$18.40\ttrailing junk\n"

		rows, err := ParseStatementRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "S$18.40", rows[0].RawText)
	})

	t.Run("rejects rows with too few fields", func(t *testing.T) {
		input := "01 Jan 2024\tGRAB SINGAPORE\n"

		_, err := ParseStatementRows(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "3 tab-separated fields")
	})

	t.Run("one bad date rejects the whole batch", func(t *testing.T) {
		input := "01 Jan 2024\tGRAB SINGAPORE\tS$18.40\n" +
			"not-a-date\tNTUC FAIRPRICE\tS$52.30\n" +
			"03 Jan 2024\tMCDONALDS\tS$9.50\n"

		rows, err := ParseStatementRows(strings.NewReader(input))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnparseableDate)
		assert.Contains(t, err.Error(), "not-a-date")
		assert.Nil(t, rows)
	})

	t.Run("empty input yields no rows", func(t *testing.T) {
		rows, err := ParseStatementRows(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
