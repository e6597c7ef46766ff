package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	in := core.SampleExpenses()
	in[3].Amount = decimal.RequireFromString("300.75")

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(in)+1)
	require.Equal(t, CSVHeader, lines[0])

	for i, line := range lines[1:] {
		fields := strings.Split(line, ",")
		require.Len(t, fields, 4)
		date, err := core.ParseDate(fields[0])
		require.NoError(t, err)
		amount, err := decimal.NewFromString(fields[2])
		require.NoError(t, err)

		require.Equal(t, in[i].Date, date)
		require.Equal(t, in[i].Category, fields[1])
		require.True(t, in[i].Amount.Equal(amount))
		require.Equal(t, in[i].Description, fields[3])
	}
}

func TestWriteCSVDoesNotEscape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []core.Expense{{
		Date:        core.NewDate(2025, 9, 1),
		Amount:      decimal.NewFromInt(5),
		Category:    `Food, "fancy"`,
		Description: "a,b",
	}}))
	require.Equal(t, CSVHeader+"\n2025-09-01,Food, \"fancy\",5,a,b\n", buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	require.Equal(t, CSVHeader+"\n", buf.String())
}

func TestExportCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "expenses_summary.csv")
	require.NoError(t, ExportCSVFile(path, core.SampleExpenses()[:2]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t,
		"Date,Category,Amount,Description\n2025-09-01,Food,150,Breakfast\n2025-09-01,Transport,50,Bus fare\n",
		string(data))
}
