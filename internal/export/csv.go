// Package export renders records as CSV, console tables and raw documents.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"expensetracker/internal/core"
)

// CSVHeader is the first line of every export.
const CSVHeader = "Date,Category,Amount,Description"

// WriteCSV writes one line per expense in the order given. Fields are joined
// with commas as-is: embedded commas or quotes are not escaped, so a reader
// splitting on commas only recovers fields that contain none.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		if _, err := fmt.Fprintf(bw, "%s,%s,%s,%s\n", e.Date, e.Category, e.Amount.String(), e.Description); err != nil {
			return fmt.Errorf("write csv row %d: %w", e.ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExportCSVFile writes the expenses to path, replacing any existing file.
func ExportCSVFile(path string, expenses []core.Expense) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close csv file: %w", cerr)
		}
	}()
	return WriteCSV(f, expenses)
}
