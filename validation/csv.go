package validation

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

const previewRows = 10

// Result of a structural CSV check. Reason is set only on failure and is
// specific enough to feed back into the next generation prompt.
type Result struct {
	OK       bool
	Reason   string
	Warning  string
	Columns  []string
	RowCount int
	Preview  [][]string
}

func fail(reason string) Result {
	return Result{OK: false, Reason: reason}
}

// ValidateCSV checks the produced artifact for minimal structural soundness:
// the file must exist, be non-empty, parse as CSV, and contain at least one
// column and one data row with some data in it.
func ValidateCSV(outputPath string) Result {
	info, err := os.Stat(outputPath)
	if err != nil {
		return fail("output file missing")
	}
	if info.Size() == 0 {
		return fail("empty file")
	}

	f, err := os.Open(outputPath)
	if err != nil {
		return fail(fmt.Sprintf("CSV validation failed: %v", err))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fail(fmt.Sprintf("CSV validation failed: %v", err))
	}

	if len(records) == 0 {
		return fail("empty file")
	}

	header := records[0]
	if len(header) == 0 || (len(header) == 1 && strings.TrimSpace(header[0]) == "") {
		return fail("no columns")
	}

	rows := records[1:]
	if len(rows) == 0 {
		return fail("no data rows")
	}

	// Per-column emptiness: all columns empty fails, individual empty
	// columns only warn.
	hasData := make([]bool, len(header))
	for _, row := range rows {
		for i, val := range row {
			if i >= len(hasData) {
				break
			}
			if strings.TrimSpace(val) != "" {
				hasData[i] = true
			}
		}
	}

	allEmpty := true
	var emptyColumns []string
	for i, ok := range hasData {
		if ok {
			allEmpty = false
		} else {
			emptyColumns = append(emptyColumns, header[i])
		}
	}
	if allEmpty {
		return fail("all columns contain no data")
	}

	result := Result{
		OK:       true,
		Columns:  header,
		RowCount: len(rows),
	}
	if len(emptyColumns) > 0 {
		result.Warning = fmt.Sprintf("the following columns contain no data: %s", strings.Join(emptyColumns, ", "))
	}

	n := previewRows
	if len(rows) < n {
		n = len(rows)
	}
	result.Preview = rows[:n]

	return result
}
