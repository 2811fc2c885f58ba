package items

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

var importColumns = []string{"name", "category", "quantity", "threshold", "location"}

// ParseImportCSV reads a bulk import file. The header row must name the
// Name, Category, Quantity, Threshold and Location columns in any order.
// Rows that fail to parse are reported but do not stop the scan.
func ParseImportCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading import header: %w", err)
	}

	index := map[string]int{}
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range importColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("import header missing column %q", col)
		}
	}

	var (
		rows    []ImportRow
		rowErrs error
	)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("line %d: %w", line, err))
			continue
		}

		row, err := parseImportRecord(index, record, line)
		if err != nil {
			rowErrs = multierr.Append(rowErrs, err)
			continue
		}
		rows = append(rows, row)
	}

	if rowErrs != nil && len(rows) == 0 {
		return nil, rowErrs
	}
	return rows, rowErrs
}

func parseImportRecord(index map[string]int, record []string, line int) (ImportRow, error) {
	field := func(col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := field("name")
	if name == "" {
		return ImportRow{}, fmt.Errorf("line %d: name is required", line)
	}

	qty, err := strconv.Atoi(field("quantity"))
	if err != nil {
		return ImportRow{}, fmt.Errorf("line %d: invalid quantity %q", line, field("quantity"))
	}
	if qty < 0 {
		return ImportRow{}, fmt.Errorf("line %d: quantity must not be negative", line)
	}

	threshold, err := strconv.Atoi(field("threshold"))
	if err != nil {
		return ImportRow{}, fmt.Errorf("line %d: invalid threshold %q", line, field("threshold"))
	}
	if threshold < 0 {
		return ImportRow{}, fmt.Errorf("line %d: threshold must not be negative", line)
	}

	return ImportRow{
		Line:      line,
		Name:      name,
		Category:  field("category"),
		Quantity:  qty,
		Threshold: threshold,
		Location:  field("location"),
	}, nil
}
