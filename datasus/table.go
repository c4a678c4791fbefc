// Package datasus downloads and parses hospitalization records from the
// SIH/SUS reduced (RD) files published by the national health information
// system. Upstream payloads arrive as ISO-8859-1 or UTF-8 delimited text;
// everything leaves this package as UTF-8 tables with normalized column
// names.
package datasus

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Table is an ordered-column batch of tabular records. Column names are
// unique, upper-cased and whitespace-trimmed.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable creates an empty table with the given column set.
func NewTable(columns []string) *Table {
	t := &Table{
		Columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		t.Columns[i] = col
		t.index[col] = i
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column by name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// AppendRow adds one data row. The row must match the column count.
func (t *Table) AppendRow(row []string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d fields, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// AddColumn appends a derived column with one value per existing row.
func (t *Table) AddColumn(name string, values []string) error {
	if _, exists := t.index[name]; exists {
		return fmt.Errorf("column %s already exists", name)
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s has %d values, table has %d rows", name, len(values), len(t.Rows))
	}
	t.index[name] = len(t.Columns)
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// SameColumns reports whether two tables share the exact column sequence.
func (t *Table) SameColumns(other *Table) bool {
	if len(t.Columns) != len(other.Columns) {
		return false
	}
	for i, col := range t.Columns {
		if other.Columns[i] != col {
			return false
		}
	}
	return true
}

// normalizeColumn standardizes a header cell the way the RD files are
// documented: trimmed and upper-cased.
func normalizeColumn(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// detectDelimiter picks the field delimiter from the header line. The RD
// mirrors serve both semicolon- and comma-delimited files depending on the
// conversion vintage.
func detectDelimiter(header string) rune {
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

// ReadTable parses delimited UTF-8 text into a Table. The first line is the
// header; duplicate or empty column names are rejected.
func ReadTable(r io.Reader) (*Table, error) {
	buffered := bufio.NewReaderSize(r, 256*1024)

	headerLine, err := buffered.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read header line: %w", err)
	}
	if strings.TrimSpace(headerLine) == "" {
		return nil, fmt.Errorf("empty input: no header line")
	}

	delimiter := detectDelimiter(headerLine)

	reader := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), buffered))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	headerRow, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	columns := make([]string, len(headerRow))
	seen := make(map[string]bool, len(headerRow))
	for i, col := range headerRow {
		name := normalizeColumn(col)
		if name == "" {
			return nil, fmt.Errorf("empty column name at position %d", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column name: %s", name)
		}
		seen[name] = true
		columns[i] = name
	}

	table := NewTable(columns)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse record: %w", err)
		}
		if len(record) != len(columns) {
			return nil, fmt.Errorf("record has %d fields, expected %d", len(record), len(columns))
		}
		row := make([]string, len(record))
		for i, field := range record {
			row[i] = strings.TrimSpace(field)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
