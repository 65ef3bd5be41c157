package repository

import (
	"fmt"
	"strings"

	"project_armada/internal/entities"
)

// rowsFromRecords maps each record onto the header row.
// Short records are padded with "", blank header cells are skipped and the
// first occurrence of a duplicated header wins.
func rowsFromRecords(header []string, records [][]string) []entities.Row {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	rows := make([]entities.Row, 0, len(records))
	for _, rec := range records {
		row := make(entities.Row, len(cols))
		for i, col := range cols {
			if col == "" {
				continue
			}
			if _, dup := row[col]; dup {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// RowsFromValues converts a Sheets value range (header first) into rows
func RowsFromValues(values [][]interface{}) []entities.Row {
	if len(values) == 0 {
		return []entities.Row{}
	}
	header := stringifyCells(values[0])
	records := make([][]string, 0, len(values)-1)
	for _, v := range values[1:] {
		records = append(records, stringifyCells(v))
	}
	return rowsFromRecords(header, records)
}

func stringifyCells(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c == nil {
			continue
		}
		out[i] = fmt.Sprint(c)
	}
	return out
}
