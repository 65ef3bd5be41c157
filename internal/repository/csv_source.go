package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"project_armada/internal/entities"
)

// CSVRowSource reads an exported copy of the sheet from disk
type CSVRowSource struct {
	path string
}

func NewCSVRowSource(path string) *CSVRowSource {
	return &CSVRowSource{path: path}
}

// FetchAllRows re-reads the file on every call so edits show up immediately
func (r *CSVRowSource) FetchAllRows(_ context.Context) ([]entities.Row, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, entities.NewError(entities.KindDataSource, "open csv", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, entities.NewError(entities.KindDataSource, "read csv", err)
	}
	if len(records) < 1 {
		return nil, entities.NewError(entities.KindDataSource, "read csv", fmt.Errorf("%s is empty", r.path))
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return rowsFromRecords(header, records[1:]), nil
}
