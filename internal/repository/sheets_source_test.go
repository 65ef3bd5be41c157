package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"project_armada/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func fakeSheetsServer(t *testing.T, values [][]interface{}, status int) (*httptest.Server, *[]string) {
	t.Helper()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
			return
		}
		if strings.Contains(r.URL.Path, "/values/") {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"range":          "'Data Ban'!A1:Z100",
				"majorDimension": "ROWS",
				"values":         values,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"sheets": []map[string]interface{}{
				{"properties": map[string]interface{}{"title": "Data Ban"}},
				{"properties": map[string]interface{}{"title": "Arsip"}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func newTestSheetsSource(t *testing.T, srv *httptest.Server, sheetName string) *SheetsRowSource {
	t.Helper()
	src, err := NewSheetsRowSourceWithOptions(context.Background(),
		"https://docs.google.com/spreadsheets/d/sheet-123_abc/edit#gid=0", sheetName,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return src
}

func TestSheetsRowSource_FetchFirstWorksheet(t *testing.T) {
	values := [][]interface{}{
		{"NOPOL", "PEMAKAI", "QTY"},
		{"B123", "Andi", "4"},
		{"B456", "Budi"},
	}
	srv, paths := fakeSheetsServer(t, values, http.StatusOK)
	src := newTestSheetsSource(t, srv, "")

	rows, err := src.FetchAllRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, entities.Row{"NOPOL": "B123", "PEMAKAI": "Andi", "QTY": "4"}, rows[0])
	assert.Equal(t, "", rows[1].Get("QTY"))

	require.Len(t, *paths, 2)
	assert.Equal(t, "/v4/spreadsheets/sheet-123_abc", (*paths)[0])
	assert.Equal(t, "/v4/spreadsheets/sheet-123_abc/values/'Data Ban'", (*paths)[1])
}

func TestSheetsRowSource_NamedWorksheet(t *testing.T) {
	srv, paths := fakeSheetsServer(t, [][]interface{}{{"NOPOL"}, {"B1"}}, http.StatusOK)
	src := newTestSheetsSource(t, srv, "Arsip")

	rows, err := src.FetchAllRows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	require.Len(t, *paths, 1, "named worksheet skips the metadata call")
	assert.Equal(t, "/v4/spreadsheets/sheet-123_abc/values/'Arsip'", (*paths)[0])
}

func TestSheetsRowSource_APIError(t *testing.T) {
	srv, _ := fakeSheetsServer(t, nil, http.StatusForbidden)
	src := newTestSheetsSource(t, srv, "")

	_, err := src.FetchAllRows(context.Background())
	require.Error(t, err)
	assert.Equal(t, entities.KindDataSource, entities.KindOf(err))
	assert.Contains(t, err.Error(), "permission")
}

func TestNewSheetsRowSource_MissingConfig(t *testing.T) {
	_, err := NewSheetsRowSource(context.Background(), "", "", []byte("{}"))
	assert.Equal(t, entities.KindConfigurationMissing, entities.KindOf(err))

	_, err = NewSheetsRowSource(context.Background(), "abc", "", nil)
	assert.Equal(t, entities.KindConfigurationMissing, entities.KindOf(err))

	_, err = NewSheetsRowSource(context.Background(), "abc", "", []byte("not json"))
	assert.Equal(t, entities.KindDataSource, entities.KindOf(err))
}

func TestSpreadsheetID(t *testing.T) {
	assert.Equal(t, "1AbC-d_E", SpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-d_E/edit#gid=0"))
	assert.Equal(t, "1AbC-d_E", SpreadsheetID(" 1AbC-d_E "))
}

func TestQuoteSheetTitle(t *testing.T) {
	assert.Equal(t, "'Sheet1'", quoteSheetTitle("Sheet1"))
	assert.Equal(t, "'Pak Budi''s'", quoteSheetTitle("Pak Budi's"))
}

func TestRowsFromValues(t *testing.T) {
	rows := RowsFromValues([][]interface{}{
		{" NOPOL ", "", "PEMAKAI", "NOPOL"},
		{"B1", "ignored", "Andi", "dup"},
		{},
		{float64(12), nil},
	})
	require.Len(t, rows, 3)
	assert.Equal(t, entities.Row{"NOPOL": "B1", "PEMAKAI": "Andi"}, rows[0])
	assert.Equal(t, entities.Row{"NOPOL": "", "PEMAKAI": ""}, rows[1])
	assert.Equal(t, "12", rows[2].Get("NOPOL"))

	assert.Empty(t, RowsFromValues(nil))
}
