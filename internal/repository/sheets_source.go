package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"project_armada/internal/entities"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var errNoWorksheets = errors.New("spreadsheet has no worksheets")

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// SpreadsheetID extracts the key from a spreadsheet URL; a bare key is returned as is
func SpreadsheetID(urlOrKey string) string {
	if m := spreadsheetIDPattern.FindStringSubmatch(urlOrKey); m != nil {
		return m[1]
	}
	return strings.TrimSpace(urlOrKey)
}

// SheetsRowSource reads one worksheet of a Google spreadsheet
type SheetsRowSource struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsRowSource authenticates with a service-account JSON key.
// An empty sheetName selects the first worksheet.
func NewSheetsRowSource(ctx context.Context, sheetURL, sheetName string, credentialsJSON []byte) (*SheetsRowSource, error) {
	if sheetURL == "" {
		return nil, entities.ErrConfigurationMissing("SHEET_URL")
	}
	if len(credentialsJSON) == 0 {
		return nil, entities.ErrConfigurationMissing("GOOGLE_CREDENTIALS")
	}

	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, entities.NewError(entities.KindDataSource, "parse google credentials", err)
	}
	return NewSheetsRowSourceWithOptions(ctx, sheetURL, sheetName, option.WithCredentials(creds))
}

// NewSheetsRowSourceWithOptions builds the source from raw client options
func NewSheetsRowSourceWithOptions(ctx context.Context, sheetURL, sheetName string, opts ...option.ClientOption) (*SheetsRowSource, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, entities.NewError(entities.KindDataSource, "create sheets client", err)
	}
	return &SheetsRowSource{
		svc:           svc,
		spreadsheetID: SpreadsheetID(sheetURL),
		sheetName:     sheetName,
	}, nil
}

// FetchAllRows reads the whole worksheet; row 1 is the header
func (s *SheetsRowSource) FetchAllRows(ctx context.Context) ([]entities.Row, error) {
	title, err := s.worksheetTitle(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheetTitle(title)).Context(ctx).Do()
	if err != nil {
		return nil, entities.NewError(entities.KindDataSource, "read sheet values", err)
	}
	return RowsFromValues(resp.Values), nil
}

func (s *SheetsRowSource) worksheetTitle(ctx context.Context) (string, error) {
	if s.sheetName != "" {
		return s.sheetName, nil
	}
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields(googleapi.Field("sheets.properties.title")).
		Context(ctx).
		Do()
	if err != nil {
		return "", entities.NewError(entities.KindDataSource, "read spreadsheet metadata", err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", entities.NewError(entities.KindDataSource, "read spreadsheet metadata", errNoWorksheets)
	}
	return ss.Sheets[0].Properties.Title, nil
}

// quoteSheetTitle makes a title safe for A1 notation
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
