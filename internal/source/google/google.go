package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"autosales/internal/core"
	"autosales/internal/source"
)

// valuesReader is the slice of the Sheets API the loader needs.
type valuesReader interface {
	Values(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
}

type sheetsValues struct {
	svc *gsheet.Service
}

func (s sheetsValues) Values(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// Loader reads the sales table from one sheet; the first row is the header.
type Loader struct {
	values        valuesReader
	spreadsheetID string
	sheetName     string
}

var (
	_ source.DatasetLoader = (*Loader)(nil)
	_ source.Named         = (*Loader)(nil)
)

// New creates a Sheets backed loader authenticated with service account
// credentials from the environment.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Loader, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Loader{
		values:        sheetsValues{svc: svc},
		spreadsheetID: spreadsheetID,
		sheetName:     strings.TrimSpace(sheetName),
	}, nil
}

func (l *Loader) Source() string {
	return fmt.Sprintf("sheets:%s/%s", l.spreadsheetID, l.sheetName)
}

// Load reads every populated row of the sheet.
func (l *Loader) Load(ctx context.Context) ([]core.SalesRecord, error) {
	rng := l.sheetName
	values, err := l.values.Values(ctx, l.spreadsheetID, rng)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(values) == 0 {
		return nil, source.ErrEmptyInput
	}

	rows := make([][]string, 0, len(values)-1)
	for _, row := range values[1:] {
		rows = append(rows, toStrings(row))
	}
	records, err := source.ParseRows(toStrings(values[0]), rows)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rng, err)
	}
	return records, nil
}

// newSheetsService initializes a read-only Sheets service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.DebugContext(ctx, "Creating Google Sheets service",
		"component", "dataset",
		"credentials_size", len(credentialsJSON))

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// toStrings flattens API cell values. Numbers come back as float64 with
// UNFORMATTED_VALUE and are printed without exponent.
func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch t := v.(type) {
		case nil:
			out[i] = ""
		case float64:
			out[i] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			if t {
				out[i] = "1"
			} else {
				out[i] = "0"
			}
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}
