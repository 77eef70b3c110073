package sheets

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInputUserEntered = "USER_ENTERED"

// GoogleAPI implements API with a service-account authorized Sheets client.
type GoogleAPI struct {
	svc *sheets.Service
}

// NewGoogleAPI builds a Sheets client from service-account JSON.
func NewGoogleAPI(ctx context.Context, credentialsJSON []byte) (*GoogleAPI, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}

	// Token refreshes outlive the startup context.
	httpClient := jwtConfig.Client(context.Background())

	return newGoogleAPI(ctx, option.WithHTTPClient(httpClient))
}

func newGoogleAPI(ctx context.Context, opts ...option.ClientOption) (*GoogleAPI, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &GoogleAPI{svc: svc}, nil
}

func (g *GoogleAPI) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	spreadsheet, err := g.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

func (g *GoogleAPI) AddSheet(ctx context.Context, spreadsheetID, title string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

func (g *GoogleAPI) UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption(valueInputUserEntered).
		Context(ctx).
		Do()
	return err
}

func (g *GoogleAPI) AppendValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.Append(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption(valueInputUserEntered).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

var _ API = (*GoogleAPI)(nil)
