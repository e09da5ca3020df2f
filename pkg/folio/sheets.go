package folio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// sheetsStore adapts the Google Sheets v4 API to the Store interface. One
// store covers one spreadsheet; tables are the sheets within it, resolved
// by title.
type sheetsStore struct {
	srv           *sheets.Service
	spreadsheetID string
	sheetIDs      map[string]int64 // sheet title -> sheetId
}

func newSheetsStore(credentials []byte, spreadsheetID string) (*sheetsStore, error) {
	ctx := context.Background()

	srv, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentials))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &sheetsStore{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// sheetID resolves a sheet title to its numeric id, caching every title the
// lookup returns.
func (s *sheetsStore) sheetID(ctx context.Context, table string) (int64, error) {
	if id, ok := s.sheetIDs[table]; ok {
		return id, nil
	}

	resp, err := s.srv.Spreadsheets.Get(s.spreadsheetID).
		Fields(googleapi.Field("sheets.properties")).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to look up sheets: %w", err)
	}

	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			s.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}

	id, ok := s.sheetIDs[table]
	if !ok {
		return 0, ErrTableNotFound
	}
	return id, nil
}

func (s *sheetsStore) HasTable(ctx context.Context, table string) (bool, error) {
	_, err := s.sheetID(ctx, table)
	if errors.Is(err, ErrTableNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *sheetsStore) ReadAll(ctx context.Context, table string) ([][]interface{}, error) {
	if _, err := s.sheetID(ctx, table); err != nil {
		return nil, err
	}

	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, table).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	return resp.Values, nil
}

func (s *sheetsStore) ReadRows(ctx context.Context, table string, start, count int) ([][]interface{}, error) {
	if _, err := s.sheetID(ctx, table); err != nil {
		return nil, err
	}

	rng := fmt.Sprintf("%s!%d:%d", table, start, start+count-1)
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", rng, err)
	}
	return resp.Values, nil
}

// sheetRow translates a recorded row number to its physical sheet row.
// Materialized rows are numbered from headingRow+2, one ahead of the sheet's
// own 1-based rows, so write-back and cell inspection shift down by one.
func sheetRow(row int) int {
	return row - 1
}

func (s *sheetsStore) WriteRow(ctx context.Context, table string, row int, values []interface{}) error {
	if _, err := s.sheetID(ctx, table); err != nil {
		return err
	}

	rng := rowRange(table, sheetRow(row), len(values))
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{values},
	}

	// USER_ENTERED so restored formula strings are parsed back into
	// formulas instead of landing as literal text.
	_, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, rng, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write to range %s: %w", rng, err)
	}
	return nil
}

func (s *sheetsStore) DeleteRow(ctx context.Context, table string, row int) error {
	id, err := s.sheetID(ctx, table)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    id,
					Dimension:  "ROWS",
					StartIndex: int64(sheetRow(row) - 1),
					EndIndex:   int64(sheetRow(row)),
				},
			},
		}},
	}

	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete row %d of %s: %w", row, table, err)
	}
	return nil
}

func (s *sheetsStore) AppendRow(ctx context.Context, table string, values []interface{}) error {
	if _, err := s.sheetID(ctx, table); err != nil {
		return err
	}

	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{values},
	}

	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, table+"!A1", valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to table %s: %w", table, err)
	}
	return nil
}

func (s *sheetsStore) RowFormulas(ctx context.Context, table string, row, cols int) ([]string, error) {
	if _, err := s.sheetID(ctx, table); err != nil {
		return nil, err
	}

	rng := rowRange(table, sheetRow(row), cols)
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, rng).
		ValueRenderOption("FORMULA").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read formulas in %s: %w", rng, err)
	}

	out := make([]string, cols)
	if len(resp.Values) == 0 {
		return out, nil
	}
	for i, v := range resp.Values[0] {
		if i >= cols {
			break
		}
		if str, ok := v.(string); ok && strings.HasPrefix(str, "=") {
			out[i] = str
		}
	}
	return out, nil
}

func (s *sheetsStore) RowHyperlinks(ctx context.Context, table string, row, cols int) ([]string, error) {
	if _, err := s.sheetID(ctx, table); err != nil {
		return nil, err
	}

	rng := rowRange(table, sheetRow(row), cols)
	resp, err := s.srv.Spreadsheets.Get(s.spreadsheetID).
		Ranges(rng).
		IncludeGridData(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read grid data in %s: %w", rng, err)
	}

	out := make([]string, cols)
	if len(resp.Sheets) == 0 || len(resp.Sheets[0].Data) == 0 {
		return out, nil
	}
	data := resp.Sheets[0].Data[0]
	if len(data.RowData) == 0 {
		return out, nil
	}
	for i, cell := range data.RowData[0].Values {
		if i >= cols || cell == nil {
			continue
		}
		out[i] = cellHyperlink(cell)
	}
	return out, nil
}

// cellHyperlink prefers the cell-level hyperlink and falls back to the
// first link-bearing text format run.
func cellHyperlink(cell *sheets.CellData) string {
	if cell.Hyperlink != "" {
		return cell.Hyperlink
	}
	for _, run := range cell.TextFormatRuns {
		if run != nil && run.Format != nil && run.Format.Link != nil && run.Format.Link.Uri != "" {
			return run.Format.Link.Uri
		}
	}
	return ""
}

func (s *sheetsStore) WriteHyperlink(ctx context.Context, table string, row, col int, text, url string) error {
	id, err := s.sheetID(ctx, table)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			UpdateCells: &sheets.UpdateCellsRequest{
				Start: &sheets.GridCoordinate{
					SheetId:     id,
					RowIndex:    int64(sheetRow(row) - 1),
					ColumnIndex: int64(col - 1),
				},
				Rows: []*sheets.RowData{{
					Values: []*sheets.CellData{{
						UserEnteredValue: &sheets.ExtendedValue{StringValue: &text},
						TextFormatRuns: []*sheets.TextFormatRun{{
							Format: &sheets.TextFormat{
								Link: &sheets.Link{Uri: url},
							},
						}},
					}},
				}},
				Fields: "userEnteredValue,textFormatRuns",
			},
		}},
	}

	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to write hyperlink at %s row %d col %d: %w", table, row, col, err)
	}
	return nil
}

// Flush is a no-op: the REST API applies every write synchronously.
func (s *sheetsStore) Flush(ctx context.Context) error {
	return nil
}

// rowRange builds the A1 range covering one row from column A through the
// given column count.
func rowRange(table string, row, cols int) string {
	endCol := columnIndexToLetter(cols - 1)
	return fmt.Sprintf("%s!A%d:%s%d", table, row, endCol, row)
}

func columnIndexToLetter(index int) string {
	if index < 0 {
		return "A"
	}
	result := ""
	for index >= 0 {
		result = string(rune('A'+index%26)) + result
		index = index/26 - 1
	}
	return result
}
