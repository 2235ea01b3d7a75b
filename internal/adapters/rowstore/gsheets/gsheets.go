package gsheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"factory/internal/models"
	"factory/internal/pkg/errors"

	"github.com/xuri/excelize/v2"
	sheets "google.golang.org/api/sheets/v4"
)

// Store implements ports.RowStore backed by one tab of a Google Sheets
// spreadsheet. The sheet is shared with humans, so nothing is cached:
// every call re-reads what it needs, and UpdateCell re-resolves the column
// from the live header row.
type Store struct {
	srv           *sheets.Service
	spreadsheetID string
	tab           string
}

func New(srv *sheets.Service, spreadsheetID, tab string) *Store {
	return &Store{srv: srv, spreadsheetID: spreadsheetID, tab: tab}
}

func (s *Store) Name() string { return "gsheets:" + s.tab }

func (s *Store) ListRows(ctx context.Context) ([]models.Row, error) {
	const op = "gsheets.ListRows"

	values, err := s.readAll(ctx, op)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, errors.New(errors.CodeFailedPrecond, "sheet has no header row")
	}

	header := values[0]
	rows := make([]models.Row, 0, len(values)-1)
	for i, vals := range values[1:] {
		rows = append(rows, models.NewRow(i+2, header, vals))
	}
	return rows, nil
}

func (s *Store) GetRow(ctx context.Context, rowNumber int) (models.Row, error) {
	const op = "gsheets.GetRow"

	if rowNumber < 2 {
		return models.Row{}, errors.Newf(errors.CodeValidation, "row %d is not a data row", rowNumber)
	}

	resp, err := s.srv.Spreadsheets.Values.BatchGet(s.spreadsheetID).
		Ranges(s.rowRange(1), s.rowRange(rowNumber)).
		Context(ctx).
		Do()
	if err != nil {
		return models.Row{}, classify(err, op, "read row")
	}
	if len(resp.ValueRanges) != 2 {
		return models.Row{}, errors.Internalf("expected 2 ranges, got %d", len(resp.ValueRanges))
	}

	header := firstRow(resp.ValueRanges[0])
	if len(header) == 0 {
		return models.Row{}, errors.New(errors.CodeFailedPrecond, "sheet has no header row")
	}
	values := firstRow(resp.ValueRanges[1])
	if len(values) == 0 {
		return models.Row{}, errors.NotFound("row", strconv.Itoa(rowNumber))
	}
	return models.NewRow(rowNumber, header, values), nil
}

func (s *Store) FindRowByValue(ctx context.Context, value string) (models.Row, error) {
	const op = "gsheets.FindRowByValue"

	values, err := s.readAll(ctx, op)
	if err != nil {
		return models.Row{}, err
	}
	if len(values) == 0 {
		return models.Row{}, errors.New(errors.CodeFailedPrecond, "sheet has no header row")
	}

	header := values[0]
	for i, vals := range values[1:] {
		for _, cell := range vals {
			if cell == value {
				return models.NewRow(i+2, header, vals), nil
			}
		}
	}
	return models.Row{}, errors.NotFound("row", value)
}

func (s *Store) UpdateCell(ctx context.Context, rowNumber int, column, value string) error {
	const op = "gsheets.UpdateCell"

	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, s.rowRange(1)).
		Context(ctx).
		Do()
	if err != nil {
		return classify(err, op, "read header row")
	}

	header := firstRow(resp)
	idx := models.ColumnIndex(header, column)
	if idx < 0 {
		return errors.Newf(errors.CodeFailedPrecond, "column %q not in sheet header", column).
			WithField("column", column)
	}

	ref, err := s.cellRange(rowNumber, idx+1)
	if err != nil {
		return errors.Wrap(err, op, "build cell reference")
	}

	body := &sheets.ValueRange{Values: [][]any{{value}}}
	_, err = s.srv.Spreadsheets.Values.Update(s.spreadsheetID, ref, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return classify(err, op, "write cell")
	}
	return nil
}

// readAll fetches the whole tab as strings.
func (s *Store) readAll(ctx context.Context, op string) ([][]string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, quoteTab(s.tab)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, op, "read sheet values")
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		rows = append(rows, toStrings(raw))
	}
	return rows, nil
}

func (s *Store) rowRange(n int) string {
	return fmt.Sprintf("%s!%d:%d", quoteTab(s.tab), n, n)
}

func (s *Store) cellRange(row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return quoteTab(s.tab) + "!" + cell, nil
}

// quoteTab wraps a tab name in single quotes for A1 references, doubling
// embedded quotes per the Sheets grammar.
func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

func firstRow(vr *sheets.ValueRange) []string {
	if vr == nil || len(vr.Values) == 0 {
		return nil
	}
	return toStrings(vr.Values[0])
}

// toStrings flattens API cell values. FORMATTED_VALUE responses are
// strings already; anything else is printed.
func toStrings(raw []any) []string {
	out := make([]string, len(raw))
	for i, cell := range raw {
		if cell == nil {
			continue
		}
		if s, ok := cell.(string); ok {
			out[i] = s
			continue
		}
		out[i] = fmt.Sprint(cell)
	}
	return out
}
