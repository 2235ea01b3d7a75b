package xlsx

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"factory/internal/models"
	"factory/internal/pkg/errors"

	"github.com/xuri/excelize/v2"
)

// Store implements ports.RowStore over a local .xlsx workbook, as a
// stand-in for the hosted sheet in dev and tests. Every call opens the
// file fresh and writes save the whole book; a mutex serializes access
// within the process. Not safe for concurrent multi-process use.
type Store struct {
	mu   sync.Mutex
	path string
	tab  string
}

func New(path, tab string) *Store {
	return &Store{path: path, tab: tab}
}

func (s *Store) Name() string { return "xlsx:" + filepath.Base(s.path) }

func (s *Store) ListRows(ctx context.Context) ([]models.Row, error) {
	const op = "xlsx.ListRows"

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.readAll(op)
	if err != nil {
		return nil, err
	}

	header := values[0]
	rows := make([]models.Row, 0, len(values)-1)
	for i, vals := range values[1:] {
		rows = append(rows, models.NewRow(i+2, header, vals))
	}
	return rows, nil
}

func (s *Store) GetRow(ctx context.Context, rowNumber int) (models.Row, error) {
	const op = "xlsx.GetRow"

	if rowNumber < 2 {
		return models.Row{}, errors.Newf(errors.CodeValidation, "row %d is not a data row", rowNumber)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.readAll(op)
	if err != nil {
		return models.Row{}, err
	}

	if rowNumber > len(values) || len(values[rowNumber-1]) == 0 {
		return models.Row{}, errors.NotFound("row", strconv.Itoa(rowNumber))
	}
	return models.NewRow(rowNumber, values[0], values[rowNumber-1]), nil
}

func (s *Store) FindRowByValue(ctx context.Context, value string) (models.Row, error) {
	const op = "xlsx.FindRowByValue"

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.readAll(op)
	if err != nil {
		return models.Row{}, err
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
	const op = "xlsx.UpdateCell"

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(op)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(s.tab)
	if err != nil {
		return errors.Wrap(err, op, "read worksheet")
	}
	if len(rows) == 0 {
		return errors.New(errors.CodeFailedPrecond, "workbook has no header row")
	}

	idx := models.ColumnIndex(rows[0], column)
	if idx < 0 {
		return errors.Newf(errors.CodeFailedPrecond, "column %q not in workbook header", column).
			WithField("column", column)
	}

	cell, err := excelize.CoordinatesToCellName(idx+1, rowNumber)
	if err != nil {
		return errors.Wrap(err, op, "build cell reference")
	}
	if err := f.SetCellStr(s.tab, cell, value); err != nil {
		return errors.Wrap(err, op, "set cell")
	}
	if err := f.Save(); err != nil {
		return errors.Wrap(err, op, "save workbook")
	}
	return nil
}

// readAll loads the whole tab; callers must hold the mutex. The returned
// slice always has the header at index 0.
func (s *Store) readAll(op string) ([][]string, error) {
	f, err := s.open(op)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(s.tab)
	if err != nil {
		return nil, errors.Wrap(err, op, "read worksheet")
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.CodeFailedPrecond, "workbook has no header row")
	}
	return rows, nil
}

func (s *Store) open(op string) (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.CodeFailedPrecond, op, "workbook not found")
		}
		return nil, errors.Wrap(err, op, "open workbook")
	}
	return f, nil
}
