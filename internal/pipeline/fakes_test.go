package pipeline

import (
	"context"
	"os"
	"strconv"
	"sync"

	"factory/internal/models"
	"factory/internal/pkg/errors"
	"factory/internal/ports"
)

type cellWrite struct {
	Row    int
	Column string
	Value  string
}

// fakeStore is an in-memory ports.RowStore with a write audit log and an
// injectable per-write failure hook.
type fakeStore struct {
	mu         sync.Mutex
	header     []string
	rows       [][]string
	writes     []cellWrite
	failList   error
	failUpdate func(rowNumber int, column, value string) error
}

func newFakeStore(header []string, rows ...[]string) *fakeStore {
	return &fakeStore{header: header, rows: rows}
}

func (s *fakeStore) Name() string { return "fake" }

func (s *fakeStore) ListRows(ctx context.Context) ([]models.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failList != nil {
		return nil, s.failList
	}
	out := make([]models.Row, 0, len(s.rows))
	for i, vals := range s.rows {
		out = append(out, models.NewRow(i+2, s.header, vals))
	}
	return out, nil
}

func (s *fakeStore) GetRow(ctx context.Context, rowNumber int) (models.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rowNumber < 2 || rowNumber-2 >= len(s.rows) {
		return models.Row{}, errors.NotFound("row", strconv.Itoa(rowNumber))
	}
	return models.NewRow(rowNumber, s.header, s.rows[rowNumber-2]), nil
}

func (s *fakeStore) FindRowByValue(ctx context.Context, value string) (models.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, vals := range s.rows {
		for _, cell := range vals {
			if cell == value {
				return models.NewRow(i+2, s.header, vals), nil
			}
		}
	}
	return models.Row{}, errors.NotFound("row", value)
}

func (s *fakeStore) UpdateCell(ctx context.Context, rowNumber int, column, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failUpdate != nil {
		if err := s.failUpdate(rowNumber, column, value); err != nil {
			return err
		}
	}

	idx := models.ColumnIndex(s.header, column)
	if idx < 0 {
		return errors.Newf(errors.CodeFailedPrecond, "column %q not in sheet header", column)
	}
	for rowNumber-2 >= len(s.rows) {
		s.rows = append(s.rows, nil)
	}
	row := s.rows[rowNumber-2]
	for len(row) <= idx {
		row = append(row, "")
	}
	row[idx] = value
	s.rows[rowNumber-2] = row

	s.writes = append(s.writes, cellWrite{Row: rowNumber, Column: column, Value: value})
	return nil
}

func (s *fakeStore) valueAt(rowNumber int, column string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := models.ColumnIndex(s.header, column)
	if idx < 0 || rowNumber-2 >= len(s.rows) || idx >= len(s.rows[rowNumber-2]) {
		return ""
	}
	return s.rows[rowNumber-2][idx]
}

func (s *fakeStore) writeLog() []cellWrite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cellWrite(nil), s.writes...)
}

// fakeRenderer writes a placeholder artifact unless told to fail. The
// optional hook runs before each render.
type fakeRenderer struct {
	err      error
	onRender func(req ports.RenderRequest)

	mu    sync.Mutex
	calls int
}

func (r *fakeRenderer) Provider() string { return "fake" }

func (r *fakeRenderer) Render(ctx context.Context, req ports.RenderRequest) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	if r.onRender != nil {
		r.onRender(req)
	}
	if r.err != nil {
		return r.err
	}
	return os.WriteFile(req.OutputPath, []byte("fake-video"), 0o644)
}

func (r *fakeRenderer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// fakeUploader returns a fixed object key and records what it was given.
type fakeUploader struct {
	err error

	mu   sync.Mutex
	keys []string
}

func (u *fakeUploader) Provider() string { return "fake" }

func (u *fakeUploader) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	u.mu.Lock()
	u.keys = append(u.keys, in.ObjectKey)
	u.mu.Unlock()

	if u.err != nil {
		return ports.PutObjectOutput{}, u.err
	}
	return ports.PutObjectOutput{ObjectKey: "drive-123", Size: in.Size}, nil
}

func (u *fakeUploader) uploadedKeys() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.keys...)
}

func jobsHeader() []string {
	return []string{"id", "title", "Status", "drive_file_id", "error_message"}
}
