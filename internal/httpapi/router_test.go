package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"factory/internal/config"
	"factory/internal/models"
	"factory/internal/pipeline"
	"factory/internal/pkg/errors"
	"factory/internal/pkg/logger"
)

// memStore is an in-memory row store for handler tests. Row numbers are
// sheet coordinates: data starts at row 2.
type memStore struct {
	header  []string
	rows    [][]string
	listErr error
}

func (s *memStore) Name() string { return "mem" }

func (s *memStore) ListRows(ctx context.Context) ([]models.Row, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Row, 0, len(s.rows))
	for i, vals := range s.rows {
		out = append(out, models.NewRow(i+2, s.header, vals))
	}
	return out, nil
}

func (s *memStore) GetRow(ctx context.Context, rowNumber int) (models.Row, error) {
	if rowNumber < 2 || rowNumber-2 >= len(s.rows) {
		return models.Row{}, errors.NotFound("row", "?")
	}
	return models.NewRow(rowNumber, s.header, s.rows[rowNumber-2]), nil
}

func (s *memStore) FindRowByValue(ctx context.Context, value string) (models.Row, error) {
	for i, vals := range s.rows {
		for _, cell := range vals {
			if cell == value {
				return models.NewRow(i+2, s.header, vals), nil
			}
		}
	}
	return models.Row{}, errors.NotFound("row", value)
}

func (s *memStore) UpdateCell(ctx context.Context, rowNumber int, column, value string) error {
	return nil
}

// recordingProc captures which record IDs the dispatcher hands to workers.
type recordingProc struct {
	mu  sync.Mutex
	ids []string
}

func (p *recordingProc) ProcessRecord(ctx context.Context, recordID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, recordID)
	return nil
}

func (p *recordingProc) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.ids...)
}

func testHeader() []string {
	return []string{"id", "title", "Status", "drive_file_id", "error_message"}
}

func newTestRouter(t *testing.T, store *memStore, disp *pipeline.Dispatcher) http.Handler {
	t.Helper()

	log := logger.New(logger.Config{Level: "error", Format: "json", Output: &bytes.Buffer{}})
	deps := Deps{
		Cfg:        config.Config{ServiceName: "factory"},
		Dispatcher: disp,
		Log:        log,
		Version:    "0.1.0",
	}
	// Assign through the interface only for a live store. A typed nil would
	// defeat the handlers' nil checks.
	if store != nil {
		deps.Store = store
	}
	return NewRouter(deps)
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("response is not JSON: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec, out
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()

	env, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error envelope in %v", body)
	}
	code, _ := env["code"].(string)
	return code
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within 2s")
}

func TestHealth(t *testing.T) {
	store := &memStore{header: testHeader()}
	h := newTestRouter(t, store, pipeline.NewDispatcher(&recordingProc{}, 1, 1, nil))

	rec, body := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["status"] != "ok" || body["service"] != "factory" || body["version"] != "0.1.0" {
		t.Fatalf("body = %v", body)
	}
	if _, ok := body["checks"]; ok {
		t.Fatal("shallow health included checks")
	}
}

func TestHealthDeep(t *testing.T) {
	store := &memStore{
		header: testHeader(),
		rows: [][]string{
			{"vid-1", "First", "Ready"},
			{"vid-2", "Second", "Done"},
		},
	}
	h := newTestRouter(t, store, pipeline.NewDispatcher(&recordingProc{}, 1, 1, nil))

	rec, body := doJSON(t, h, http.MethodGet, "/health?deep=true", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field = %v, want ok", body["status"])
	}
	checks := body["checks"].(map[string]any)
	rowStore := checks["row_store"].(map[string]any)
	if rowStore["status"] != "ok" || rowStore["rows"] != float64(2) {
		t.Fatalf("row_store check = %v", rowStore)
	}
}

func TestHealthDeepDegraded(t *testing.T) {
	store := &memStore{header: testHeader(), listErr: errors.Unavailable("sheets")}
	h := newTestRouter(t, store, pipeline.NewDispatcher(&recordingProc{}, 1, 1, nil))

	rec, body := doJSON(t, h, http.MethodGet, "/health?deep=true", "")
	if rec.Code != 200 {
		t.Fatalf("degraded health must stay 200, got %d", rec.Code)
	}
	if body["status"] != "degraded" {
		t.Fatalf("status field = %v, want degraded", body["status"])
	}
}

func TestPostProcessQueuesRecord(t *testing.T) {
	store := &memStore{
		header: testHeader(),
		rows:   [][]string{{"vid-1", "First", "Ready"}},
	}
	proc := &recordingProc{}
	disp := pipeline.NewDispatcher(proc, 1, 4, nil)
	disp.Start(context.Background())
	defer disp.Stop(context.Background())

	h := newTestRouter(t, store, disp)

	rec, body := doJSON(t, h, http.MethodPost, "/process", `{"record_id":"vid-1"}`)
	if rec.Code != 202 {
		t.Fatalf("status = %d, want 202\nbody: %v", rec.Code, body)
	}
	if body["status"] != "accepted" || body["record_id"] != "vid-1" {
		t.Fatalf("body = %v", body)
	}

	waitFor(t, func() bool { return len(proc.seen()) == 1 })
	if got := proc.seen()[0]; got != "vid-1" {
		t.Fatalf("dispatched record = %q, want vid-1", got)
	}
}

func TestPostProcessUnknownRecordStillAccepted(t *testing.T) {
	// Existence is checked by the worker, not the handler: the ack goes
	// out first and a bad id surfaces only in logs and the row store.
	store := &memStore{
		header: testHeader(),
		rows:   [][]string{{"vid-1", "First", "Ready"}},
	}
	proc := &recordingProc{}
	disp := pipeline.NewDispatcher(proc, 1, 4, nil)
	disp.Start(context.Background())
	defer disp.Stop(context.Background())

	h := newTestRouter(t, store, disp)

	rec, body := doJSON(t, h, http.MethodPost, "/process", `{"record_id":"ghost"}`)
	if rec.Code != 202 {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if body["record_id"] != "ghost" {
		t.Fatalf("body = %v", body)
	}
	waitFor(t, func() bool { return len(proc.seen()) == 1 })
}

func TestPostProcessValidation(t *testing.T) {
	store := &memStore{header: testHeader()}
	h := newTestRouter(t, store, pipeline.NewDispatcher(&recordingProc{}, 1, 1, nil))

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"record_id":`},
		{"unknown field", `{"record_id":"vid-1","mode":"fast"}`},
		{"blank record id", `{"record_id":"   "}`},
		{"missing record id", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := doJSON(t, h, http.MethodPost, "/process", tc.body)
			if rec.Code != 400 {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if code := errorCode(t, body); code != "VALIDATION_ERROR" {
				t.Fatalf("error code = %q, want VALIDATION_ERROR", code)
			}
		})
	}
}

func TestPostProcessWithoutStore(t *testing.T) {
	h := newTestRouter(t, nil, pipeline.NewDispatcher(&recordingProc{}, 1, 1, nil))

	rec, body := doJSON(t, h, http.MethodPost, "/process", `{"record_id":"vid-1"}`)
	if rec.Code != 500 {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if code := errorCode(t, body); code != "INTERNAL_ERROR" {
		t.Fatalf("error code = %q, want INTERNAL_ERROR", code)
	}
}

func TestPostProcessQueueFull(t *testing.T) {
	store := &memStore{header: testHeader()}
	// Never started: the single queue slot fills and stays full.
	disp := pipeline.NewDispatcher(&recordingProc{}, 1, 1, nil)
	h := newTestRouter(t, store, disp)

	rec, _ := doJSON(t, h, http.MethodPost, "/process", `{"record_id":"vid-1"}`)
	if rec.Code != 202 {
		t.Fatalf("first submit status = %d, want 202", rec.Code)
	}

	rec, body := doJSON(t, h, http.MethodPost, "/process", `{"record_id":"vid-2"}`)
	if rec.Code != 503 {
		t.Fatalf("second submit status = %d, want 503", rec.Code)
	}
	if code := errorCode(t, body); code != "QUEUE_FULL" {
		t.Fatalf("error code = %q, want QUEUE_FULL", code)
	}
}

func TestPostProcessAfterStop(t *testing.T) {
	store := &memStore{header: testHeader()}
	disp := pipeline.NewDispatcher(&recordingProc{}, 1, 1, nil)
	disp.Start(context.Background())
	if err := disp.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	h := newTestRouter(t, store, disp)

	rec, body := doJSON(t, h, http.MethodPost, "/process", `{"record_id":"vid-1"}`)
	if rec.Code != 503 {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if code := errorCode(t, body); code != "UNAVAILABLE" {
		t.Fatalf("error code = %q, want UNAVAILABLE", code)
	}
}

func TestPostProcessAll(t *testing.T) {
	store := &memStore{
		header: testHeader(),
		rows: [][]string{
			{"vid-1", "First", "Ready"},
			{"", "No id", "Ready"},
			{"vid-3", "Third", "Done"},
			{"vid-4", "Fourth", "ready"},
		},
	}
	proc := &recordingProc{}
	disp := pipeline.NewDispatcher(proc, 2, 8, nil)
	disp.Start(context.Background())
	defer disp.Stop(context.Background())

	h := newTestRouter(t, store, disp)

	rec, body := doJSON(t, h, http.MethodPost, "/process-all", "")
	if rec.Code != 202 {
		t.Fatalf("status = %d, want 202\nbody: %v", rec.Code, body)
	}
	if body["status"] != "accepted" || body["count"] != float64(2) {
		t.Fatalf("body = %v, want count 2", body)
	}

	waitFor(t, func() bool { return len(proc.seen()) == 2 })
	got := proc.seen()
	sort.Strings(got)
	if got[0] != "vid-1" || got[1] != "vid-4" {
		t.Fatalf("dispatched records = %v, want vid-1 and vid-4", got)
	}
}

func TestPostProcessAllPartialQueue(t *testing.T) {
	store := &memStore{
		header: testHeader(),
		rows: [][]string{
			{"vid-1", "First", "Ready"},
			{"vid-2", "Second", "Ready"},
			{"vid-3", "Third", "Ready"},
		},
	}
	// Never started with one slot: only the first submit fits.
	disp := pipeline.NewDispatcher(&recordingProc{}, 1, 1, nil)
	h := newTestRouter(t, store, disp)

	rec, body := doJSON(t, h, http.MethodPost, "/process-all", "")
	if rec.Code != 202 {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if body["count"] != float64(1) {
		t.Fatalf("count = %v, want 1 (queue holds a single task)", body["count"])
	}
}

func TestPostProcessAllListFailure(t *testing.T) {
	store := &memStore{header: testHeader(), listErr: errors.Unavailable("sheets")}
	h := newTestRouter(t, store, pipeline.NewDispatcher(&recordingProc{}, 1, 1, nil))

	rec, body := doJSON(t, h, http.MethodPost, "/process-all", "")
	if rec.Code != 500 {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if code := errorCode(t, body); code != "INTERNAL_ERROR" {
		t.Fatalf("error code = %q, want INTERNAL_ERROR", code)
	}
}

func TestGetRecord(t *testing.T) {
	store := &memStore{
		header: testHeader(),
		rows: [][]string{
			{"vid-1", "First", "Ready"},
			{"vid-2", "Second", "Done", "drive-abc"},
		},
	}
	h := newTestRouter(t, store, pipeline.NewDispatcher(&recordingProc{}, 1, 1, nil))

	rec, body := doJSON(t, h, http.MethodGet, "/records/vid-2", "")
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200\nbody: %v", rec.Code, body)
	}

	record := body["record"].(map[string]any)
	want := map[string]any{
		"row_number":    float64(3),
		"id":            "vid-2",
		"status":        "Done",
		"title":         "Second",
		"drive_file_id": "drive-abc",
		"error_message": "",
	}
	for k, v := range want {
		if record[k] != v {
			t.Fatalf("record[%q] = %v, want %v", k, record[k], v)
		}
	}
}

func TestGetRecordNotFound(t *testing.T) {
	store := &memStore{header: testHeader()}
	h := newTestRouter(t, store, pipeline.NewDispatcher(&recordingProc{}, 1, 1, nil))

	rec, body := doJSON(t, h, http.MethodGet, "/records/vid-9", "")
	if rec.Code != 404 {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if code := errorCode(t, body); code != "RECORD_NOT_FOUND" {
		t.Fatalf("error code = %q, want RECORD_NOT_FOUND", code)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	store := &memStore{header: testHeader()}
	h := newTestRouter(t, store, pipeline.NewDispatcher(&recordingProc{}, 1, 4, nil))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Fatalf("X-Request-ID = %q, want req-42", got)
	}
}
