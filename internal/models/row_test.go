package models

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"Ready", StatusReady},
		{"ready", StatusReady},
		{"READY", StatusReady},
		{"  Ready  ", StatusReady},
		{"Processing", StatusProcessing},
		{"Done", StatusDone},
		{"done", StatusDone},
		{"Error", StatusError},
		{"", Status("")},
		{"pending", Status("")},
		{"Readyish", Status("")},
	}

	for _, tt := range tests {
		if got := ParseStatus(tt.input); got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewRow(t *testing.T) {
	header := []string{"id", "title", "Status", "drive_file_id", "error_message"}

	t.Run("full row", func(t *testing.T) {
		row := NewRow(2, header, []string{"vid-1", "First video", "Ready", "", ""})

		if row.RowNumber != 2 {
			t.Errorf("RowNumber = %d, want 2", row.RowNumber)
		}
		if row.ID() != "vid-1" {
			t.Errorf("ID() = %q, want %q", row.ID(), "vid-1")
		}
		if row.Title() != "First video" {
			t.Errorf("Title() = %q, want %q", row.Title(), "First video")
		}
		if !row.IsReady() {
			t.Error("IsReady() = false, want true")
		}
	})

	t.Run("short row is padded", func(t *testing.T) {
		row := NewRow(3, header, []string{"vid-2", "Second"})

		if got := row.Get(ColStatus); got != "" {
			t.Errorf("Get(Status) = %q, want empty", got)
		}
		if got := row.DriveFileID(); got != "" {
			t.Errorf("DriveFileID() = %q, want empty", got)
		}
		if len(row.Fields) != len(header) {
			t.Errorf("len(Fields) = %d, want %d", len(row.Fields), len(header))
		}
	})

	t.Run("extra cells are dropped", func(t *testing.T) {
		row := NewRow(4, header, []string{"vid-3", "Third", "Done", "f-123", "", "spill"})

		if len(row.Fields) != len(header) {
			t.Errorf("len(Fields) = %d, want %d", len(row.Fields), len(header))
		}
		if row.Status() != StatusDone {
			t.Errorf("Status() = %q, want %q", row.Status(), StatusDone)
		}
		if row.DriveFileID() != "f-123" {
			t.Errorf("DriveFileID() = %q, want %q", row.DriveFileID(), "f-123")
		}
	})

	t.Run("duplicate and blank headers", func(t *testing.T) {
		row := NewRow(5, []string{"id", "", "id"}, []string{"first", "skipped", "second"})

		if row.ID() != "first" {
			t.Errorf("ID() = %q, want %q (first occurrence wins)", row.ID(), "first")
		}
		if len(row.Fields) != 1 {
			t.Errorf("len(Fields) = %d, want 1", len(row.Fields))
		}
	})

	t.Run("id is trimmed", func(t *testing.T) {
		row := NewRow(6, []string{"id"}, []string{"  vid-9  "})

		if row.ID() != "vid-9" {
			t.Errorf("ID() = %q, want %q", row.ID(), "vid-9")
		}
	})
}

func TestColumnIndex(t *testing.T) {
	header := []string{"id", "title", "Status", "Status"}

	tests := []struct {
		name string
		want int
	}{
		{"id", 0},
		{"title", 1},
		{"Status", 2},
		{"status", -1},
		{"missing", -1},
	}

	for _, tt := range tests {
		if got := ColumnIndex(header, tt.name); got != tt.want {
			t.Errorf("ColumnIndex(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}
