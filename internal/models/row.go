package models

import "strings"

// Well-known column names in the tracking sheet. Columns are located by
// header name on every access, so their order in the sheet does not matter.
const (
	ColStatus       = "Status"
	ColID           = "id"
	ColTitle        = "title"
	ColDriveFileID  = "drive_file_id"
	ColErrorMessage = "error_message"
)

// Status is a row's position in the Ready → Processing → Done/Error lifecycle.
type Status string

const (
	StatusReady      Status = "Ready"
	StatusProcessing Status = "Processing"
	StatusDone       Status = "Done"
	StatusError      Status = "Error"
)

// ParseStatus matches a cell value against the known statuses,
// case-insensitively. Unknown or blank values parse to "".
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ready":
		return StatusReady
	case "processing":
		return StatusProcessing
	case "done":
		return StatusDone
	case "error":
		return StatusError
	default:
		return Status("")
	}
}

// Row is one unit of work: a spreadsheet record plus its position.
// Row 1 is the header, so data rows are numbered from 2. The position is
// the row's identity; the optional id column only helps to re-find it.
type Row struct {
	RowNumber int
	Fields    map[string]string
}

// NewRow zips a header row and a value row into a Row. Rows shorter than
// the header are padded with empty cells; extra cells beyond the header are
// dropped. For duplicate header names the first occurrence wins.
func NewRow(rowNumber int, header []string, values []string) Row {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if _, ok := fields[name]; ok {
			continue
		}
		if i < len(values) {
			fields[name] = values[i]
		} else {
			fields[name] = ""
		}
	}
	return Row{RowNumber: rowNumber, Fields: fields}
}

// Get returns the cell value for a column, or "" if the column is absent.
func (r Row) Get(column string) string {
	return r.Fields[column]
}

// ID returns the row's optional external identifier.
func (r Row) ID() string {
	return strings.TrimSpace(r.Get(ColID))
}

// Title returns the row's title payload field.
func (r Row) Title() string {
	return r.Get(ColTitle)
}

// Status returns the row's parsed lifecycle status.
func (r Row) Status() Status {
	return ParseStatus(r.Get(ColStatus))
}

// IsReady reports whether the row is waiting to be processed.
func (r Row) IsReady() bool {
	return r.Status() == StatusReady
}

// DriveFileID returns the uploaded artifact reference, set only on success.
func (r Row) DriveFileID() string {
	return r.Get(ColDriveFileID)
}

// ErrorMessage returns the failure message, set only on error.
func (r Row) ErrorMessage() string {
	return r.Get(ColErrorMessage)
}

// ColumnIndex returns the 0-based index of a column in a header row, or -1
// if the column is not present. Matching is exact; for duplicate names the
// first occurrence wins.
func ColumnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
