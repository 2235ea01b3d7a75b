package ports

import (
	"context"

	"factory/internal/models"
)

// RowStore is the tracking sheet: one header row followed by data rows.
// The sheet is shared with humans and other tools, so implementations must
// not cache rows or header positions across calls, and must not retry
// writes on their own. Row numbers are 1-based sheet coordinates; the
// first data row is 2.
type RowStore interface {
	Name() string

	// ListRows returns every data row in sheet order.
	ListRows(ctx context.Context) ([]models.Row, error)

	// GetRow returns a single data row by its sheet row number.
	GetRow(ctx context.Context, rowNumber int) (models.Row, error)

	// FindRowByValue scans cells in row-major order and returns the first
	// data row containing a cell exactly equal to value. A miss is a
	// not-found coded error.
	FindRowByValue(ctx context.Context, value string) (models.Row, error)

	// UpdateCell writes one cell, locating the column by header name at
	// call time so concurrent column moves don't corrupt neighbours.
	UpdateCell(ctx context.Context, rowNumber int, column, value string) error
}
