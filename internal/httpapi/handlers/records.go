package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"factory/internal/httpkit"
	"factory/internal/pkg/errors"
)

// GetRecord reports the current state of one row, looked up by record id.
// Because processing results never travel back to the trigger caller, this
// is how a caller finds out whether a queued record landed in Done or Error.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)
	recordID := chi.URLParam(r, "recordID")

	if h.store == nil {
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "row store not configured", nil)
		return
	}

	row, err := h.store.FindRowByValue(ctx, recordID)
	if err != nil {
		if errors.IsNotFound(err) {
			httpkit.WriteErr(w, 404, "RECORD_NOT_FOUND", "record not found", map[string]any{"record_id": recordID})
			return
		}
		log.Error("record lookup failed", "record_id", recordID, "error", err.Error())
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "row lookup failed", nil)
		return
	}

	httpkit.WriteJSON(w, 200, map[string]any{
		"record": map[string]any{
			"row_number":    row.RowNumber,
			"id":            row.ID(),
			"status":        string(row.Status()),
			"title":         row.Title(),
			"drive_file_id": row.DriveFileID(),
			"error_message": row.ErrorMessage(),
		},
	})
}
