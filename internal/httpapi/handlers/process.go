package handlers

import (
	"net/http"
	"strings"

	"factory/internal/httpkit"
	"factory/internal/pipeline"
	"factory/internal/pkg/logger"
)

type ProcessRequest struct {
	RecordID string `json:"record_id"`
}

// PostProcess queues one record for processing. The 202 only means the task
// was accepted; the outcome lands in the row itself.
func (h *Handler) PostProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	var req ProcessRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "invalid json body", nil)
		return
	}

	recordID := strings.TrimSpace(req.RecordID)
	if recordID == "" {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "record_id is required", map[string]any{"field": "record_id"})
		return
	}

	if h.store == nil || h.dispatcher == nil {
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "row store not configured", nil)
		return
	}

	requestID, _ := ctx.Value(logger.RequestIDKey).(string)

	if err := h.dispatcher.Submit(recordID, requestID); err != nil {
		log.Warn("dispatch rejected", "record_id", recordID, "error", err.Error())
		switch err {
		case pipeline.ErrQueueFull:
			httpkit.WriteErr(w, 503, "QUEUE_FULL", "dispatch queue is full", map[string]any{"record_id": recordID})
		default:
			httpkit.WriteErr(w, 503, "UNAVAILABLE", "dispatcher is not accepting work", nil)
		}
		return
	}

	log.Info("record queued", "record_id", recordID)

	httpkit.WriteJSON(w, 202, map[string]any{
		"status":    "accepted",
		"record_id": recordID,
	})
}

// PostProcessAll queues every Ready row that carries an id. The reported
// count is tasks actually enqueued, not Ready rows found: rows rejected by a
// full queue are left for the next trigger or sweep.
func (h *Handler) PostProcessAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	if h.store == nil || h.dispatcher == nil {
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "row store not configured", nil)
		return
	}

	rows, err := h.store.ListRows(ctx)
	if err != nil {
		log.Error("list rows failed", "error", err.Error())
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "listing rows failed", nil)
		return
	}

	requestID, _ := ctx.Value(logger.RequestIDKey).(string)

	queued := 0
	for _, row := range rows {
		if !row.IsReady() || row.ID() == "" {
			continue
		}
		if err := h.dispatcher.Submit(row.ID(), requestID); err != nil {
			log.Warn("dispatch rejected", "record_id", row.ID(), "error", err.Error())
			continue
		}
		queued++
	}

	log.Info("batch queued", "count", queued)

	httpkit.WriteJSON(w, 202, map[string]any{
		"status": "accepted",
		"count":  queued,
	})
}
