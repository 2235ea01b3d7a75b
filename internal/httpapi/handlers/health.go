package handlers

import (
	"context"
	"net/http"
	"time"

	"factory/internal/httpkit"
)

// Health reports service liveness. With ?deep=true it also probes the row
// store; a failing probe degrades the status but never turns into a 5xx.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	health := map[string]any{
		"status":  "ok",
		"service": h.serviceName,
		"version": h.version,
	}

	if r.URL.Query().Get("deep") == "true" {
		checks := h.deepHealthCheck(ctx)
		health["checks"] = checks

		for _, check := range checks {
			if checkMap, ok := check.(map[string]any); ok {
				if checkMap["status"] != "ok" {
					health["status"] = "degraded"
					log.Warn("health check degraded", "checks", checks)
					break
				}
			}
		}
	}

	httpkit.WriteJSON(w, 200, health)
}

func (h *Handler) deepHealthCheck(ctx context.Context) map[string]any {
	checks := make(map[string]any)

	checks["row_store"] = h.checkRowStore(ctx)
	checks["dispatcher"] = h.checkDispatcher()

	return checks
}

func (h *Handler) checkRowStore(ctx context.Context) map[string]any {
	result := map[string]any{
		"status": "ok",
	}

	if h.store == nil {
		result["status"] = "error"
		result["error"] = "row store not configured"
		return result
	}
	result["name"] = h.store.Name()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	rows, err := h.store.ListRows(checkCtx)
	if err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	} else {
		result["rows"] = len(rows)
	}
	result["latency_ms"] = time.Since(start).Milliseconds()

	return result
}

func (h *Handler) checkDispatcher() map[string]any {
	result := map[string]any{
		"status": "ok",
	}
	if h.dispatcher == nil {
		result["status"] = "error"
		result["error"] = "dispatcher not configured"
	}
	return result
}
