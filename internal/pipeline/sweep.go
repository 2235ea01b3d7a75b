package pipeline

import (
	"context"

	"factory/internal/models"
	"factory/internal/pkg/errors"
)

// SweepResult aggregates one sweep run.
type SweepResult struct {
	Ready   int
	Success int
	Errors  int
}

// Sweep lists the sheet once, filters rows with Status = Ready, and
// processes them serially in sheet order from the listed snapshot.
// Scheduling is external; overlapping runs are guarded only by the
// per-row claim. Cancellation is honored between rows, never mid-row.
func (p *Processor) Sweep(ctx context.Context) (SweepResult, error) {
	log := p.log.FromContext(ctx)

	rows, err := p.store.ListRows(ctx)
	if err != nil {
		return SweepResult{}, errors.Wrap(err, "pipeline.sweep", "failed to list rows")
	}

	ready := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		if row.IsReady() {
			ready = append(ready, row)
		}
	}

	res := SweepResult{Ready: len(ready)}
	log.Info("sweep starting", "ready", len(ready), "total", len(rows))
	if len(ready) == 0 {
		return res, nil
	}

	for _, row := range ready {
		if err := ctx.Err(); err != nil {
			log.Warn("sweep cancelled", "processed", res.Success+res.Errors)
			return res, err
		}

		if err := p.ProcessRow(ctx, row); err != nil {
			res.Errors++
		} else {
			res.Success++
		}
	}

	log.Info("sweep complete", "success", res.Success, "errors", res.Errors)
	return res, nil
}
