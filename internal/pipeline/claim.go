package pipeline

import (
	"context"

	"factory/internal/models"
	"factory/internal/pkg/errors"
)

// claim writes Status = Processing. Read-then-write, not compare-and-swap:
// two overlapping runs can both observe Ready and both claim the row, in
// which case the second write wins silently and the row is processed
// twice. The claim carries no expiry either, so a crash after claiming
// strands the row in Processing until a human resets it.
func (p *Processor) claim(ctx context.Context, rowNumber int) error {
	err := p.store.UpdateCell(ctx, rowNumber, models.ColStatus, string(models.StatusProcessing))
	if err != nil {
		return errors.Wrap(err, "pipeline.claim", "failed to claim row")
	}
	return nil
}
