package pipeline

import (
	"context"

	"factory/internal/models"
	"factory/internal/pkg/errors"
)

// maxErrorMessageLen bounds what gets written into the error_message
// column so a long stack trace cannot blow up the cell.
const maxErrorMessageLen = 500

// finalizeDone writes Status = Done, then the artifact reference. Two
// separate cell writes, not atomic: a crash in between leaves a Done row
// without its drive_file_id. A sheet that lacks the drive_file_id column
// keeps working; the status alone has to do.
func (p *Processor) finalizeDone(ctx context.Context, rowNumber int, fileID string) error {
	if err := p.store.UpdateCell(ctx, rowNumber, models.ColStatus, string(models.StatusDone)); err != nil {
		return err
	}
	if fileID == "" {
		return nil
	}

	err := p.store.UpdateCell(ctx, rowNumber, models.ColDriveFileID, fileID)
	if err != nil && errors.IsCode(err, errors.CodeFailedPrecond) {
		p.log.Warn("sheet has no drive_file_id column, skipping", "row", rowNumber)
		return nil
	}
	return err
}

// failRow marks the row Error and stores the truncated message, best
// effort: failures here are logged and swallowed because there is nowhere
// left to record them. Always returns cause so callers can bubble the
// original failure.
func (p *Processor) failRow(ctx context.Context, rowNumber int, cause error) error {
	log := p.log.FromContext(ctx).WithRow(rowNumber)

	msg := ""
	if cause != nil {
		msg = cause.Error()
		if len(msg) > maxErrorMessageLen {
			msg = msg[:maxErrorMessageLen]
		}

		var perr *errors.Error
		if errors.As(cause, &perr) {
			log.Error("row failed",
				"code", string(perr.Code),
				"op", perr.Op,
				"message", perr.Message,
			)
		} else {
			log.Error("row failed", "error", msg)
		}
	}

	if err := p.store.UpdateCell(ctx, rowNumber, models.ColStatus, string(models.StatusError)); err != nil {
		log.WithError(err).Error("failed to mark row as Error")
		return cause
	}
	if msg == "" {
		return cause
	}

	err := p.store.UpdateCell(ctx, rowNumber, models.ColErrorMessage, msg)
	switch {
	case err == nil:
	case errors.IsCode(err, errors.CodeFailedPrecond):
		log.Warn("sheet has no error_message column, skipping")
	default:
		log.WithError(err).Error("failed to record error message")
	}
	return cause
}
