package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"factory/internal/models"
	"factory/internal/pkg/errors"
	"factory/internal/pkg/logger"
	"factory/internal/ports"
)

type Deps struct {
	Store    ports.RowStore
	Renderer ports.Renderer
	Uploader ports.Uploader
	TempDir  string
	Log      *logger.Logger
}

// Processor drives a tracking row through claim → render → upload →
// finalize. It owns no state beyond its dependencies; every call
// re-reads whatever it needs from the row store.
type Processor struct {
	store    ports.RowStore
	renderer ports.Renderer
	uploader ports.Uploader
	tempDir  string
	log      *logger.Logger
}

func New(d Deps) *Processor {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithComponent("pipeline")

	return &Processor{
		store:    d.Store,
		renderer: d.Renderer,
		uploader: d.Uploader,
		tempDir:  d.TempDir,
		log:      log,
	}
}

// ProcessRecord re-finds a row by its id column and processes it. Used by
// the trigger path, where the HTTP ack has already gone out: an unknown
// id is logged and returned but there is no row to write an error into.
func (p *Processor) ProcessRecord(ctx context.Context, recordID string) error {
	log := p.log.FromContext(ctx).WithRecordID(recordID)

	row, err := p.store.FindRowByValue(ctx, recordID)
	if err != nil {
		if errors.IsNotFound(err) {
			log.Error("record not found")
		} else {
			log.WithError(err).Error("record lookup failed")
		}
		return err
	}

	return p.ProcessRow(ctx, row)
}

// ProcessRow runs the full pipeline for one row. The row usually comes
// from a listing snapshot and is not re-read before the claim; the claim
// itself is the only guard against a concurrent run taking the same row.
// Returns nil when the row ends Done.
func (p *Processor) ProcessRow(ctx context.Context, row models.Row) error {
	recordID := row.ID()
	if recordID == "" {
		recordID = fmt.Sprintf("row-%d", row.RowNumber)
	}
	log := p.log.FromContext(ctx).WithRecordID(recordID).WithRow(row.RowNumber)

	log.Info("processing row", "title", row.Title())

	// 1. Claim. On failure the row is left untouched: no Error write, the
	// next run sees it Ready again.
	if err := p.claim(ctx, row.RowNumber); err != nil {
		log.WithError(err).Error("claim failed")
		return err
	}

	// 2. Output path under the scratch dir.
	if err := os.MkdirAll(p.tempDir, 0o755); err != nil {
		return p.failRow(ctx, row.RowNumber, errors.Wrap(err, "pipeline.prepare", "failed to create temp dir"))
	}
	filename := outputFilename(time.Now(), row.Title())
	outputPath := filepath.Join(p.tempDir, filename)

	// 3. Render.
	log.Debug("rendering", "renderer", p.renderer.Provider(), "output", outputPath)
	err := p.renderer.Render(ctx, ports.RenderRequest{Fields: row.Fields, OutputPath: outputPath})
	if err != nil {
		return p.failRow(ctx, row.RowNumber, errors.Wrap(err, "pipeline.render", "video rendering failed"))
	}

	// 4. Upload.
	fileID, err := p.upload(ctx, outputPath, filename)
	if err != nil {
		return p.failRow(ctx, row.RowNumber, errors.Wrap(err, "pipeline.upload", "artifact upload failed"))
	}

	// 5. Mark Done, then record the artifact reference.
	if err := p.finalizeDone(ctx, row.RowNumber, fileID); err != nil {
		return p.failRow(ctx, row.RowNumber, errors.Wrap(err, "pipeline.finalize", "failed to finalize row"))
	}

	// 6. Scratch cleanup, success path only; a failed row keeps its file
	// around for inspection.
	if err := os.Remove(outputPath); err == nil {
		log.Debug("cleaned up temp file", "path", outputPath)
	}

	log.Info("row done", "drive_file_id", fileID)
	return nil
}

func (p *Processor) upload(ctx context.Context, path, filename string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", err
	}

	out, err := p.uploader.PutObject(ctx, ports.PutObjectInput{
		ObjectKey:   filename,
		ContentType: "video/mp4",
		Reader:      f,
		Size:        st.Size(),
	})
	if err != nil {
		return "", err
	}
	return out.ObjectKey, nil
}
