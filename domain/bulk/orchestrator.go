// Package bulk turns an uploaded list of payloads into a ZIP of QR images,
// one row at a time, with progress reporting and cooperative cancellation.
package bulk

import (
	"context"
	"time"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/qr"
	"github.com/prasetyowira/qrstudio/infrastructure/archive"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
	"github.com/prasetyowira/qrstudio/infrastructure/metrics"
)

// Status is the lifecycle state of the bulk manager.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusReady     Status = "ready"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Row outcomes reported to metrics.
const (
	rowArchived = "archived"
	rowSkipped  = "skipped"
)

// Renderer draws and encodes one QR code.
type Renderer interface {
	Render(content string, size int, style qr.Style, format qr.Format) (*qr.Surface, error)
	Encode(surface *qr.Surface, format qr.Format) ([]byte, error)
}

// ProgressFunc receives (current, total) after each row, skipped or not.
type ProgressFunc func(current, total int)

// SkippedRow records a row that produced no archive entry.
type SkippedRow struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
	Reason  string `json:"reason"`
}

// Options control how every row of a run is rendered.
type Options struct {
	Size        int
	Style       qr.Style
	SettleDelay time.Duration
}

// Result is the outcome of one run. Archive is nil unless Status is
// StatusCompleted.
type Result struct {
	Status    Status
	Processed int
	Total     int
	Entries   []string
	Skipped   []SkippedRow
	Archive   []byte
}

// Orchestrator renders rows sequentially into an archive.
type Orchestrator struct {
	renderer Renderer
	opts     Options
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewOrchestrator creates an orchestrator. m may be nil.
func NewOrchestrator(renderer Renderer, opts Options, m *metrics.Metrics) *Orchestrator {
	if opts.Size <= 0 {
		opts.Size = qr.DefaultSettings().Size
	}
	opts.Style = opts.Style.WithDefaults()

	return &Orchestrator{
		renderer: renderer,
		opts:     opts,
		metrics:  m,
		now:      time.Now,
	}
}

// Run renders every row in order. Cancellation is checked before each row; a
// render already in progress always finishes. When ctx is canceled the
// partial archive is dropped and the result carries StatusCanceled. A row
// that fails to render or encode is recorded in Skipped and the run goes on.
func (o *Orchestrator) Run(ctx context.Context, rows []string, progress ProgressFunc) (*Result, error) {
	total := len(rows)
	result := &Result{Total: total}
	builder := archive.NewBuilder(o.now())

	for i, content := range rows {
		if ctx.Err() != nil {
			return o.canceled(ctx, result), nil
		}

		name, err := o.renderRow(ctx, builder, i, content)
		if err != nil {
			o.metrics.ObserveBulkRow(rowSkipped)
			result.Skipped = append(result.Skipped, SkippedRow{Index: i, Content: content, Reason: err.Error()})
			logger.CtxWarn(ctx, constant.MsgRowSkipped, logger.LoggerInfo{
				ContextFunction: constant.CtxBulkRun,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeBulkRowSkipped,
					Message: err.Error(),
					Type:    constant.ErrTypeBulk,
				},
				Data: map[string]interface{}{
					constant.DataRow: i,
				},
			})
		} else {
			o.metrics.ObserveBulkRow(rowArchived)
			result.Entries = append(result.Entries, name)
		}

		result.Processed = i + 1
		if progress != nil {
			progress(i+1, total)
		}
	}

	// A cancel that lands after the last row still wins.
	if ctx.Err() != nil {
		return o.canceled(ctx, result), nil
	}

	data, err := builder.Finalize()
	if err != nil {
		logger.CtxError(ctx, "Failed to finalize archive", logger.LoggerInfo{
			ContextFunction: constant.CtxArchiveWrite,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeArchiveWrite,
				Message: err.Error(),
				Type:    constant.ErrTypeArchive,
			},
		})
		return nil, err
	}

	result.Status = StatusCompleted
	result.Archive = data
	logger.CtxInfo(ctx, constant.MsgBulkCompleted, logger.LoggerInfo{
		ContextFunction: constant.CtxBulkRun,
		Data: map[string]interface{}{
			constant.DataTotal:   total,
			constant.DataSkipped: len(result.Skipped),
			constant.DataBytes:   len(data),
		},
	})
	return result, nil
}

func (o *Orchestrator) renderRow(ctx context.Context, builder *archive.Builder, index int, content string) (string, error) {
	surface, err := o.renderer.Render(content, o.opts.Size, o.opts.Style, qr.FormatPNG)
	if err != nil {
		return "", err
	}

	if o.opts.SettleDelay > 0 {
		time.Sleep(o.opts.SettleDelay)
	}

	var (
		data []byte
		ext  string
	)
	switch {
	case surface != nil && surface.Bitmap != nil:
		data, err = o.renderer.Encode(surface, qr.FormatPNG)
		ext = qr.FormatPNG.Extension()
	case surface != nil && len(surface.Vector) > 0:
		data, err = surface.Vector, nil
		ext = qr.FormatSVG.Extension()
	default:
		err = errNoSurface
	}
	if err != nil {
		return "", err
	}

	name := builder.Add(EntryName(content, index)+"."+ext, data)
	logger.CtxDebug(ctx, "Row archived", logger.LoggerInfo{
		ContextFunction: constant.CtxBulkRun,
		Data: map[string]interface{}{
			constant.DataRow:   index,
			constant.DataEntry: name,
		},
	})
	return name, nil
}

func (o *Orchestrator) canceled(ctx context.Context, result *Result) *Result {
	result.Status = StatusCanceled
	result.Archive = nil
	logger.CtxInfo(ctx, constant.MsgBulkCanceled, logger.LoggerInfo{
		ContextFunction: constant.CtxBulkRun,
		Data: map[string]interface{}{
			constant.DataCurrent: result.Processed,
			constant.DataTotal:   result.Total,
		},
	})
	return result
}
