package bulk

import (
	"context"
	"errors"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
	"github.com/prasetyowira/qrstudio/infrastructure/metrics"
)

var (
	ErrRunActive       = errors.New(constant.ErrRunActive)
	ErrRunNotReady     = errors.New(constant.ErrRunNotReady)
	ErrRunNotConfirmed = errors.New(constant.ErrRunNotConfirmed)
	ErrNoArchive       = errors.New(constant.ErrNoArchive)
	ErrEmptyUpload     = errors.New(constant.ErrEmptyUpload)

	errNoSurface = errors.New(constant.ErrNoSurface)
)

// State is a snapshot of the manager, safe to serialize.
type State struct {
	RunID       string       `json:"run_id,omitempty"`
	Status      Status       `json:"status"`
	FileName    string       `json:"file_name,omitempty"`
	Rows        int          `json:"rows"`
	Current     int          `json:"current"`
	Total       int          `json:"total"`
	Entries     int          `json:"entries"`
	Skipped     []SkippedRow `json:"skipped,omitempty"`
	ArchiveName string       `json:"archive_name,omitempty"`
}

// Warning is the confirmation prompt shown before a run starts.
type Warning struct {
	Message   string `json:"message"`
	Rows      int    `json:"rows"`
	SoftLimit int    `json:"soft_limit"`
	OverLimit bool   `json:"over_limit"`
}

// Manager owns the single bulk run of the process:
// idle -> ready -> running -> completed | canceled -> ready (new upload).
type Manager struct {
	mu           sync.Mutex
	orchestrator *Orchestrator
	metrics      *metrics.Metrics
	softLimit    int

	state   State
	rows    []string
	archive []byte
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewManager creates an idle manager. softLimit is the row count above which
// the confirmation warning is flagged as over the limit. m may be nil.
func NewManager(orchestrator *Orchestrator, softLimit int, m *metrics.Metrics) *Manager {
	return &Manager{
		orchestrator: orchestrator,
		metrics:      m,
		softLimit:    softLimit,
		state:        State{Status: StatusIdle},
	}
}

// Load stores freshly parsed rows and moves the manager to ready. Any previous
// archive is discarded.
func (m *Manager) Load(ctx context.Context, fileName string, rows []string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status == StatusRunning {
		return m.snapshot(), ErrRunActive
	}
	if len(rows) == 0 {
		logger.CtxWarn(ctx, constant.ErrEmptyUpload, logger.LoggerInfo{
			ContextFunction: constant.CtxBulkLoad,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeBulkEmptyUpload,
				Message: constant.ErrEmptyUpload,
				Type:    constant.ErrTypeBulk,
			},
			Data: map[string]interface{}{
				constant.DataFileName: fileName,
			},
		})
		return m.snapshot(), ErrEmptyUpload
	}

	m.rows = rows
	m.archive = nil
	m.state = State{
		Status:   StatusReady,
		FileName: fileName,
		Rows:     len(rows),
		Total:    len(rows),
	}

	logger.CtxInfo(ctx, "Bulk upload parsed", logger.LoggerInfo{
		ContextFunction: constant.CtxBulkLoad,
		Data: map[string]interface{}{
			constant.DataFileName: fileName,
			constant.DataRows:     len(rows),
		},
	})
	return m.snapshot(), nil
}

// Warning describes the prompt the user must confirm before Start.
func (m *Manager) Warning() Warning {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.warning()
}

func (m *Manager) warning() Warning {
	return Warning{
		Message:   constant.MsgBulkWarning,
		Rows:      len(m.rows),
		SoftLimit: m.softLimit,
		OverLimit: m.softLimit > 0 && len(m.rows) > m.softLimit,
	}
}

// Start launches a run over the loaded rows. confirmed must be true; the
// warning is returned either way so callers can show it. The run outlives
// ctx: only Cancel stops it.
func (m *Manager) Start(ctx context.Context, confirmed bool) (State, Warning, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	warning := m.warning()
	switch {
	case m.state.Status == StatusRunning:
		return m.snapshot(), warning, ErrRunActive
	case m.state.Status != StatusReady:
		return m.snapshot(), warning, ErrRunNotReady
	case !confirmed:
		return m.snapshot(), warning, ErrRunNotConfirmed
	}

	runID := ulid.Make().String()
	rows := m.rows
	m.rows = nil

	runCtx, cancel := context.WithCancel(logger.WithRunID(context.WithoutCancel(ctx), runID))
	m.cancel = cancel
	m.done = make(chan struct{})
	m.state.RunID = runID
	m.state.Status = StatusRunning
	m.state.Current = 0
	m.state.Total = len(rows)
	m.metrics.BulkStarted()

	logger.CtxInfo(runCtx, "Bulk run started", logger.LoggerInfo{
		ContextFunction: constant.CtxBulkStart,
		Data: map[string]interface{}{
			constant.DataRows:     len(rows),
			constant.DataFileName: m.state.FileName,
		},
	})

	go m.run(runCtx, runID, rows, m.done)
	return m.snapshot(), warning, nil
}

func (m *Manager) run(ctx context.Context, runID string, rows []string, done chan struct{}) {
	defer close(done)

	result, err := m.orchestrator.Run(ctx, rows, func(current, total int) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.state.RunID == runID {
			m.state.Current = current
			m.state.Total = total
		}
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancel()
	m.cancel = nil
	if m.state.RunID != runID {
		return
	}

	if err != nil {
		// The rows are gone; report the run as canceled with no archive.
		m.state.Status = StatusCanceled
		m.metrics.BulkFinished(string(StatusCanceled))
		logger.CtxError(ctx, "Bulk run failed", logger.LoggerInfo{
			ContextFunction: constant.CtxBulkRun,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeBulkArchive,
				Message: err.Error(),
				Type:    constant.ErrTypeBulk,
			},
		})
		return
	}

	m.state.Status = result.Status
	m.state.Current = result.Processed
	m.state.Entries = len(result.Entries)
	m.state.Skipped = result.Skipped
	if result.Status == StatusCompleted {
		m.archive = result.Archive
		m.state.ArchiveName = ArchiveName(m.state.FileName)
	}
	m.metrics.BulkFinished(string(result.Status))
}

// Cancel requests cancellation of the active run. The row being rendered
// finishes first. Calling Cancel with no active run is a no-op.
func (m *Manager) Cancel(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status == StatusRunning && m.cancel != nil {
		m.cancel()
		logger.CtxInfo(ctx, "Bulk cancel requested", logger.LoggerInfo{
			ContextFunction: constant.CtxBulkCancel,
			Data: map[string]interface{}{
				constant.DataRunID:   m.state.RunID,
				constant.DataCurrent: m.state.Current,
			},
		})
	}
	return m.snapshot()
}

// State returns a snapshot of the current run.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Wait blocks until the active run, if any, has finished or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Archive returns the finished archive of the last completed run.
func (m *Manager) Archive() (string, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != StatusCompleted || m.archive == nil {
		return "", nil, ErrNoArchive
	}
	return m.state.ArchiveName, m.archive, nil
}

func (m *Manager) snapshot() State {
	s := m.state
	s.Skipped = append([]SkippedRow(nil), m.state.Skipped...)
	return s
}
