package api

import (
	"encoding/json"
	"net/http"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/bulk"
	"github.com/prasetyowira/qrstudio/infrastructure/csvrows"
	appLogger "github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// BulkStartRequest is the request body for starting a bulk run
type BulkStartRequest struct {
	Confirm bool `json:"confirm"`
}

// BulkStartResponse carries the run state and the confirmation prompt
type BulkStartResponse struct {
	State   bulk.State   `json:"state"`
	Warning bulk.Warning `json:"warning"`
	Error   string       `json:"error,omitempty"`
}

// BulkUpload parses a multipart CSV upload into bulk rows
func (h *Handler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, constant.MaxUploadBytes)
	file, header, err := r.FormFile(constant.FormFieldUpload)
	if err != nil {
		appLogger.CtxWarn(ctx, "Missing or unreadable upload", appLogger.LoggerInfo{
			ContextFunction: constant.CtxBulkLoad,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIUpload,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
		WriteJSONError(w, "A CSV file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := csvrows.Read(file)
	if err != nil {
		appLogger.CtxWarn(ctx, "Failed to parse CSV upload", appLogger.LoggerInfo{
			ContextFunction: constant.CtxParseCSV,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeCSVParse,
				Message: err.Error(),
				Type:    constant.ErrTypeCSV,
			},
			Data: map[string]interface{}{
				constant.DataFileName: header.Filename,
			},
		})
		WriteJSONError(w, "Could not read the CSV file", http.StatusBadRequest)
		return
	}

	state, err := h.bulk.Load(ctx, header.Filename, rows)
	if err != nil {
		h.serviceError(w, r, constant.CtxBulkLoad, err)
		return
	}

	WriteJSON(w, state, http.StatusOK)
}

// BulkStart begins the run once the user has confirmed the warning
func (h *Handler) BulkStart(w http.ResponseWriter, r *http.Request) {
	var req BulkStartRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
			h.badRequest(w, r, constant.CtxBulkStart, err)
			return
		}
	}

	state, warning, err := h.bulk.Start(r.Context(), req.Confirm)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.serviceError(w, r, constant.CtxBulkStart, err)
			return
		}
		WriteJSON(w, BulkStartResponse{State: state, Warning: warning, Error: err.Error()}, status)
		return
	}

	WriteJSON(w, BulkStartResponse{State: state, Warning: warning}, http.StatusAccepted)
}

// BulkCancel requests cancellation of the active run
func (h *Handler) BulkCancel(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, h.bulk.Cancel(r.Context()), http.StatusOK)
}

// BulkState reports progress of the current run
func (h *Handler) BulkState(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, h.bulk.State(), http.StatusOK)
}

// BulkArchive serves the finished ZIP archive
func (h *Handler) BulkArchive(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.bulk.Archive()
	if err != nil {
		h.serviceError(w, r, constant.CtxBulkArchive, err)
		return
	}

	appLogger.CtxInfo(r.Context(), "Serving bulk archive", appLogger.LoggerInfo{
		ContextFunction: constant.CtxBulkArchive,
		Data: map[string]interface{}{
			constant.DataFileName: name,
			constant.DataBytes:    len(data),
		},
	})
	writeAttachment(w, name, "application/zip", data)
}
