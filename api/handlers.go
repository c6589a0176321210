package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/bulk"
	"github.com/prasetyowira/qrstudio/domain/export"
	"github.com/prasetyowira/qrstudio/domain/preview"
	"github.com/prasetyowira/qrstudio/domain/qr"
	"github.com/prasetyowira/qrstudio/domain/theme"
	appLogger "github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// PreviewService renders the live preview
type PreviewService interface {
	Update(ctx context.Context, settings qr.Settings) (preview.Instance, error)
}

// ExportService produces single-QR downloads
type ExportService interface {
	Export(ctx context.Context, settings qr.Settings, name string) (*export.Download, error)
}

// BulkService drives the bulk run
type BulkService interface {
	Load(ctx context.Context, fileName string, rows []string) (bulk.State, error)
	Start(ctx context.Context, confirmed bool) (bulk.State, bulk.Warning, error)
	Cancel(ctx context.Context) bulk.State
	State() bulk.State
	Archive() (string, []byte, error)
}

// ThemeService reads and writes the theme preference
type ThemeService interface {
	Get(ctx context.Context) string
	Set(ctx context.Context, t string) (string, error)
	Toggle(ctx context.Context) (string, error)
}

// Handler contains service dependencies for API handlers
type Handler struct {
	preview  PreviewService
	exporter ExportService
	bulk     BulkService
	theme    ThemeService
	defaults qr.Settings
}

// PayloadResponse is the response for the payload endpoint
type PayloadResponse struct {
	Payload string            `json:"payload"`
	Empty   bool              `json:"empty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ExportRequest is the request body for the export endpoint
type ExportRequest struct {
	Settings qr.Settings `json:"settings"`
	Name     string      `json:"name"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   int               `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewHandler creates a new API handler. defaults seed any request body that
// omits fields.
func NewHandler(p PreviewService, e ExportService, b BulkService, t ThemeService, defaults qr.Settings) *Handler {
	return &Handler{
		preview:  p,
		exporter: e,
		bulk:     b,
		theme:    t,
		defaults: defaults,
	}
}

// decode reads a JSON body of bounded size into v.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, constant.MaxUploadBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// freshSettings is a deep-enough copy of the defaults for a body to be
// decoded on top of.
func (h *Handler) freshSettings() qr.Settings {
	s := h.defaults
	s.Fields = map[string]string{}
	if s.Style.Margin != nil {
		margin := *s.Style.Margin
		s.Style.Margin = &margin
	}
	return s
}

// Payload returns the encoded payload for the given settings
func (h *Handler) Payload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings := h.freshSettings()
	if err := decode(w, r, &settings); err != nil {
		h.badRequest(w, r, constant.CtxEncode, err)
		return
	}

	resp := PayloadResponse{
		Payload: settings.Payload(),
		Empty:   settings.IsEmpty(),
	}
	if problems := settings.Validate(); len(problems) > 0 {
		resp.Errors = (&qr.ValidationError{Fields: problems}).Messages()
	}

	appLogger.CtxDebug(ctx, "Payload encoded", appLogger.LoggerInfo{
		ContextFunction: constant.CtxEncode,
		Data: map[string]interface{}{
			constant.DataType: settings.Type,
		},
	})

	WriteJSON(w, resp, http.StatusOK)
}

// Preview renders the live preview image
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	settings := h.freshSettings()
	if err := decode(w, r, &settings); err != nil {
		h.badRequest(w, r, constant.CtxPreview, err)
		return
	}

	inst, err := h.preview.Update(r.Context(), settings)
	if errors.Is(err, qr.ErrEmptyPayload) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.serviceError(w, r, constant.CtxPreview, err)
		return
	}

	w.Header().Set(constant.HeaderPreviewInstance, inst.ID)
	w.Header().Set(constant.HeaderContentType, inst.MIMEType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(inst.Image)
}

// Export renders a full-size download
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	req := ExportRequest{Settings: h.freshSettings()}
	if err := decode(w, r, &req); err != nil {
		h.badRequest(w, r, constant.CtxExport, err)
		return
	}

	download, err := h.exporter.Export(r.Context(), req.Settings, req.Name)
	if err != nil {
		h.serviceError(w, r, constant.CtxExport, err)
		return
	}

	writeAttachment(w, download.FileName, download.MIMEType, download.Data)
}

func writeAttachment(w http.ResponseWriter, fileName, mimeType string, data []byte) {
	w.Header().Set(constant.HeaderContentType, mimeType)
	w.Header().Set(constant.HeaderDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, fn string, err error) {
	appLogger.CtxWarn(r.Context(), "Error decoding request body", appLogger.LoggerInfo{
		ContextFunction: fn,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeAPIDecodeRequest,
			Message: err.Error(),
			Type:    constant.ErrTypeAPI,
		},
	})
	WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
}

// serviceError maps domain errors onto HTTP statuses.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	var verr *qr.ValidationError
	if errors.As(err, &verr) {
		WriteJSON(w, ErrorResponse{
			Error:  err.Error(),
			Code:   http.StatusUnprocessableEntity,
			Fields: verr.Messages(),
		}, http.StatusUnprocessableEntity)
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		appLogger.CtxError(r.Context(), "Service error", appLogger.LoggerInfo{
			ContextFunction: fn,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIServiceError,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
	}
	WriteJSONError(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, qr.ErrEmptyPayload),
		errors.Is(err, qr.ErrTransparentJPEG),
		errors.Is(err, theme.ErrInvalidTheme),
		errors.Is(err, bulk.ErrEmptyUpload):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bulk.ErrRunActive),
		errors.Is(err, bulk.ErrRunNotReady),
		errors.Is(err, bulk.ErrRunNotConfirmed):
		return http.StatusConflict
	case errors.Is(err, bulk.ErrNoArchive):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set(constant.HeaderContentType, "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		return
	}
}

// WriteJSONError writes a JSON error response
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{
		Error: message,
		Code:  statusCode,
	}, statusCode)
}
