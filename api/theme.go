package api

import (
	"net/http"

	"github.com/prasetyowira/qrstudio/constant"
)

// ThemeBody is the request and response body of the theme endpoints
type ThemeBody struct {
	Theme string `json:"theme"`
}

// GetTheme returns the stored theme preference
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, ThemeBody{Theme: h.theme.Get(r.Context())}, http.StatusOK)
}

// SetTheme stores the theme preference
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeBody
	if err := decode(w, r, &req); err != nil {
		h.badRequest(w, r, constant.CtxTheme, err)
		return
	}

	t, err := h.theme.Set(r.Context(), req.Theme)
	if err != nil {
		h.serviceError(w, r, constant.CtxTheme, err)
		return
	}
	WriteJSON(w, ThemeBody{Theme: t}, http.StatusOK)
}

// ToggleTheme flips between light and dark
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	t, err := h.theme.Toggle(r.Context())
	if err != nil {
		h.serviceError(w, r, constant.CtxTheme, err)
		return
	}
	WriteJSON(w, ThemeBody{Theme: t}, http.StatusOK)
}
