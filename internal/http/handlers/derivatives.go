package handlers

import (
	"errors"
	"net/http"

	"customderiv/internal/domain"
	"customderiv/internal/middleware"
)

type typesResponse struct {
	Types []string `json:"types"`
}

type missingResponse struct {
	URLs     []string `json:"urls"`
	NextPage int64    `json:"next_page,omitempty"`
}

func newMissingResponse(res domain.ScanResult) missingResponse {
	out := missingResponse{URLs: res.URLs}
	if out.URLs == nil {
		out.URLs = []string{}
	}
	if res.HasMore() {
		out.NextPage = res.NextCursor
	}
	return out
}

// ListTypes returns the custom derivative types the scanner understands.
func (a *App) ListTypes(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, typesResponse{Types: a.Derivatives.ListTypes(r.Context())})
}

// ListMissing returns one page of derivative URLs that are not yet on disk.
func (a *App) ListMissing(w http.ResponseWriter, r *http.Request) {
	res, err := a.listMissing(r)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidParameter):
			a.error(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		default:
			a.error(w, http.StatusInternalServerError, "internal", "failed to scan catalog")
		}
		return
	}
	a.json(w, http.StatusOK, newMissingResponse(res))
}

func (a *App) listMissing(r *http.Request) (domain.ScanResult, error) {
	if err := r.ParseForm(); err != nil {
		return domain.ScanResult{}, &paramError{name: "body"}
	}
	req, err := parseScanRequest(r.Form, a.defaultMaxURLs())
	if err != nil {
		return domain.ScanResult{}, err
	}
	res, err := a.Derivatives.ListMissing(r.Context(), req)
	if err != nil && !errors.Is(err, domain.ErrInvalidParameter) {
		a.Logger.Error().Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Int64("cursor", req.Cursor).
			Msg("missing derivatives scan failed")
	}
	return res, err
}
