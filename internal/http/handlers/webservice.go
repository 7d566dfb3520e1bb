package handlers

import (
	"errors"
	"net/http"

	"customderiv/internal/domain"
	"customderiv/internal/middleware"
)

// Web-service method names registered by the gallery plugin.
const (
	MethodGetTypes   = "bcd.getCustomDerivativeTypes"
	MethodGetMissing = "bcd.getMissingCustomDerivatives"
)

// Gallery web-service error codes.
const (
	wsErrAccessDenied  = 401
	wsErrServer        = 500
	wsErrInvalidMethod = 501
	wsErrInvalidParam  = 1003
)

type wsResponse struct {
	Stat    string `json:"stat"`
	Result  any    `json:"result,omitempty"`
	Err     int    `json:"err,omitempty"`
	Message string `json:"message,omitempty"`
}

func (a *App) wsOK(w http.ResponseWriter, result any) {
	a.json(w, http.StatusOK, wsResponse{Stat: "ok", Result: result})
}

func (a *App) wsFail(w http.ResponseWriter, code int, message string) {
	a.json(w, http.StatusOK, wsResponse{Stat: "fail", Err: code, Message: message})
}

// WebService dispatches ws.php?method=... calls. Failures are reported in the
// response envelope with HTTP 200, as the gallery clients expect.
func (a *App) WebService(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.wsFail(w, wsErrInvalidParam, "Invalid request body")
		return
	}
	if err := middleware.AuthErrorFromContext(r.Context()); err != nil {
		a.wsFail(w, wsErrAccessDenied, "Invalid token")
		return
	}
	switch method := r.Form.Get("method"); method {
	case MethodGetTypes:
		a.wsOK(w, typesResponse{Types: a.Derivatives.ListTypes(r.Context())})
	case MethodGetMissing:
		if !middleware.IsAdmin(r.Context()) {
			a.wsFail(w, wsErrAccessDenied, "Access denied")
			return
		}
		res, err := a.listMissing(r)
		if err != nil {
			var pe *paramError
			switch {
			case errors.As(err, &pe):
				a.wsFail(w, wsErrInvalidParam, pe.Error())
			case errors.Is(err, domain.ErrInvalidParameter):
				a.wsFail(w, wsErrInvalidParam, "Invalid types")
			default:
				a.wsFail(w, wsErrServer, "Catalog unavailable")
			}
			return
		}
		a.wsOK(w, newMissingResponse(res))
	case "":
		a.wsFail(w, wsErrInvalidMethod, "Missing parameter method")
	default:
		a.wsFail(w, wsErrInvalidMethod, "Method name is not valid")
	}
}
