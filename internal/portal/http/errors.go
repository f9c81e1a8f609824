package http

import (
	"net/http"

	"github.com/aussiebroadwan/portal/pkg/httpx"
	"github.com/aussiebroadwan/portal/pkg/slogx"
)

// serverError logs err and answers 500, as JSON or as the error page.
func serverError(w http.ResponseWriter, r *http.Request, pages *Pages, err error) {
	slogx.FromContext(r.Context()).Error("request failed", "error", err)
	writeError(w, r, pages, http.StatusInternalServerError, "server_error", "Something went wrong on our side.")
}

func writeError(w http.ResponseWriter, r *http.Request, pages *Pages, status int, code, message string) {
	if httpx.WantsJSON(r) || pages == nil {
		httpx.WriteJSON(w, status, map[string]string{"error": code})
		return
	}

	view := errorView{Status: status, Title: http.StatusText(status), Message: message}
	if err := pages.Render(w, status, pageError, view); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render error page", "error", err)
		http.Error(w, http.StatusText(status), status)
	}
}
