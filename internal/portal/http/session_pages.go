package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/portal/internal/portal/observability"
	"github.com/aussiebroadwan/portal/internal/portal/service"
	"github.com/aussiebroadwan/portal/internal/portal/store"
)

// MainHandler serves the authenticated landing page.
type MainHandler struct {
	Guard   *service.SessionGuard
	Users   store.Users
	Cookies Cookies
	Pages   *Pages
	Metrics *observability.Metrics
}

// ServeHTTP godoc
//
//	@Summary		Landing page
//	@Description	Requires a valid session. Absent, unknown or expired sessions are redirected to /login; expired ones are deleted first.
//	@Tags			Pages
//	@Produce		html
//	@Success		200	{string}	string	"Landing page"
//	@Success		302	{string}	string	"Redirect to /login"
//	@Router			/main [get]
func (h *MainHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	v, err := h.Guard.Check(ctx, h.Cookies.Token(r))
	if err != nil {
		serverError(w, r, h.Pages, err)
		return
	}
	h.Metrics.RecordSessionCheck("main", v.State.String())

	if !v.Authenticated() {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.Users.GetUserByID(ctx, v.Session.UserID)
	if errors.Is(err, store.ErrNotFound) {
		// Owner deleted between the two reads.
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if err != nil {
		serverError(w, r, h.Pages, err)
		return
	}

	if err := h.Pages.Render(w, http.StatusOK, pageMain, mainView{Email: user.Email, IsAdmin: user.IsAdmin}); err != nil {
		serverError(w, r, h.Pages, err)
	}
}

// AdminHandler serves the admin-only page.
type AdminHandler struct {
	Guard   *service.SessionGuard
	Cookies Cookies
	Pages   *Pages
	Metrics *observability.Metrics
}

// ServeHTTP godoc
//
//	@Summary		Admin page
//	@Description	Requires a valid session whose user has the admin flag.
//	@Description	Absent, unknown or expired sessions go to /login; valid non-admin sessions go to /main.
//	@Tags			Pages
//	@Produce		html
//	@Success		200	{string}	string	"Admin page"
//	@Success		302	{string}	string	"Redirect to /login or /main"
//	@Router			/admin [get]
func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v, err := h.Guard.CheckAdmin(r.Context(), h.Cookies.Token(r))
	if err != nil {
		serverError(w, r, h.Pages, err)
		return
	}
	h.Metrics.RecordSessionCheck("admin", v.State.String())

	switch v.State {
	case service.StateValid:
		if err := h.Pages.Render(w, http.StatusOK, pageAdmin, adminView{Email: v.Session.Email}); err != nil {
			serverError(w, r, h.Pages, err)
		}
	case service.StateForbidden:
		http.Redirect(w, r, "/main", http.StatusFound)
	default:
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

// LogoutHandler ends the caller's session.
type LogoutHandler struct {
	Sessions *service.SessionService
	Cookies  Cookies
	Pages    *Pages
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Deletes the presented session, clears the cookie and redirects to /login. Succeeds without a session too.
//	@Tags			Pages
//	@Success		302	{string}	string	"Redirect to /login"
//	@Router			/logout [post]
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Revoke(r.Context(), h.Cookies.Token(r)); err != nil {
		serverError(w, r, h.Pages, err)
		return
	}
	h.Cookies.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}
