package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/aussiebroadwan/portal/internal/portal/observability"
	"github.com/aussiebroadwan/portal/internal/portal/service"
	"github.com/aussiebroadwan/portal/pkg/httpx"
	"github.com/aussiebroadwan/portal/pkg/slogx"
)

const (
	actionLogin    = "login"
	actionRegister = "register"

	maxFormBytes = 1 << 20
)

var errBadCredentialsBody = errors.New("malformed credentials body")

// LoginHandler serves the combined login and registration page.
type LoginHandler struct {
	Accounts *service.AccountService
	Guard    *service.SessionGuard
	Cookies  Cookies
	Pages    *Pages
	Metrics  *observability.Metrics
}

// HandleGet renders the login page, or sends an already signed-in caller to
// the landing page. An expired session is deleted and the form shown.
//
//	@Summary		Login and registration page
//	@Description	Renders the login/registration form. A caller with a valid session cookie is redirected to /main instead.
//	@Tags			Pages
//	@Produce		html
//	@Success		200	{string}	string	"Login page"
//	@Success		302	{string}	string	"Already signed in, redirect to /main"
//	@Router			/login [get]
func (h *LoginHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	v, err := h.Guard.Check(r.Context(), h.Cookies.Token(r))
	if err != nil {
		serverError(w, r, h.Pages, err)
		return
	}
	h.Metrics.RecordSessionCheck("login", v.State.String())

	if v.Authenticated() {
		http.Redirect(w, r, "/main", http.StatusFound)
		return
	}

	if err := h.Pages.Render(w, http.StatusOK, pageLogin, loginView{}); err != nil {
		serverError(w, r, h.Pages, err)
	}
}

// HandlePost runs the login or register action named in the query string
// (POST /login?/login, POST /login?/register).
//
//	@Summary		Login or register
//	@Description	Runs the action named by the query string: `?/login` or `?/register`. A query parameter `action=login` is accepted as well.
//	@Description	On success the session cookie is set and the caller is redirected to /main.
//	@Description	On a validation failure the response is 400 with a field-scoped error map (JSON when requested, otherwise the login page re-rendered).
//	@Tags			Pages
//	@Accept			x-www-form-urlencoded
//	@Accept			json
//	@Produce		html
//	@Produce		json
//	@Param			email		formData	string				true	"Email address"
//	@Param			password	formData	string				true	"Password"
//	@Success		302			{string}	string				"Signed in, redirect to /main"
//	@Failure		400			{object}	map[string]string	"Field errors"	example({"email_login":"Email not in use"})
//	@Failure		404			{object}	map[string]string	"Unknown action"
//	@Failure		500			{object}	map[string]string	"Server error"
//	@Router			/login [post]
func (h *LoginHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	action := formAction(r)
	if action != actionLogin && action != actionRegister {
		writeError(w, r, h.Pages, http.StatusNotFound, "unknown_action", "That form action does not exist.")
		return
	}

	email, password, err := readCredentials(w, r)
	if err != nil {
		slogx.FromContext(ctx).Debug("bad credentials body", "error", err)
		writeError(w, r, h.Pages, http.StatusBadRequest, "invalid_request", "The form could not be read.")
		return
	}

	var sess domain.Session
	switch action {
	case actionLogin:
		sess, err = h.Accounts.Login(ctx, email, password)
	case actionRegister:
		sess, err = h.Accounts.Register(ctx, email, password)
	}

	if fe, ok := service.IsFieldError(err); ok {
		h.Metrics.RecordAuth(action, "rejected")
		h.fail(w, r, action, email, fe)
		return
	}
	if err != nil {
		h.Metrics.RecordAuth(action, "error")
		serverError(w, r, h.Pages, err)
		return
	}

	h.Metrics.RecordAuth(action, "success")
	h.Cookies.Set(w, sess)
	http.Redirect(w, r, "/main", http.StatusFound)
}

// fail answers a validation failure with 400 and the field errors.
func (h *LoginHandler) fail(w http.ResponseWriter, r *http.Request, action, email string, fe service.FieldErrors) {
	if httpx.WantsJSON(r) {
		httpx.WriteJSON(w, http.StatusBadRequest, fe)
		return
	}

	view := loginView{Errors: fe}
	if action == actionLogin {
		view.LoginEmail = email
	} else {
		view.RegisterEmail = email
	}
	if err := h.Pages.Render(w, http.StatusBadRequest, pageLogin, view); err != nil {
		serverError(w, r, h.Pages, err)
	}
}

// formAction extracts the action name. Forms post to "?/login" so the raw
// query starts with "/login"; anything after '&' is ignored.
func formAction(r *http.Request) string {
	first, _, _ := strings.Cut(r.URL.RawQuery, "&")
	if name, ok := strings.CutPrefix(first, "/"); ok && name != "" {
		return name
	}
	return r.URL.Query().Get("action")
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// readCredentials accepts a urlencoded or multipart form, or a JSON object.
func readCredentials(w http.ResponseWriter, r *http.Request) (string, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		var c credentials
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			return "", "", errors.Join(errBadCredentialsBody, err)
		}
		return c.Email, c.Password, nil
	}

	if mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return "", "", errors.Join(errBadCredentialsBody, err)
		}
	} else if err := r.ParseForm(); err != nil {
		return "", "", errors.Join(errBadCredentialsBody, err)
	}

	return r.PostForm.Get("email"), r.PostForm.Get("password"), nil
}
