package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/portal/internal/portal/domain"
	"github.com/stretchr/testify/require"
)

func TestCookies_SetAndRead(t *testing.T) {
	expires := time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC)
	rec := httptest.NewRecorder()

	Cookies{Secure: true}.Set(rec, domain.Session{ID: "tok", ExpiresAt: expires})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	require.Equal(t, DefaultCookieName, ck.Name)
	require.Equal(t, "tok", ck.Value)
	require.True(t, ck.Secure)
	require.True(t, expires.Equal(ck.Expires))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	require.Equal(t, "tok", Cookies{}.Token(req))
	require.Empty(t, Cookies{Name: "other"}.Token(req))
}

func TestFormAction(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/login?/login", "login"},
		{"/login?/register", "register"},
		{"/login?/register&x=1", "register"},
		{"/login?action=login", "login"},
		{"/login?/", ""},
		{"/login", ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			require.Equal(t, tt.want, formAction(req))
		})
	}
}

func TestPages_RenderUnknown(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.Error(t, pages.Render(rec, http.StatusOK, "missing", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
}
