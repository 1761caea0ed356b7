package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func sessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignupLoginLogout(t *testing.T) {
	a := newApp(t)

	signup := a.post("/auth/signup/", url.Values{"username": {"vlad"}, "password": {"correct horse"}}, nil)
	require.Equal(t, http.StatusFound, signup.Code)
	assert.Equal(t, "/", signup.Header().Get("Location"))
	require.NotNil(t, sessionCookie(signup, "sessionid"))

	var user models.User
	require.NoError(t, a.db.Where("username = ?", "vlad").First(&user).Error)
	assert.NotEqual(t, "correct horse", user.Password)

	login := a.post("/auth/login/", url.Values{"username": {"vlad"}, "password": {"correct horse"}, "next": {"/follow/"}}, nil)
	require.Equal(t, http.StatusFound, login.Code)
	assert.Equal(t, "/follow/", login.Header().Get("Location"))
	cookie := sessionCookie(login, "sessionid")
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/follow/", nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusOK, a.serve(req).Code)

	logout := a.get("/auth/logout/", &user)
	assert.Equal(t, http.StatusFound, logout.Code)
	cleared := sessionCookie(logout, "sessionid")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestLoginFailures(t *testing.T) {
	a := newApp(t)
	a.post("/auth/signup/", url.Values{"username": {"vlad"}, "password": {"correct horse"}}, nil)

	wrong := a.post("/auth/login/", url.Values{"username": {"vlad"}, "password": {"battery staple"}}, nil)
	assert.Equal(t, http.StatusOK, wrong.Code)
	assert.Contains(t, wrong.Body.String(), "Please enter a correct username and password")
	assert.Nil(t, sessionCookie(wrong, "sessionid"))

	empty := a.post("/auth/login/", url.Values{"username": {"vlad"}}, nil)
	assert.Equal(t, http.StatusOK, empty.Code)
	assert.Contains(t, empty.Body.String(), "This field is required.")

	offsite := a.post("/auth/login/", url.Values{"username": {"vlad"}, "password": {"correct horse"}, "next": {"//evil.example"}}, nil)
	assert.Equal(t, "/", offsite.Header().Get("Location"))
}

func TestSignupErrors(t *testing.T) {
	a := newApp(t)
	a.f.User("vlad")

	rec := a.post("/auth/signup/", url.Values{"username": {"vlad"}, "password": {"password1"}}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A user with that username already exists.")

	short := a.post("/auth/signup/", url.Values{"username": {"leo"}, "password": {"short"}}, nil)
	assert.Contains(t, short.Body.String(), "at least 8 characters")
}

func TestLoginPageKeepsNext(t *testing.T) {
	a := newApp(t)

	rec := a.get("/auth/login/?next=%2Fnew%2F", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="next" value="/new/"`)
}
