package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/blogfeed/backend/internal/cache"
	"github.com/anonto42/blogfeed/backend/internal/handlers"
	"github.com/anonto42/blogfeed/backend/internal/models"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
	"github.com/anonto42/blogfeed/backend/internal/router"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/anonto42/blogfeed/backend/internal/storage"
	"github.com/anonto42/blogfeed/backend/internal/templates"
	"github.com/anonto42/blogfeed/backend/internal/testutil"
	"github.com/anonto42/blogfeed/backend/pkg/config"
	"github.com/anonto42/blogfeed/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testCSRF   = "test-csrf-token"
	adminToken = "admin-secret"
)

type app struct {
	t     *testing.T
	e     *echo.Echo
	db    *gorm.DB
	f     *testutil.Fixtures
	pages *cache.MemoryStore
	auth  *services.AuthService
	cfg   *config.Config
}

func newApp(t *testing.T) *app {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		Env:           "test",
		IndexCacheTTL: 15 * time.Minute,
		JWTSecret:     "test-secret",
		SessionCookie: "sessionid",
		SessionTTL:    time.Hour,
		MediaRoot:     t.TempDir(),
		MediaURL:      "/media/",
		AdminToken:    adminToken,
	}
	log := zap.NewNop()

	renderer, err := templates.New()
	require.NoError(t, err)
	media, err := storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL, log)
	require.NoError(t, err)
	pages := cache.NewMemoryStore(time.Minute)

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(log)
	config.SetupMiddleware(e, cfg, log)
	require.NoError(t, router.SetupRoutes(e, router.Deps{
		Config:  cfg,
		DB:      db,
		Pages:   pages,
		Storage: media,
		Log:     log,
	}))

	return &app{
		t:     t,
		e:     e,
		db:    db,
		f:     testutil.NewFixtures(t, db),
		pages: pages,
		auth:  services.NewAuthService(repositories.NewPostgresUserRepository(db), e.Validator, cfg.JWTSecret, cfg.SessionTTL),
		cfg:   cfg,
	}
}

// signIn attaches a session cookie for user. user may be nil.
func (a *app) signIn(req *http.Request, user *models.User) {
	if user == nil {
		return
	}
	token, err := a.auth.IssueSession(user)
	require.NoError(a.t, err)
	req.AddCookie(&http.Cookie{Name: a.cfg.SessionCookie, Value: token})
}

func (a *app) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *app) get(target string, user *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	a.signIn(req, user)
	return a.serve(req)
}

// post submits a url-encoded form carrying a valid CSRF token.
func (a *app) post(target string, form url.Values, user *models.User) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", testCSRF)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(&http.Cookie{Name: "_csrf", Value: testCSRF})
	a.signIn(req, user)
	return a.serve(req)
}

// postMultipart submits form fields plus one file under "image".
func (a *app) postMultipart(target string, fields map[string]string, filename string, content []byte, user *models.User) *httptest.ResponseRecorder {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	require.NoError(a.t, w.WriteField("csrf", testCSRF))
	for k, v := range fields {
		require.NoError(a.t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("image", filename)
	require.NoError(a.t, err)
	_, err = part.Write(content)
	require.NoError(a.t, err)
	require.NoError(a.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "_csrf", Value: testCSRF})
	a.signIn(req, user)
	return a.serve(req)
}

func articles(rec *httptest.ResponseRecorder) int {
	return strings.Count(rec.Body.String(), "<article>")
}
