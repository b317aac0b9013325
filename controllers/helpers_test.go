package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkpress/inkpress/config"
	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/routes"
	"github.com/inkpress/inkpress/utils"
)

func setupApp(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	config.Apply(config.AppConfig{
		SecretKey:          "test-secret",
		GinMode:            "test",
		TemplatesGlob:      filepath.Join("..", "templates", "*.tmpl"),
		RateLimitPerMinute: 100000,
	})

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.ResetSchema(db, &models.User{}, &models.Post{}))

	return db, routes.SetupRouter(db)
}

func doGET(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	r.ServeHTTP(w, req)
	return w
}

func doPOST(r *gin.Engine, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	r.ServeHTTP(w, req)
	return w
}

func credentials(username, password string) url.Values {
	return url.Values{"username": {username}, "password": {password}}
}

// signup registers and logs in a user through the HTTP surface, returning
// the session cookie established by the login redirect.
func signup(t *testing.T, r *gin.Engine, username, password string) *http.Cookie {
	t.Helper()

	w := doPOST(r, "/auth/register", credentials(username, password), nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/auth/login", w.Header().Get("Location"))

	w = doPOST(r, "/auth/login", credentials(username, password), nil)
	require.Equal(t, http.StatusFound, w.Code)

	cookie := findSessionCookie(w)
	require.NotNil(t, cookie, "login must establish the session cookie")
	return cookie
}

func findSessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == utils.SessionCookieName && c.Value != "" {
			return c
		}
	}
	return nil
}
