package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkpress/inkpress/config"
	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

func setupAuthTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	config.Apply(config.AppConfig{
		SecretKey: "test-secret",
		GinMode:   "test",
	})
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.ResetSchema(db, &models.User{}, &models.Post{}))

	r := gin.New()
	r.Use(CurrentUser(db))
	r.GET("/whoami", func(ctx *gin.Context) {
		if user, ok := GetCurrentUser(ctx); ok {
			ctx.String(http.StatusOK, user.Username)
			return
		}
		ctx.String(http.StatusOK, "anonymous")
	})
	r.GET("/protected", LoginRequired(), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "secret")
	})

	return db, r
}

func sessionCookie(t *testing.T, userID uint) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateSessionToken(userID, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookieName, Value: token}
}

func TestCurrentUser_Anonymous(t *testing.T) {
	_, r := setupAuthTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestCurrentUser_ResolvesSession(t *testing.T) {
	db, r := setupAuthTest(t)

	user := models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(sessionCookie(t, user.ID))
	r.ServeHTTP(w, req)

	assert.Equal(t, "alice", w.Body.String())
}

// A session referencing a deleted user resolves to anonymous, and the stale
// cookie is left alone: the lookup repeats on every request until logout.
func TestCurrentUser_StaleSessionNotCleared(t *testing.T) {
	db, r := setupAuthTest(t)

	user := models.User{Username: "ghost", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	cookie := sessionCookie(t, user.ID)
	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(cookie)
		r.ServeHTTP(w, req)

		assert.Equal(t, "anonymous", w.Body.String())
		assert.Empty(t, w.Header().Values("Set-Cookie"), "stale session must not be cleared")
	}
}

func TestCurrentUser_TamperedCookie(t *testing.T) {
	db, r := setupAuthTest(t)

	user := models.User{Username: "mallory", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	cookie := sessionCookie(t, user.ID)
	cookie.Value += "tamper"

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)

	assert.Equal(t, "anonymous", w.Body.String())
}

func TestLoginRequired_RedirectsAnonymous(t *testing.T) {
	_, r := setupAuthTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))
}

func TestLoginRequired_DelegatesAuthenticated(t *testing.T) {
	db, r := setupAuthTest(t)

	user := models.User{Username: "bob", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(sessionCookie(t, user.ID))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret", w.Body.String())
}
