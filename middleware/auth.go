package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

// ContextUserKey is the key under which the resolved user is stored in the
// Gin context for the remainder of the request.
const ContextUserKey = "current_user"

// CurrentUser resolves the session identity once per request, before the
// handler runs. A request without a session cookie, or with a cookie that
// fails signature or expiry checks, proceeds as anonymous. A valid cookie
// costs exactly one user lookup; if the referenced row no longer exists the
// request is also anonymous, and the stale cookie is deliberately left in
// place until the client logs out.
func CurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := utils.SessionUserID(ctx)
		if !ok {
			ctx.Next()
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			ctx.Next()
			return
		}

		ctx.Set(ContextUserKey, &user)
		ctx.Next()
	}
}

// LoginRequired guards a view so it only executes for authenticated
// requests. Anonymous requests are redirected to the login page and the
// wrapped handler never runs.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := GetCurrentUser(ctx); !ok {
			ctx.Redirect(http.StatusFound, "/auth/login")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// GetCurrentUser returns the user resolved by CurrentUser, if any.
func GetCurrentUser(ctx *gin.Context) (*models.User, bool) {
	value, exists := ctx.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
