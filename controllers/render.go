package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/inkpress/inkpress/middleware"
)

// render executes the named template with the resolved user merged into the
// data, so every page can show who is logged in.
func render(ctx *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := middleware.GetCurrentUser(ctx); ok {
		data["User"] = user
	}
	ctx.HTML(status, name, data)
}
