package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/config"
	"github.com/inkpress/inkpress/controllers"
	"github.com/inkpress/inkpress/middleware"
	"github.com/inkpress/inkpress/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Replace default console logger with the zap logger
	r.Use(utils.Ginzap(utils.Logger))
	r.Use(utils.RecoveryWithZap(utils.Logger))

	r.Use(middleware.RequestID())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Resolve the session identity once, before every handler.
	r.Use(middleware.CurrentUser(db))

	r.LoadHTMLGlob(cfg.TemplatesGlob)

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)

	r.GET("/hello", postController.Hello)
	r.GET("/", postController.Index)

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.GET("/register", authController.RegisterForm)
	authGroup.POST("/register", authController.Register)
	authGroup.GET("/login", authController.LoginForm)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/logout", authController.Logout)

	r.GET("/create", middleware.LoginRequired(), postController.CreateForm)
	r.POST("/create", middleware.LoginRequired(), postController.Create)
	r.GET("/:id/update", middleware.LoginRequired(), postController.UpdateForm)
	r.POST("/:id/update", middleware.LoginRequired(), postController.Update)
	r.POST("/:id/delete", middleware.LoginRequired(), postController.Delete)

	return r
}
