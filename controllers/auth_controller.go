package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// RegisterForm renders the empty registration form.
func (a *AuthController) RegisterForm(ctx *gin.Context) {
	render(ctx, http.StatusOK, "auth/register", nil)
}

// Register validates the submitted credentials and creates the account.
// The first failing rule wins and is surfaced as a single message; nothing
// is written on failure.
func (a *AuthController) Register(ctx *gin.Context) {
	username := ctx.PostForm("username")
	password := ctx.PostForm("password")

	var errMsg string
	switch {
	case username == "":
		errMsg = "Username is required."
	case password == "":
		errMsg = "Password is required."
	default:
		var existing models.User
		err := a.db.Where("username = ?", username).First(&existing).Error
		switch {
		case err == nil:
			errMsg = fmt.Sprintf("User %s is already registered.", username)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			// A store failure is not "username available".
			utils.Sugar.Errorf("failed to look up username %q: %v", username, err)
			ctx.String(http.StatusInternalServerError, "Internal server error.")
			return
		}
	}

	if errMsg != "" {
		render(ctx, http.StatusOK, "auth/register", gin.H{"Error": errMsg})
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		utils.Sugar.Errorf("failed to hash password: %v", err)
		ctx.String(http.StatusInternalServerError, "Internal server error.")
		return
	}

	user := models.User{Username: username, PasswordHash: hash}
	if err := a.db.Create(&user).Error; err != nil {
		// A concurrent registration may have raced us to the UNIQUE
		// constraint; the store is the arbiter.
		utils.Sugar.Errorf("failed to create user %q: %v", username, err)
		ctx.String(http.StatusInternalServerError, "Internal server error.")
		return
	}

	ctx.Redirect(http.StatusFound, "/auth/login")
}

// LoginForm renders the empty login form.
func (a *AuthController) LoginForm(ctx *gin.Context) {
	render(ctx, http.StatusOK, "auth/login", nil)
}

// Login verifies the credentials and establishes the session identity.
// Session state is unchanged on failure.
func (a *AuthController) Login(ctx *gin.Context) {
	username := ctx.PostForm("username")
	password := ctx.PostForm("password")

	var user models.User
	err := a.db.Where("username = ?", username).First(&user).Error

	var errMsg string
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		errMsg = "Incorrect username."
	case err != nil:
		utils.Sugar.Errorf("failed to look up user %q: %v", username, err)
		ctx.String(http.StatusInternalServerError, "Internal server error.")
		return
	case !utils.CheckPassword(user.PasswordHash, password):
		errMsg = "Incorrect password."
	}

	if errMsg != "" {
		render(ctx, http.StatusOK, "auth/login", gin.H{"Error": errMsg})
		return
	}

	// Overwrites any prior session state with a fresh token.
	if err := utils.SetSessionCookie(ctx, user.ID); err != nil {
		utils.Sugar.Errorf("failed to issue session token: %v", err)
		ctx.String(http.StatusInternalServerError, "Internal server error.")
		return
	}

	ctx.Redirect(http.StatusFound, "/")
}

// Logout clears the session unconditionally. Idempotent, no auth required.
func (a *AuthController) Logout(ctx *gin.Context) {
	utils.ClearSessionCookie(ctx)
	ctx.Redirect(http.StatusFound, "/")
}
