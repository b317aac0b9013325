package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/middleware"
	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

// PostController manages the blog views: listing, create, update, delete.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// Hello returns a literal greeting. Kept as a smoke-test endpoint.
func (p *PostController) Hello(ctx *gin.Context) {
	ctx.String(http.StatusOK, "Hello, World!")
}

// Index lists all posts with their author, most recent first. Public.
func (p *PostController) Index(ctx *gin.Context) {
	var posts []models.Post
	if err := p.db.Preload("Author").Order("created DESC").Find(&posts).Error; err != nil {
		utils.Sugar.Errorf("failed to list posts: %v", err)
		ctx.String(http.StatusInternalServerError, "Internal server error.")
		return
	}
	render(ctx, http.StatusOK, "blog/index", gin.H{"Posts": posts})
}

// CreateForm renders the empty post form.
func (p *PostController) CreateForm(ctx *gin.Context) {
	render(ctx, http.StatusOK, "blog/create", nil)
}

// Create inserts a new post authored by the current identity.
func (p *PostController) Create(ctx *gin.Context) {
	title := ctx.PostForm("title")
	body := ctx.PostForm("body")

	if title == "" {
		render(ctx, http.StatusOK, "blog/create", gin.H{"Error": "Title is required."})
		return
	}

	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		// LoginRequired guards this route; reaching here without an
		// identity means the route was wired wrong.
		ctx.Redirect(http.StatusFound, "/auth/login")
		return
	}

	post := models.Post{
		Title:    title,
		Body:     utils.Sanitize(body),
		AuthorID: user.ID,
	}
	if err := p.db.Create(&post).Error; err != nil {
		utils.Sugar.Errorf("failed to create post: %v", err)
		ctx.String(http.StatusInternalServerError, "Internal server error.")
		return
	}

	ctx.Redirect(http.StatusFound, "/")
}

// getPost loads a post with its author and enforces existence and, when
// checkAuthor is set, ownership. On failure it terminates the request (404
// or 403) and returns false; callers must stop.
func (p *PostController) getPost(ctx *gin.Context, checkAuthor bool) (models.Post, bool) {
	idParam := ctx.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		ctx.String(http.StatusNotFound, "Post id %s doesn't exist.", idParam)
		ctx.Abort()
		return models.Post{}, false
	}

	var post models.Post
	if err := p.db.Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.String(http.StatusNotFound, "Post id %d doesn't exist.", id)
			ctx.Abort()
			return models.Post{}, false
		}
		utils.Sugar.Errorf("failed to load post %d: %v", id, err)
		ctx.String(http.StatusInternalServerError, "Internal server error.")
		ctx.Abort()
		return models.Post{}, false
	}

	if checkAuthor {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok || post.AuthorID != user.ID {
			ctx.AbortWithStatus(http.StatusForbidden)
			return models.Post{}, false
		}
	}

	return post, true
}

// UpdateForm renders the edit form pre-populated with the post. Fails
// closed when the post is missing or owned by someone else.
func (p *PostController) UpdateForm(ctx *gin.Context) {
	post, ok := p.getPost(ctx, true)
	if !ok {
		return
	}
	render(ctx, http.StatusOK, "blog/update", gin.H{"Post": post})
}

// Update edits title and body of an owned post. Authorship is checked
// before any input is accepted and never changes.
func (p *PostController) Update(ctx *gin.Context) {
	post, ok := p.getPost(ctx, true)
	if !ok {
		return
	}

	title := ctx.PostForm("title")
	body := ctx.PostForm("body")

	if title == "" {
		render(ctx, http.StatusOK, "blog/update", gin.H{
			"Post":  post,
			"Error": "Title is required.",
		})
		return
	}

	updates := map[string]interface{}{
		"title": title,
		"body":  utils.Sanitize(body),
	}
	if err := p.db.Model(&models.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
		utils.Sugar.Errorf("failed to update post %d: %v", post.ID, err)
		ctx.String(http.StatusInternalServerError, "Internal server error.")
		return
	}

	ctx.Redirect(http.StatusFound, "/")
}

// Delete removes an owned post. POST only, so a crawler following links
// cannot delete anything. The lookup runs purely for its existence and
// ownership checks.
func (p *PostController) Delete(ctx *gin.Context) {
	post, ok := p.getPost(ctx, true)
	if !ok {
		return
	}

	if err := p.db.Delete(&models.Post{}, post.ID).Error; err != nil {
		utils.Sugar.Errorf("failed to delete post %d: %v", post.ID, err)
		ctx.String(http.StatusInternalServerError, "Internal server error.")
		return
	}

	ctx.Redirect(http.StatusFound, "/")
}
