// Package admin holds the sign-in flow, the /admin gate and the
// server-rendered dashboard used to manage blogs and stories.
package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlog/apperr"
	"wanderlog/models"
	"wanderlog/store"
)

type AdminModule struct {
	store       store.Store
	credentials Credentials
}

func NewAdminModule(st store.Store, credentials Credentials) *AdminModule {
	return &AdminModule{
		store:       st,
		credentials: credentials,
	}
}

// RegisterRoutes expects RequireAdmin to be installed on the engine already.
func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.GET(SignInPath, a.signinPage)
	router.POST("/api/auth/signin", a.signinPost)
	router.GET("/api/auth/signout", a.signout)
	router.POST("/api/auth/signout", a.signout)
	router.GET(UnauthorizedPath, a.unauthorized)

	router.GET("/admin", a.dashboard)

	adminGroup := router.Group("/admin")
	{
		adminGroup.POST("/blogs", a.createBlog)
		adminGroup.GET("/blogs/:id/edit", a.editBlog)
		adminGroup.POST("/blogs/:id", a.updateBlog)
		adminGroup.POST("/blogs/:id/delete", a.deleteBlog)

		adminGroup.GET("/stories", a.stories)
		adminGroup.POST("/stories", a.createStory)
		adminGroup.GET("/stories/:id/edit", a.editStory)
		adminGroup.POST("/stories/:id", a.updateStory)
		adminGroup.POST("/stories/:id/delete", a.deleteStory)
	}
}

// statusFor maps a failed write to the status the page is re-rendered with.
func statusFor(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func logFailure(c *gin.Context, msg string, err error) {
	if apperr.IsValidation(err) {
		return
	}
	slog.Error(msg,
		slog.String("id", c.Param("id")),
		slog.String("error", err.Error()))
}

func (a *AdminModule) renderDashboard(c *gin.Context, status int, form BlogForm, errMsg string) {
	blogs, err := a.store.ListBlogs(c.Request.Context(), "")
	if err != nil {
		logFailure(c, "Error loading blogs", err)
		if errMsg == "" {
			errMsg = "Error loading blogs"
			status = http.StatusInternalServerError
		}
		blogs = []models.Blog{}
	}

	c.HTML(status, "admin_dashboard.html", gin.H{
		"adminEmail": c.GetString(ContextEmailKey),
		"blogs":      blogs,
		"form":       form,
		"error":      errMsg,
	})
}

func (a *AdminModule) dashboard(c *gin.Context) {
	a.renderDashboard(c, http.StatusOK, BlogForm{}, "")
}

func (a *AdminModule) createBlog(c *gin.Context) {
	var form BlogForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderDashboard(c, http.StatusBadRequest, form, "Invalid form")
		return
	}

	in := form.Input()
	err := in.Validate()
	if err == nil {
		err = a.store.CreateBlog(c.Request.Context(), in.Blog())
	}
	if err != nil {
		logFailure(c, "Error adding blog", err)
		a.renderDashboard(c, statusFor(err), form, "Error adding blog: "+userMessage(err))
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

func (a *AdminModule) editBlog(c *gin.Context) {
	blog, err := a.store.GetBlogByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		logFailure(c, "Error loading blog", err)
		c.HTML(statusFor(err), "admin_blog_edit.html", gin.H{
			"adminEmail": c.GetString(ContextEmailKey),
			"error":      "Blog not found",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_blog_edit.html", gin.H{
		"adminEmail": c.GetString(ContextEmailKey),
		"form":       blogFormFrom(blog),
	})
}

func (a *AdminModule) updateBlog(c *gin.Context) {
	var form BlogForm
	_ = c.ShouldBind(&form)
	form.ID = c.Param("id")

	patch := form.Patch()
	err := patch.Validate()
	if err == nil {
		_, err = a.store.UpdateBlog(c.Request.Context(), form.ID, patch)
	}
	if err != nil {
		logFailure(c, "Error updating blog", err)
		c.HTML(statusFor(err), "admin_blog_edit.html", gin.H{
			"adminEmail": c.GetString(ContextEmailKey),
			"form":       form,
			"error":      "Error updating blog: " + userMessage(err),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

func (a *AdminModule) deleteBlog(c *gin.Context) {
	if err := a.store.DeleteBlog(c.Request.Context(), c.Param("id")); err != nil {
		logFailure(c, "Error deleting blog", err)
		a.renderDashboard(c, http.StatusInternalServerError, BlogForm{}, "Error deleting blog")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

// userMessage is what the alert banner shows for err. Store details stay in
// the server log.
func userMessage(err error) string {
	switch {
	case apperr.IsValidation(err):
		return err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return "not found"
	case errors.Is(err, apperr.ErrDuplicateKey):
		return "a blog with this title already exists"
	default:
		return "please try again"
	}
}
