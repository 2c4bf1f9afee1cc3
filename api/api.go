// Package api serves the blog and story documents as JSON. Reads are public
// under /api; writes live under /admin/api so the admin gate covers them.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlog/apperr"
	"wanderlog/cache"
	"wanderlog/store"
)

type APIModule struct {
	store store.Store
}

func NewAPIModule(st store.Store) *APIModule {
	return &APIModule{store: st}
}

func (a *APIModule) RegisterRoutes(router gin.IRouter) {
	public := router.Group("/api", cache.ETag())
	{
		public.GET("/blogs", a.listBlogs)
		public.GET("/blogs/slug/:slug", a.getBlogBySlug)
		public.GET("/stories", a.listStories)
	}

	admin := router.Group("/admin/api")
	{
		admin.POST("/blogs", a.createBlog)
		admin.PUT("/blogs/:id", a.updateBlog)
		admin.DELETE("/blogs/:id", a.deleteBlog)

		admin.POST("/stories", a.createStory)
		admin.PUT("/stories/:id", a.updateStory)
		admin.DELETE("/stories/:id", a.deleteStory)
	}
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

// fail answers a failed store or validation call. Validation errors keep
// their message; everything else is logged and replaced by fallback.
func fail(c *gin.Context, err error, notFound, fallback string) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody(notFound))
	default:
		slog.Error(fallback,
			slog.String("path", c.FullPath()),
			slog.String("id", c.Param("id")),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorBody(fallback))
	}
}
