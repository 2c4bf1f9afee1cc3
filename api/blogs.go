package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlog/models"
)

func (a *APIModule) listBlogs(c *gin.Context) {
	blogs, err := a.store.ListBlogs(c.Request.Context(), c.Query("category"))
	if err != nil {
		fail(c, err, "", "Failed to fetch blogs")
		return
	}
	c.JSON(http.StatusOK, blogs)
}

func (a *APIModule) getBlogBySlug(c *gin.Context) {
	blog, err := a.store.GetBlogBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err, "Blog not found", "Failed to fetch blog")
		return
	}
	c.JSON(http.StatusOK, blog)
}

func (a *APIModule) createBlog(c *gin.Context) {
	var in models.BlogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if err := in.Validate(); err != nil {
		fail(c, err, "", "Error creating blog")
		return
	}

	blog := in.Blog()
	if err := a.store.CreateBlog(c.Request.Context(), blog); err != nil {
		fail(c, err, "", "Error creating blog")
		return
	}
	c.JSON(http.StatusCreated, blog)
}

func (a *APIModule) updateBlog(c *gin.Context) {
	var patch models.BlogPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if err := patch.Validate(); err != nil {
		fail(c, err, "", "Error updating blog")
		return
	}

	blog, err := a.store.UpdateBlog(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, err, "Blog not found", "Error updating blog")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Blog updated successfully",
		"blog":    blog,
	})
}

func (a *APIModule) deleteBlog(c *gin.Context) {
	if err := a.store.DeleteBlog(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err, "", "Error deleting blog")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}
