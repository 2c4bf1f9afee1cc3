package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlog/models"
)

func (a *APIModule) listStories(c *gin.Context) {
	stories, err := a.store.ListStories(c.Request.Context())
	if err != nil {
		fail(c, err, "", "Failed to fetch stories")
		return
	}
	c.JSON(http.StatusOK, stories)
}

func (a *APIModule) createStory(c *gin.Context) {
	var in models.StoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if err := in.Validate(); err != nil {
		fail(c, err, "", "Failed to add story")
		return
	}

	story := in.Story()
	if err := a.store.CreateStory(c.Request.Context(), story); err != nil {
		fail(c, err, "", "Failed to add story")
		return
	}
	c.JSON(http.StatusCreated, story)
}

func (a *APIModule) updateStory(c *gin.Context) {
	var patch models.StoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if err := patch.Validate(); err != nil {
		fail(c, err, "", "Failed to update story")
		return
	}

	story, err := a.store.UpdateStory(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, err, "Story not found", "Failed to update story")
		return
	}
	c.JSON(http.StatusOK, story)
}

func (a *APIModule) deleteStory(c *gin.Context) {
	if err := a.store.DeleteStory(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err, "", "Failed to delete story")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Story deleted successfully"})
}
