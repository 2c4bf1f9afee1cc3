package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlog/models"
)

func (a *AdminModule) renderStories(c *gin.Context, status int, form StoryForm, errMsg string) {
	stories, err := a.store.ListStories(c.Request.Context())
	if err != nil {
		logFailure(c, "Error loading stories", err)
		if errMsg == "" {
			errMsg = "Error loading stories"
			status = http.StatusInternalServerError
		}
		stories = []models.Story{}
	}

	c.HTML(status, "admin_stories.html", gin.H{
		"adminEmail": c.GetString(ContextEmailKey),
		"stories":    stories,
		"form":       form,
		"error":      errMsg,
	})
}

func (a *AdminModule) stories(c *gin.Context) {
	a.renderStories(c, http.StatusOK, StoryForm{}, "")
}

func (a *AdminModule) createStory(c *gin.Context) {
	var form StoryForm
	_ = c.ShouldBind(&form)

	in := form.Input()
	err := in.Validate()
	if err == nil {
		err = a.store.CreateStory(c.Request.Context(), in.Story())
	}
	if err != nil {
		logFailure(c, "Error saving story", err)
		a.renderStories(c, statusFor(err), form, "Error saving story: "+userMessage(err))
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/stories")
}

func (a *AdminModule) editStory(c *gin.Context) {
	story, err := a.store.GetStoryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		logFailure(c, "Error loading story", err)
		c.HTML(statusFor(err), "admin_story_edit.html", gin.H{
			"adminEmail": c.GetString(ContextEmailKey),
			"error":      "Story not found",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_story_edit.html", gin.H{
		"adminEmail": c.GetString(ContextEmailKey),
		"form":       storyFormFrom(story),
	})
}

func (a *AdminModule) updateStory(c *gin.Context) {
	var form StoryForm
	_ = c.ShouldBind(&form)
	form.ID = c.Param("id")

	patch := form.Patch()
	err := patch.Validate()
	if err == nil {
		_, err = a.store.UpdateStory(c.Request.Context(), form.ID, patch)
	}
	if err != nil {
		logFailure(c, "Error saving story", err)
		c.HTML(statusFor(err), "admin_story_edit.html", gin.H{
			"adminEmail": c.GetString(ContextEmailKey),
			"form":       form,
			"error":      "Error saving story: " + userMessage(err),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/stories")
}

func (a *AdminModule) deleteStory(c *gin.Context) {
	if err := a.store.DeleteStory(c.Request.Context(), c.Param("id")); err != nil {
		logFailure(c, "Error deleting story", err)
		a.renderStories(c, http.StatusInternalServerError, StoryForm{}, "Error deleting story")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/stories")
}
