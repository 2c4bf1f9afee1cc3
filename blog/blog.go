package blog

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"wanderlog/apperr"
	"wanderlog/store"
)

type BlogModule struct {
	blogs store.BlogStore
}

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
		extension.Linkify, // linkify raw URLs
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // posts are written in HTML as often as Markdown
	),
)

func NewBlogModule(blogs store.BlogStore) *BlogModule {
	return &BlogModule{blogs: blogs}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/blog/:slug", b.post)
}

func (b *BlogModule) post(c *gin.Context) {
	slug := c.Param("slug")

	blog, err := b.blogs.GetBlogBySlug(c.Request.Context(), slug)
	if errors.Is(err, apperr.ErrNotFound) {
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{
			"title":   "Not found",
			"message": "Blog not found",
		})
		return
	}
	if err != nil {
		slog.Error("Error loading blog", slog.String("slug", slug), slog.String("error", err.Error()))
		c.HTML(http.StatusInternalServerError, "not_found.html", gin.H{
			"title":   "Unavailable",
			"message": "This blog could not be loaded right now",
		})
		return
	}

	c.HTML(http.StatusOK, "blog_post.html", gin.H{
		"title":       blog.Title,
		"blog":        blog,
		"contentHTML": template.HTML(renderMarkdown(blog.Content)),
	})
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		// fall back to the raw content rather than breaking the page
		return template.HTMLEscapeString(content)
	}
	return buf.String()
}
