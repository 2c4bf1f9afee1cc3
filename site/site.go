package site

import (
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wanderlog/models"
	"wanderlog/store"
)

const (
	homeBlogs   = 3
	homeStories = 2
)

type SiteModule struct {
	store   store.Store
	siteURL string
}

func NewSiteModule(st store.Store, siteURL string) *SiteModule {
	return &SiteModule{store: st, siteURL: strings.TrimSuffix(siteURL, "/")}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", s.index)
	router.GET("/category/:name", s.category)
	router.GET("/stories", s.stories)
	router.GET("/sitemap.xml", s.sitemap)
	router.GET("/health/live", s.live)
}

func (s *SiteModule) index(c *gin.Context) {
	ctx := c.Request.Context()

	blogs, err := s.store.ListBlogs(ctx, "")
	if err != nil {
		slog.Error("Error loading blogs", slog.String("error", err.Error()))
		blogs = []models.Blog{}
	}
	stories, err := s.store.ListStories(ctx)
	if err != nil {
		slog.Error("Error loading stories", slog.String("error", err.Error()))
		stories = []models.Story{}
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"blogs":      head(blogs, homeBlogs),
		"stories":    head(stories, homeStories),
		"categories": categories(blogs),
	})
}

func (s *SiteModule) category(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))

	blogs, err := s.store.ListBlogs(c.Request.Context(), name)
	if err != nil {
		slog.Error("Error loading category", slog.String("category", name), slog.String("error", err.Error()))
		blogs = []models.Blog{}
	}

	c.HTML(http.StatusOK, "category.html", gin.H{
		"title":    name,
		"category": name,
		"blogs":    blogs,
	})
}

func (s *SiteModule) stories(c *gin.Context) {
	stories, err := s.store.ListStories(c.Request.Context())
	if err != nil {
		slog.Error("Error loading stories", slog.String("error", err.Error()))
		stories = []models.Story{}
	}

	c.HTML(http.StatusOK, "stories.html", gin.H{
		"title":   "Stories",
		"stories": stories,
	})
}

func (s *SiteModule) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *SiteModule) sitemap(c *gin.Context) {
	domain := html.EscapeString(s.siteURL)

	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	writeURL(&sitemap, domain+"/", "", "weekly", "1.0")
	writeURL(&sitemap, domain+"/stories", "", "weekly", "0.8")

	blogs, err := s.store.ListBlogs(c.Request.Context(), "")
	if err != nil {
		slog.Error("Error building sitemap", slog.String("error", err.Error()))
		blogs = []models.Blog{}
	}

	for _, blog := range blogs {
		writeURL(&sitemap, domain+html.EscapeString(blog.Link()), blog.CreatedAt.Format(time.RFC3339), "monthly", "0.6")
	}
	for _, name := range categories(blogs) {
		writeURL(&sitemap, domain+"/category/"+html.EscapeString(url.PathEscape(strings.ToLower(name))), "", "weekly", "0.4")
	}

	sitemap.WriteString("</urlset>\n")

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, sitemap.String())
}

func writeURL(sb *strings.Builder, loc, lastmod, changefreq, priority string) {
	sb.WriteString("  <url>\n")
	sb.WriteString("    <loc>" + loc + "</loc>\n")
	if lastmod != "" {
		sb.WriteString("    <lastmod>" + lastmod + "</lastmod>\n")
	}
	sb.WriteString("    <changefreq>" + changefreq + "</changefreq>\n")
	sb.WriteString("    <priority>" + priority + "</priority>\n")
	sb.WriteString("  </url>\n")
}

// categories returns the distinct categories of blogs, compared
// case-insensitively and sorted by name.
func categories(blogs []models.Blog) []string {
	seen := map[string]string{}
	for _, b := range blogs {
		name := strings.TrimSpace(b.Category)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; !ok {
			seen[key] = name
		}
	}
	names := make([]string, 0, len(seen))
	for _, name := range seen {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
