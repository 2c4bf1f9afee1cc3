package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wanderlog/database"
	"wanderlog/models"
	"wanderlog/store"
	"wanderlog/store/mocks"
	"wanderlog/views"
)

var testCredentials = Credentials{Email: "admin@example.com", Password: "s3cret!"}

const testSessionMaxAge = time.Hour

func newBaseRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	sessionStore := cookie.NewStore([]byte("secret"))
	router.Use(sessions.Sessions("test-session", sessionStore))
	tmpl, err := views.Templates()
	if err != nil {
		panic(err)
	}
	router.SetHTMLTemplate(tmpl)
	return router
}

func setupTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	st := store.NewGormStore(db)
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}

func setupRouterWithStore(st store.Store) *gin.Engine {
	router := newBaseRouter()
	router.Use(RequireAdmin(testCredentials.Email, testSessionMaxAge))
	NewAdminModule(st, testCredentials).RegisterRoutes(router)
	return router
}

func setupTestRouter(t *testing.T) (*gin.Engine, store.Store) {
	st := setupTestStore(t)
	return setupRouterWithStore(st), st
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "test-session" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func login(t *testing.T, router http.Handler, path string) *http.Cookie {
	t.Helper()
	w := get(router, path, nil)
	return sessionCookie(t, w)
}

func signIn(t *testing.T, router http.Handler) *http.Cookie {
	t.Helper()
	w := postForm(router, "/api/auth/signin", url.Values{
		"email":    {testCredentials.Email},
		"password": {testCredentials.Password},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	return sessionCookie(t, w)
}

func get(router http.Handler, path string, c *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if c != nil {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postForm(router http.Handler, path string, form url.Values, c *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c != nil {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDashboard_RequiresSignin(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := postForm(router, "/admin/blogs", url.Values{"title": {"x"}, "content": {"y"}}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/signin?callbackUrl="))
}

func TestBlogForm_CreateEditDelete(t *testing.T) {
	router, st := setupTestRouter(t)
	cookie := signIn(t, router)
	ctx := context.Background()

	w := postForm(router, "/admin/blogs", url.Values{
		"title":          {"Hidden Beaches of Crete"},
		"content":        {"Turquoise water."},
		"category":       {"Beaches"},
		"affiliateLinks": {"Snorkel | https://example.com/snorkel\n\n"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	blog, err := st.GetBlogBySlug(ctx, "hidden-beaches-of-crete")
	require.NoError(t, err)
	assert.Equal(t, []models.AffiliateLink{{Name: "Snorkel", URL: "https://example.com/snorkel"}}, blog.AffiliateLinks)

	w = get(router, "/admin", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hidden Beaches of Crete")

	w = get(router, "/admin/blogs/"+blog.ID+"/edit", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Snorkel | https://example.com/snorkel")

	w = postForm(router, "/admin/blogs/"+blog.ID, url.Values{
		"title":    {"Hidden Beaches of Crete, Revisited"},
		"content":  {"Still turquoise."},
		"category": {"Beaches"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	updated, err := st.GetBlogByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "hidden-beaches-of-crete-revisited", updated.Slug)
	assert.Empty(t, updated.AffiliateLinks)
	assert.True(t, blog.CreatedAt.Equal(updated.CreatedAt))

	w = postForm(router, "/admin/blogs/"+blog.ID+"/delete", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	_, err = st.GetBlogByID(ctx, blog.ID)
	assert.Error(t, err)
}

func TestBlogForm_ValidationShowsAlert(t *testing.T) {
	router, st := setupTestRouter(t)
	cookie := signIn(t, router)

	w := postForm(router, "/admin/blogs", url.Values{"title": {"No content"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `role="alert"`)
	assert.Contains(t, w.Body.String(), `value="No content"`)

	blogs, err := st.ListBlogs(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, blogs)
}

func TestBlogForm_DuplicateTitle(t *testing.T) {
	router, _ := setupTestRouter(t)
	cookie := signIn(t, router)
	form := url.Values{"title": {"Twice"}, "content": {"a"}}

	require.Equal(t, http.StatusSeeOther, postForm(router, "/admin/blogs", form, cookie).Code)
	w := postForm(router, "/admin/blogs", form, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestBlogForm_EditUnknown(t *testing.T) {
	router, _ := setupTestRouter(t)
	cookie := signIn(t, router)

	w := get(router, "/admin/blogs/missing/edit", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Blog not found")

	w = postForm(router, "/admin/blogs/missing", url.Values{"title": {"t"}, "content": {"c"}}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoryForm_CreateAndEdit(t *testing.T) {
	router, st := setupTestRouter(t)
	cookie := signIn(t, router)
	ctx := context.Background()

	w := postForm(router, "/admin/stories", url.Values{
		"title":       {"Silk Road"},
		"quote":       {"Not all who wander are lost"},
		"description": {"Samarkand to Bukhara"},
		"routePoints": {"39.65,66.96,Samarkand\nnot,a,point\n39.77, 64.42"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/stories", w.Header().Get("Location"))

	stories, err := st.ListStories(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	story := stories[0]
	assert.Equal(t, []models.RoutePoint{
		{Lat: 39.65, Lng: 66.96, Label: "Samarkand"},
		{Lat: 39.77, Lng: 64.42},
	}, story.RoutePoints)

	w = get(router, "/admin/stories/"+story.ID+"/edit", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "39.65,66.96,Samarkand")

	w = postForm(router, "/admin/stories/"+story.ID, url.Values{
		"title":       {"Silk Road"},
		"description": {"Samarkand to Khiva"},
		"routePoints": {""},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	updated, err := st.GetStoryByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, "Samarkand to Khiva", updated.Description)
	assert.Equal(t, "", updated.Quote)
	assert.Empty(t, updated.RoutePoints)

	w = postForm(router, "/admin/stories/"+story.ID+"/delete", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = get(router, "/admin/stories", cookie)
	assert.NotContains(t, w.Body.String(), "Silk Road")
}

func TestStoryForm_RequiresDescription(t *testing.T) {
	router, _ := setupTestRouter(t)
	cookie := signIn(t, router)

	w := postForm(router, "/admin/stories", url.Values{"title": {"Only title"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `role="alert"`)
}

func TestDelete_StoreFailureShowsAlert(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	router := setupRouterWithStore(st)
	cookie := signIn(t, router)

	st.EXPECT().DeleteBlog(gomock.Any(), "abc").Return(errors.New("disk full"))
	st.EXPECT().ListBlogs(gomock.Any(), "").Return([]models.Blog{}, nil)

	w := postForm(router, "/admin/blogs/abc/delete", url.Values{}, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error deleting blog")
	assert.NotContains(t, w.Body.String(), "disk full")
}

func TestBlogFormMapping(t *testing.T) {
	blog := &models.Blog{
		ID:    "b1",
		Title: "T",
		AffiliateLinks: []models.AffiliateLink{
			{Name: "One", URL: "https://one.example"},
			{Name: "Two", URL: "https://two.example"},
		},
	}
	form := blogFormFrom(blog)
	assert.Equal(t, "One | https://one.example\nTwo | https://two.example", form.AffiliateLinks)
	assert.Equal(t, blog.AffiliateLinks, form.Input().AffiliateLinks)
}

func TestStoryFormMapping(t *testing.T) {
	story := &models.Story{
		ID: "s1",
		RoutePoints: []models.RoutePoint{
			{Lat: 1.5, Lng: -2, Label: "A, B"},
			{Lat: 0, Lng: 0},
		},
	}
	form := storyFormFrom(story)
	assert.Equal(t, "1.5,-2,A, B\n0,0", form.RoutePoints)
	assert.Equal(t, story.RoutePoints, form.Input().Story().RoutePoints)
}
