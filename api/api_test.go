package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wanderlog/apperr"
	"wanderlog/database"
	"wanderlog/models"
	"wanderlog/store"
	"wanderlog/store/mocks"
)

func setupTestRouter(t *testing.T, st store.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAPIModule(st).RegisterRoutes(router)
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

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCreateBlog_ThenGetBySlug(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))

	w := do(router, http.MethodPost, "/admin/api/blogs",
		`{"title":"Kyoto Temples","content":"# Kyoto\nQuiet mornings.","category":"Culture","slug":"ignored"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[models.Blog](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "kyoto-temples", created.Slug)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, []models.AffiliateLink{}, created.AffiliateLinks)

	w = do(router, http.MethodGet, "/api/blogs/slug/kyoto-temples", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Blog](t, w)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Kyoto Temples", got.Title)
	assert.Equal(t, "# Kyoto\nQuiet mornings.", got.Content)
}

func TestCreateBlog_Validation(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"content":"x"}`},
		{"blank content", `{"title":"x","content":"   "}`},
		{"bad affiliate url", `{"title":"x","content":"y","affiliateLinks":[{"name":"a","url":"not a url"}]}`},
		{"title with no slug characters", `{"title":"東京","content":"y"}`},
		{"punctuation-only title", `{"title":"!!!","content":"y"}`},
		{"malformed json", `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/admin/api/blogs", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}

	w := do(router, http.MethodGet, "/api/blogs", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateBlog_DuplicateSlugIsServerError(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))

	w := do(router, http.MethodPost, "/admin/api/blogs", `{"title":"Same Title","content":"a"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(router, http.MethodPost, "/admin/api/blogs", `{"title":"same title!","content":"b"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(router, http.MethodGet, "/api/blogs", "")
	assert.Len(t, decode[[]models.Blog](t, w), 1)
}

func TestGetBlogBySlug_NotFound(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))

	w := do(router, http.MethodGet, "/api/blogs/slug/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Blog not found"}`, w.Body.String())
}

func TestListBlogs_CategoryFilter(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))
	do(router, http.MethodPost, "/admin/api/blogs", `{"title":"One","content":"a","category":"Food"}`)
	do(router, http.MethodPost, "/admin/api/blogs", `{"title":"Two","content":"b","category":"Hiking"}`)
	do(router, http.MethodPost, "/admin/api/blogs", `{"title":"Three","content":"c"}`)

	all := decode[[]models.Blog](t, do(router, http.MethodGet, "/api/blogs", ""))
	require.Len(t, all, 3)
	assert.Equal(t, "One", all[0].Title)
	assert.Equal(t, "Three", all[2].Title)

	food := decode[[]models.Blog](t, do(router, http.MethodGet, "/api/blogs?category=food", ""))
	require.Len(t, food, 1)
	assert.Equal(t, "One", food[0].Title)
}

func TestUpdateBlog(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))
	created := decode[models.Blog](t, do(router, http.MethodPost, "/admin/api/blogs",
		`{"title":"Draft Title","content":"old","category":"Food"}`))

	w := do(router, http.MethodPut, "/admin/api/blogs/"+created.ID, `{"title":"Final Title","content":"new"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Message string      `json:"message"`
		Blog    models.Blog `json:"blog"`
	}](t, w)
	assert.Equal(t, "Blog updated successfully", resp.Message)
	assert.Equal(t, created.ID, resp.Blog.ID)
	assert.Equal(t, "final-title", resp.Blog.Slug)
	assert.Equal(t, "new", resp.Blog.Content)
	assert.Equal(t, "Food", resp.Blog.Category)
	assert.True(t, created.CreatedAt.Equal(resp.Blog.CreatedAt))

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/blogs/slug/final-title", "").Code)
}

func TestUpdateBlog_NotFound(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))

	w := do(router, http.MethodPut, "/admin/api/blogs/missing", `{"content":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Blog not found"}`, w.Body.String())
}

func TestUpdateBlog_RejectsBlankTitle(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))
	created := decode[models.Blog](t, do(router, http.MethodPost, "/admin/api/blogs", `{"title":"Keep","content":"a"}`))

	w := do(router, http.MethodPut, "/admin/api/blogs/"+created.ID, `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPut, "/admin/api/blogs/"+created.ID, `{"title":"Ελλάδα"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/blogs/slug/keep", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteBlog_Idempotent(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))
	created := decode[models.Blog](t, do(router, http.MethodPost, "/admin/api/blogs", `{"title":"Bye","content":"a"}`))

	for i := 0; i < 2; i++ {
		w := do(router, http.MethodDelete, "/admin/api/blogs/"+created.ID, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Blog deleted successfully"}`, w.Body.String())
	}

	w := do(router, http.MethodDelete, "/admin/api/blogs/never-existed", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateStory_FiltersRoutePoints(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))

	w := do(router, http.MethodPost, "/admin/api/stories", `{
		"title":"Across the Alps",
		"description":"Three passes in a week",
		"routePoints":[
			{"lat":46.5,"lng":8.0,"label":"Start"},
			{"lat":"46.6","lng":8.1},
			{"lng":8.2},
			{"lat":46.7,"lng":8.3}
		]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	story := decode[models.Story](t, w)
	assert.Equal(t, []models.RoutePoint{
		{Lat: 46.5, Lng: 8.0, Label: "Start"},
		{Lat: 46.7, Lng: 8.3, Label: ""},
	}, story.RoutePoints)
	assert.Equal(t, "", story.Quote)
	assert.Equal(t, "", story.MapImage)
}

func TestCreateStory_RequiresTitleAndDescription(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))

	w := do(router, http.MethodPost, "/admin/api/stories", `{"title":"Only a title"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/admin/api/stories", `{"description":"Only a description"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.JSONEq(t, `[]`, do(router, http.MethodGet, "/api/stories", "").Body.String())
}

func TestListStories_NewestFirst(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))
	for _, title := range []string{"First", "Second", "Third"} {
		w := do(router, http.MethodPost, "/admin/api/stories", `{"title":"`+title+`","description":"d"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	stories := decode[[]models.Story](t, do(router, http.MethodGet, "/api/stories", ""))
	require.Len(t, stories, 3)
	for i := 1; i < len(stories); i++ {
		assert.False(t, stories[i].CreatedAt.After(stories[i-1].CreatedAt))
	}
}

func TestUpdateAndDeleteStory(t *testing.T) {
	router := setupTestRouter(t, setupTestStore(t))
	created := decode[models.Story](t, do(router, http.MethodPost, "/admin/api/stories",
		`{"title":"Old","description":"d","quote":"q"}`))

	w := do(router, http.MethodPut, "/admin/api/stories/"+created.ID,
		`{"title":"New","routePoints":[{"lat":1,"lng":2},{"lat":null,"lng":3}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Story](t, w)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "q", updated.Quote)
	assert.Equal(t, []models.RoutePoint{{Lat: 1, Lng: 2}}, updated.RoutePoints)

	w = do(router, http.MethodPut, "/admin/api/stories/missing", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Story not found"}`, w.Body.String())

	w = do(router, http.MethodDelete, "/admin/api/stories/"+created.ID, "")
	assert.JSONEq(t, `{"message":"Story deleted successfully"}`, w.Body.String())
}

func TestStoreFailuresAreServerErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	router := setupTestRouter(t, st)
	boom := errors.New("connection reset")

	st.EXPECT().ListBlogs(gomock.Any(), "").Return(nil, boom)
	st.EXPECT().DeleteBlog(gomock.Any(), "abc").Return(boom)
	st.EXPECT().DeleteStory(gomock.Any(), "abc").Return(boom)
	st.EXPECT().CreateStory(gomock.Any(), gomock.Any()).Return(boom)
	st.EXPECT().GetBlogBySlug(gomock.Any(), "x").Return(nil, apperr.ErrNotFound)

	w := do(router, http.MethodGet, "/api/blogs", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(router, http.MethodDelete, "/admin/api/blogs/abc", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Error deleting blog"}`, w.Body.String())

	w = do(router, http.MethodDelete, "/admin/api/stories/abc", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(router, http.MethodPost, "/admin/api/stories", `{"title":"t","description":"d"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")

	w = do(router, http.MethodGet, "/api/blogs/slug/x", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
