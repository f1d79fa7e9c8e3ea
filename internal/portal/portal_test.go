package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/aggregator"
	"github.com/newsportal/internal/db"
	"github.com/newsportal/internal/handler"
	"github.com/newsportal/internal/news"
	"github.com/newsportal/internal/router"
	"github.com/newsportal/internal/storeclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
)

type testEnv struct {
	t      *testing.T
	gdb    *gorm.DB
	portal *httptest.Server
	store  *storeclient.Client
	client *http.Client
}

// newTestEnv runs the collection server and the portal in-process, wired
// the way the two binaries wire them.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:portal-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, db.EnsureUser(gdb, "Admin", adminEmail, adminPassword))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	uploadDir := t.TempDir()
	storeSrv := httptest.NewServer(router.SetupRouter(
		handler.NewAPI(gdb, uploadDir, "/static/uploads"),
		router.Config{UploadDir: uploadDir, UploadURLPath: "/static/uploads"},
	))
	t.Cleanup(storeSrv.Close)

	store := storeclient.New(storeSrv.URL+"/api", storeclient.WithTimeout(5*time.Second))
	p, err := New(Deps{
		News:          aggregator.New(store, store),
		Backend:       store,
		SessionSecret: "test-secret",
	})
	require.NoError(t, err)

	portalSrv := httptest.NewServer(p.Router())
	t.Cleanup(portalSrv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		t:      t,
		gdb:    gdb,
		portal: portalSrv,
		store:  store,
		client: &http.Client{Jar: jar, Timeout: 5 * time.Second},
	}
}

// resetToken reads the newest reset token issued for email straight from
// the collection database, where the server keeps it.
func (e *testEnv) resetToken(email string) string {
	e.t.Helper()
	var reset db.PasswordReset
	err := e.gdb.
		Joins("JOIN users ON users.id = password_resets.user_id").
		Where("users.email = ?", email).
		Order("password_resets.created_at DESC").
		First(&reset).Error
	require.NoError(e.t, err)
	return reset.Token
}

func (e *testEnv) do(method, path string, body any) (int, []byte) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.portal.URL+path, reader)
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.client.Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp.StatusCode, data
}

func (e *testEnv) login() {
	e.t.Helper()
	status, body := e.do(http.MethodPost, "/api/login", news.Credentials{Email: adminEmail, Password: adminPassword})
	require.Equal(e.t, http.StatusOK, status, string(body))
}

func (e *testEnv) author(name string) news.Author {
	e.t.Helper()
	a, err := e.store.CreateAuthor(e.t.Context(), news.Author{Name: name, Email: name + "@example.com"})
	require.NoError(e.t, err)
	return a
}

func (e *testEnv) save(form map[string]any) news.Article {
	e.t.Helper()
	status, body := e.do(http.MethodPost, "/api/admin/articles", form)
	require.Equal(e.t, http.StatusCreated, status, string(body))
	var a news.Article
	require.NoError(e.t, json.Unmarshal(body, &a))
	return a
}

func decodeAs[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)

	store := storeclient.New("http://127.0.0.1:1/api")
	_, err = New(Deps{News: aggregator.New(store, store)})
	assert.Error(t, err)
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(http.MethodGet, "/api/admin/articles", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = env.do(http.MethodPost, "/api/admin/articles", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := env.do(http.MethodPost, "/api/login", news.Credentials{Email: adminEmail, Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, decodeAs[map[string]string](t, body)["message"])

	env.login()
	status, body = env.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, adminEmail, decodeAs[news.User](t, body).Email)

	status, _ = env.do(http.MethodGet, "/api/admin/articles", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = env.do(http.MethodGet, "/api/admin/articles", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = env.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPublishDraftAndPublicViews(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	ada := env.author("ada")

	published := env.save(map[string]any{
		"title": "Go 1.24 released", "content": "Generic aliases", "category": "tech",
		"tags": []string{"go"}, "authorId": ada.ID, "featured": true,
	})
	assert.False(t, published.IsDraft)
	assert.NotNil(t, published.PublishedAt)
	assert.Equal(t, "go-1-24-released", published.Slug)

	draft := env.save(map[string]any{
		"title": "Secret plans", "category": "tech", "authorId": ada.ID, "isDraft": true, "featured": true,
	})
	assert.True(t, draft.IsDraft)
	assert.Nil(t, draft.PublishedAt)

	env.save(map[string]any{"title": "Match report", "category": "sport", "authorId": ada.ID})

	status, body := env.do(http.MethodGet, "/api/home", nil)
	require.Equal(t, http.StatusOK, status)
	home := decodeAs[aggregator.Home](t, body)
	require.Len(t, home.Featured, 1)
	assert.Equal(t, published.ID, home.Featured[0].ID)
	assert.Len(t, home.Latest, 2)
	assert.ElementsMatch(t, []string{"tech", "sport"}, home.Categories)

	status, body = env.do(http.MethodGet, "/api/category/tech", nil)
	require.Equal(t, http.StatusOK, status)
	page := decodeAs[struct {
		Articles []news.Article `json:"articles"`
	}](t, body)
	require.Len(t, page.Articles, 1)
	assert.Equal(t, published.ID, page.Articles[0].ID)

	status, _ = env.do(http.MethodGet, "/api/articles/"+draft.Slug, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(http.MethodGet, "/api/authors/"+ada.ID+"/articles", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeAs[[]news.Article](t, body), 2)

	status, body = env.do(http.MethodGet, "/api/admin/authors/"+ada.ID+"/articles?includeDrafts=true", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeAs[[]news.Article](t, body), 3)

	status, body = env.do(http.MethodGet, "/api/admin/stats", nil)
	require.Equal(t, http.StatusOK, status)
	stats := decodeAs[aggregator.Stats](t, body)
	assert.Equal(t, 3, stats.TotalArticles)
	assert.Equal(t, 1, stats.DraftArticles)
	assert.Equal(t, 2, stats.DistinctCategoryCount)

	status, body = env.do(http.MethodPut, "/api/admin/articles/"+draft.ID, map[string]any{"isDraft": false})
	require.Equal(t, http.StatusOK, status, string(body))
	promoted := decodeAs[news.Article](t, body)
	assert.False(t, promoted.IsDraft)
	assert.NotNil(t, promoted.PublishedAt)

	status, _ = env.do(http.MethodGet, "/api/articles/"+draft.Slug, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestArticlePageCountsVisitorsOnce(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	ada := env.author("ada")

	article := env.save(map[string]any{"title": "Counted story", "category": "world", "authorId": ada.ID})
	related := env.save(map[string]any{"title": "Related story", "category": "world", "authorId": ada.ID})

	status, body := env.do(http.MethodGet, "/api/articles/"+article.Slug, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	page := decodeAs[aggregator.ArticlePage](t, body)
	assert.Equal(t, article.ID, page.Article.ID)
	assert.EqualValues(t, 1, page.Views)
	require.Len(t, page.Related, 1)
	assert.Equal(t, related.ID, page.Related[0].ID)

	status, body = env.do(http.MethodGet, "/api/articles/"+article.Slug, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decodeAs[aggregator.ArticlePage](t, body).Views)

	status, _ = env.do(http.MethodGet, "/api/articles/no-such-story", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSearchWithFilters(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	ada := env.author("ada")
	bob := env.author("bob")

	env.save(map[string]any{"title": "Rust and Go", "category": "tech", "authorId": ada.ID, "tags": []string{"lang"}})
	env.save(map[string]any{"title": "Go for beginners", "category": "edu", "authorId": bob.ID})

	type result struct {
		Articles []news.Article `json:"articles"`
	}

	status, body := env.do(http.MethodGet, "/api/search?q=go", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeAs[result](t, body).Articles, 2)

	status, body = env.do(http.MethodGet, "/api/search?q=go&author=BOB", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeAs[result](t, body).Articles, 1)

	status, body = env.do(http.MethodGet, "/api/search?q=go&category=tech&date=week", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeAs[result](t, body).Articles, 1)

	status, body = env.do(http.MethodGet, "/api/search?tag=LANG", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeAs[result](t, body).Articles, 1)

	status, body = env.do(http.MethodGet, "/api/search", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeAs[result](t, body).Articles)

	status, _ = env.do(http.MethodGet, "/api/search?q=go&date=decade", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(http.MethodGet, "/api/author-names", nil)
	require.Equal(t, http.StatusOK, status)
	assert.ElementsMatch(t, []string{"ada", "bob"}, decodeAs[[]string](t, body))
}

func TestSlugCollisionGetsSuffix(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	ada := env.author("ada")

	first := env.save(map[string]any{"title": "Breaking News", "authorId": ada.ID})
	second := env.save(map[string]any{"title": "Breaking News", "authorId": ada.ID})

	assert.Equal(t, "breaking-news", first.Slug)
	assert.Regexp(t, `^breaking-news-[0-9a-f]{6}$`, second.Slug)
}

func TestSaveValidationAndDelete(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	status, _ := env.do(http.MethodPost, "/api/admin/articles", map[string]any{"title": "No author"})
	assert.Equal(t, http.StatusBadRequest, status)

	ada := env.author("ada")
	article := env.save(map[string]any{"title": "Short lived", "authorId": ada.ID})

	status, _ = env.do(http.MethodDelete, "/api/admin/articles/"+article.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = env.do(http.MethodDelete, "/api/admin/articles/"+article.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTermsFlagOutlivesLogout(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodGet, "/api/terms", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, decodeAs[map[string]any](t, body)["accepted"])

	status, _ = env.do(http.MethodPost, "/api/terms/accept", nil)
	require.Equal(t, http.StatusOK, status)

	env.login()
	env.do(http.MethodPost, "/api/logout", nil)

	status, body = env.do(http.MethodGet, "/api/terms", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decodeAs[map[string]any](t, body)["accepted"])
}

func TestRegisterAndResetPassword(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodPost, "/api/register", news.Registration{Name: "Eve", Email: "eve@example.com", Password: "correct-horse"})
	require.Equal(t, http.StatusCreated, status, string(body))
	status, _ = env.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = env.do(http.MethodPost, "/api/register", news.Registration{Name: "Eve", Email: "eve@example.com", Password: "correct-horse"})
	assert.Equal(t, http.StatusConflict, status)
	assert.NotEmpty(t, decodeAs[map[string]string](t, body)["message"])

	status, _ = env.do(http.MethodPost, "/api/forgot-password", map[string]string{"email": "eve@example.com"})
	require.Equal(t, http.StatusOK, status)
	token := env.resetToken("eve@example.com")
	require.NotEmpty(t, token)

	status, _ = env.do(http.MethodPost, "/api/reset-password", news.PasswordReset{Token: token, Password: "battery-staple"})
	require.Equal(t, http.StatusOK, status)

	status, _ = env.do(http.MethodPost, "/api/login", news.Credentials{Email: "eve@example.com", Password: "battery-staple"})
	assert.Equal(t, http.StatusOK, status)
}

func TestForgotPasswordRevealsNothing(t *testing.T) {
	env := newTestEnv(t)

	status, known := env.do(http.MethodPost, "/api/forgot-password", map[string]string{"email": adminEmail})
	require.Equal(t, http.StatusOK, status)
	status, unknown := env.do(http.MethodPost, "/api/forgot-password", map[string]string{"email": "ghost@example.com"})
	require.Equal(t, http.StatusOK, status)

	token := env.resetToken(adminEmail)
	require.NotEmpty(t, token)
	assert.NotContains(t, string(known), token)
	assert.NotContains(t, string(known), "token")
	assert.Equal(t, string(known), string(unknown))
	assert.Equal(t, forgotPasswordMessage, decodeAs[map[string]string](t, known)["message"])

	status, _ = env.do(http.MethodPost, "/api/reset-password", news.PasswordReset{Token: "guessed-token", Password: "taken-over!"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = env.do(http.MethodPost, "/api/login", news.Credentials{Email: adminEmail, Password: "taken-over!"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSecureCookiesFlagMarksSessionCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := storeclient.New("http://127.0.0.1:1/api")

	for _, secure := range []bool{false, true} {
		p, err := New(Deps{News: aggregator.New(store, store), Backend: store, SessionSecret: "s", SecureCookies: secure})
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		p.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/terms/accept", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var session *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == sessionName {
				session = c
			}
		}
		require.NotNil(t, session, "session cookie set")
		assert.Equal(t, secure, session.Secure)
		assert.True(t, session.HttpOnly)
	}
}

func TestStoreDownIsBadGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := storeclient.New("http://127.0.0.1:1/api", storeclient.WithTimeout(time.Second))
	p, err := New(Deps{News: aggregator.New(store, store), Backend: store, SessionSecret: "s"})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	p.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/latest", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
