package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"social-dashboard/internal/core/auth"
	"social-dashboard/internal/core/config"
	"social-dashboard/internal/feature/dashboard"
	"social-dashboard/internal/repo"
	"social-dashboard/internal/transport/http/handler"
	mdw "social-dashboard/internal/transport/http/middleware"
)

// upstream mimics the paging behavior of jsonplaceholder for 12 posts.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	posts := make([]map[string]any, 0, 12)
	for i := 1; i <= 12; i++ {
		posts = append(posts, map[string]any{"id": i, "userId": 1, "title": "t", "body": "body " + strconv.Itoa(i)})
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users":
			_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "name": "Leanne Graham", "email": "Sincere@april.biz"}})
		case "/posts":
			out := posts
			if p := r.URL.Query().Get("_page"); p != "" {
				page, _ := strconv.Atoi(p)
				limit, _ := strconv.Atoi(r.URL.Query().Get("_limit"))
				start := min((page-1)*limit, len(posts))
				out = posts[start:min(start+limit, len(posts))]
			}
			_ = json.NewEncoder(w).Encode(out)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("APP_APP_ENV", "test")
	t.Setenv("APP_REMOTE_BASEURL", baseURL)
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func newEngine(t *testing.T) (*gin.Engine, *dashboard.Registry) {
	t.Helper()
	cfg := testConfig(t, upstream(t).URL)
	log := zap.NewNop()

	src := repo.NewPlaceholderRepo(repo.NewHTTPClient(cfg.Remote.Timeout(), log), cfg.Remote.BaseURL)
	reg := dashboard.NewRegistry(func() *dashboard.View {
		return dashboard.NewView(src, dashboard.Options{PostsPerPage: cfg.Dashboard.PostsPerPage, Log: log})
	}, cfg.Dashboard.SessionIdle(), log)
	t.Cleanup(reg.Close)

	mods := &Modules{}
	mods.Register(handler.NewDashboard(reg, handler.Options{SettleWait: 2 * time.Second, Log: log}))

	r := NewDashboardEngine(Deps{
		Log:      log,
		Config:   cfg,
		Sessions: auth.NewSessions([]byte("router-test"), cfg.Session.Issuer, cfg.Session.TTL()),
		Modules:  mods,
	})
	return r, reg
}

func get(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEngine_OpsRoutes(t *testing.T) {
	r, reg := newEngine(t)

	w := get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":1}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(mdw.HeaderRequestID))

	w = get(r, "/static/dashboard.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".card")

	get(r, "/")
	w = get(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dashboard_remote_requests_total")
	assert.Contains(t, w.Body.String(), "dashboard_sessions_active")
	assert.Contains(t, w.Body.String(), "http_requests_total")

	assert.Equal(t, 1, reg.Len())
}

func TestEngine_DashboardAgainstUpstream(t *testing.T) {
	r, _ := newEngine(t)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	html := w.Body.String()
	assert.Contains(t, html, "Leanne Graham")
	assert.Contains(t, html, "<p>body 1</p>")
	assert.Contains(t, html, "<p>body 5</p>")
	assert.NotContains(t, html, "<p>body 6</p>")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/dashboard/page", strings.NewReader(`{"page":3}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"code":0`)

	html = get(r, "/", cookies[0]).Body.String()
	assert.Contains(t, html, "<p>body 11</p>")
	assert.Contains(t, html, "<p>body 12</p>")
}

func TestEngine_UnknownRoute(t *testing.T) {
	r, _ := newEngine(t)
	w := get(r, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":404`)
}

type fakeModule struct {
	prio  int
	order *[]int
}

func (f fakeModule) Priority() int               { return f.prio }
func (f fakeModule) MountAPI(*gin.RouterGroup)   { *f.order = append(*f.order, f.prio) }
func (f fakeModule) MountWeb(g *gin.RouterGroup) {}

func TestModules_MountInPriorityOrder(t *testing.T) {
	var order []int
	m := &Modules{}
	m.Register(fakeModule{prio: 30, order: &order})
	m.Register(fakeModule{prio: 10, order: &order})
	m.Register(struct{}{})

	m.MountAllAPI(gin.New().Group("/"))
	assert.Equal(t, []int{10, 30}, order)
}
