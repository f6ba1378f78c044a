package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"social-dashboard/internal/core/auth"
	"social-dashboard/internal/core/config"
	"social-dashboard/internal/core/server"
	mdw "social-dashboard/internal/transport/http/middleware"
	"social-dashboard/internal/transport/http/web"
)

type Deps struct {
	Log      *zap.Logger
	Config   *config.Config
	Sessions *auth.Sessions
	Modules  *Modules
}

func NewDashboardEngine(d Deps) *gin.Engine {
	cfg := d.Config
	r := server.NewRouter(server.Options{Name: cfg.App.Name, Mode: server.ModeFor(cfg.App.Env)})
	r.SetHTMLTemplate(web.Templates())

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(cfg.Limits.RPS), cfg.Limits.Burst),
		mdw.ConcurrencyLimit(cfg.Limits.MaxConcurrent),
		mdw.MaxBodyBytes(cfg.Limits.MaxBodyBytes),
		mdw.Timeout(time.Duration(cfg.Limits.TimeoutSec)*time.Second),
		mdw.Recovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// ops
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.StaticFS("/static", web.Static())

	session := mdw.Session(d.Sessions, mdw.SessionCookie{
		Name:   cfg.Session.CookieName,
		MaxAge: int(cfg.Session.TTL().Seconds()),
		Secure: cfg.Session.Secure,
	}, d.Log)

	site := r.Group("/", session)
	d.Modules.MountAllWeb(site)

	api := r.Group("/api/v1/dashboard", cors.Default(), session)
	d.Modules.MountAllAPI(api)

	return r
}
