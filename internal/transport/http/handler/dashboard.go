package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"social-dashboard/internal/domain"
	"social-dashboard/internal/feature/dashboard"
	httpez "social-dashboard/internal/transport/http/ez"
	mdw "social-dashboard/internal/transport/http/middleware"
	"social-dashboard/internal/transport/http/web"
)

// Dashboard serves the per-session dashboard as an HTML page and a JSON API.
type Dashboard struct {
	reg        *dashboard.Registry
	settleWait time.Duration
	appName    string
	author     string
	log        *zap.Logger
}

type Options struct {
	// SettleWait bounds how long a page render waits for in-flight loads.
	SettleWait time.Duration
	AppName    string
	Author     string
	Log        *zap.Logger
}

func NewDashboard(reg *dashboard.Registry, opt Options) *Dashboard {
	if opt.Log == nil {
		opt.Log = zap.NewNop()
	}
	if opt.AppName == "" {
		opt.AppName = "Social Media Analytics"
	}
	return &Dashboard{
		reg:        reg,
		settleWait: opt.SettleWait,
		appName:    opt.AppName,
		author:     opt.Author,
		log:        opt.Log,
	}
}

func (h *Dashboard) view(c *gin.Context) *dashboard.View {
	return h.reg.Get(c.Request.Context(), c.GetString(mdw.KeySessionID))
}

// settle waits for in-flight loads, at most settleWait. Running past it is not an error:
// the page renders the loading state and refreshes itself.
func (h *Dashboard) settle(c *gin.Context, v *dashboard.View) {
	if h.settleWait <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.settleWait)
	defer cancel()
	_ = v.Settle(ctx)
}

type page struct {
	dashboard.Snapshot
	AppName string
	Author  string
}

// MountWeb registers the HTML routes. Every form post redirects back to the page.
func (h *Dashboard) MountWeb(g *gin.RouterGroup) {
	g.GET("/", h.index)
	g.POST("/posts", h.addPost)
	g.POST("/posts/:id/delete", h.deletePost)
	g.POST("/page", h.changePage)
}

func (h *Dashboard) index(c *gin.Context) {
	v := h.view(c)
	h.settle(c, v)
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, web.PageDashboard, page{Snapshot: v.Snapshot(), AppName: h.appName, Author: h.author})
}

func (h *Dashboard) addPost(c *gin.Context) {
	v := h.view(c)
	v.SetDraft(c.PostForm("content"))
	v.SubmitDraft()
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Dashboard) deletePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid post id")
		return
	}
	h.view(c).RemovePost(id)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Dashboard) changePage(c *gin.Context) {
	target, err := strconv.Atoi(c.PostForm("page"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid page")
		return
	}
	if err := h.view(c).ChangePage(c.Request.Context(), target); err != nil {
		h.log.Debug("page change rejected", zap.Int("page", target),
			zap.String("rid", c.GetString(mdw.KeyRequestID)))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

type snapshotQ struct {
	Wait bool `form:"wait"`
}

type draftIn struct {
	Draft string `json:"draft"`
}

type contentIn struct {
	Content string `json:"content" binding:"max=5000"`
}

type postIDIn struct {
	ID int `uri:"id" binding:"required"`
}

type pageIn struct {
	Page int `json:"page" binding:"required"`
}

type addOut struct {
	Post     domain.Post        `json:"post"`
	Snapshot dashboard.Snapshot `json:"snapshot"`
}

type removeOut struct {
	Removed  int                `json:"removed"`
	Snapshot dashboard.Snapshot `json:"snapshot"`
}

// MountAPI registers the JSON routes on g, normally /api/v1/dashboard.
func (h *Dashboard) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g)

	httpez.RegisterAction(ez, httpez.Action[snapshotQ, dashboard.Snapshot]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *snapshotQ) (dashboard.Snapshot, error) {
			v := h.view(c)
			if in.Wait {
				h.settle(c, v)
			}
			return v.Snapshot(), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[draftIn, dashboard.Snapshot]{
		Method: http.MethodPut,
		Path:   "/draft",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *draftIn) (dashboard.Snapshot, error) {
			v := h.view(c)
			v.SetDraft(in.Draft)
			return v.Snapshot(), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[contentIn, addOut]{
		Method: http.MethodPost,
		Path:   "/posts",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *contentIn) (addOut, error) {
			v := h.view(c)
			p, ok := v.AddPost(in.Content)
			if !ok {
				return addOut{}, httpez.BadRequest("content is blank")
			}
			return addOut{Post: p, Snapshot: v.Snapshot()}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[postIDIn, removeOut]{
		Method: http.MethodDelete,
		Path:   "/posts/:id",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *postIDIn) (removeOut, error) {
			v := h.view(c)
			n := v.RemovePost(in.ID)
			return removeOut{Removed: n, Snapshot: v.Snapshot()}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[pageIn, dashboard.Snapshot]{
		Method: http.MethodPut,
		Path:   "/page",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *pageIn) (dashboard.Snapshot, error) {
			v := h.view(c)
			if err := v.ChangePage(c.Request.Context(), in.Page); err != nil {
				if errors.Is(err, dashboard.ErrPageOutOfRange) {
					return dashboard.Snapshot{}, httpez.BadRequest(err.Error())
				}
				return dashboard.Snapshot{}, httpez.Internal("change page failed", err)
			}
			return v.Snapshot(), nil
		},
	})
}
