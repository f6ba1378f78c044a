package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// A module implements one or both of these.
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type WebModule interface{ MountWeb(*gin.RouterGroup) }

// Modules mounting earlier implement Priority with a smaller value; the default is 100.
type prioritizer interface{ Priority() int }

type Modules struct {
	mu      sync.RWMutex
	apiMods []APIModule
	webMods []WebModule
}

// Register sorts mod into the API and/or web lists by the interfaces it implements.
func (m *Modules) Register(mod any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := mod.(APIModule); ok {
		m.apiMods = append(m.apiMods, a)
	}
	if w, ok := mod.(WebModule); ok {
		m.webMods = append(m.webMods, w)
	}
}

func (m *Modules) MountAllAPI(api *gin.RouterGroup) {
	m.mu.RLock()
	mods := append([]APIModule(nil), m.apiMods...)
	m.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, mod := range mods {
		mod.MountAPI(api)
	}
}

func (m *Modules) MountAllWeb(site *gin.RouterGroup) {
	m.mu.RLock()
	mods := append([]WebModule(nil), m.webMods...)
	m.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, mod := range mods {
		mod.MountWeb(site)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
