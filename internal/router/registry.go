package router

import "github.com/gin-gonic/gin"

// Registry collects modules; API modules are mounted under /api, root
// modules on the engine itself.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	rootModules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api}
}

// Use adds middleware to the /api group only.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) AddRoot(mod Module) {
	r.rootModules = append(r.rootModules, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
	for _, m := range r.rootModules {
		m.Register(&r.Engine.RouterGroup)
	}
}
