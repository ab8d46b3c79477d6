package router

import "github.com/gin-gonic/gin"

// Module registers one feature's routes, either under /api or at the root
// depending on how it was added to the Registry.
type Module interface {
	Register(rg *gin.RouterGroup)
}
