// Package simulator serves a fake HydroGuard device over HTTP so the
// dashboard's sensor path can be exercised without hardware.
package simulator

import (
	"github.com/gin-gonic/gin"
)

// Group is one mountable set of routes.
type Group interface {
	BaseURL() string
	Middlewares() []gin.HandlerFunc
	Register(group *gin.RouterGroup)
}

// RegisterGroup mounts g under its base URL with its middlewares.
func RegisterGroup(router *gin.Engine, g Group) {
	group := router.Group(g.BaseURL(), g.Middlewares()...)
	g.Register(group)
}
