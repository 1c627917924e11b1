package http

import (
	"github.com/gin-gonic/gin"
)

// PublicRouteGroup defines routes that don't require a session.
type PublicRouteGroup interface {
	// RegisterPublicRoutes registers public routes to the given router group.
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

// ProtectedRouteGroup defines routes that require a session.
type ProtectedRouteGroup interface {
	// RegisterProtectedRoutes registers protected routes to the given router group.
	RegisterProtectedRoutes(rg *gin.RouterGroup)
}

var (
	_ PublicRouteGroup    = (*EstimatorRoutes)(nil)
	_ ProtectedRouteGroup = (*PortalRoutes)(nil)
)
