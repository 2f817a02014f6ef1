package application

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes wires the open submission endpoint.
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/applications", h.Submit)
}

// RegisterAdminRoutes wires the dashboard endpoints; the caller attaches
// the auth middleware to the group.
func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	apps := r.Group("/applications")
	{
		apps.GET("", h.List)
		apps.GET("/stats", h.Stats)
		apps.GET("/:id", h.GetByID)
		apps.PATCH("/:id/status", h.UpdateStatus)
		apps.DELETE("/:id", h.Delete)
	}
}
