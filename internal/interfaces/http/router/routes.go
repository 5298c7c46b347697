package router

import "github.com/cabinetquote/backend/internal/interfaces/http/handler"

// QuoteRoutes returns the /quotes route table
func QuoteRoutes(h *handler.QuoteHandler) *DomainGroup {
	quotes := NewDomainGroup("quote", "/quotes")
	quotes.POST("", h.Create)
	quotes.GET("", h.List)
	quotes.GET("/:id", h.GetByID)
	quotes.DELETE("/:id", h.Delete)
	quotes.PUT("/:id/client", h.UpdateClient)

	spaces := quotes.Group("space", "/:id/spaces")
	spaces.POST("", h.AddSpace)
	spaces.PATCH("/:spaceId", h.UpdateSpace)
	spaces.DELETE("/:spaceId", h.DeleteSpace)
	spaces.POST("/:spaceId/items", h.AddItem)
	spaces.PATCH("/:spaceId/items/:itemId", h.UpdateItem)
	spaces.DELETE("/:spaceId/items/:itemId", h.DeleteItem)

	adjustment := quotes.Group("adjustment", "/:id/adjustment")
	adjustment.POST("", h.ApplyAdjustment)
	adjustment.POST("/preview", h.PreviewAdjustment)
	return quotes
}

// SystemRoutes returns the /system route table
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.GetSystemInfo)
	system.GET("/ping", h.Ping)
	return system
}
