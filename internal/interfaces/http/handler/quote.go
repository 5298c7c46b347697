package handler

import (
	quoteapp "github.com/cabinetquote/backend/internal/application/quote"
	"github.com/gin-gonic/gin"
)

// QuoteHandler handles quote composition and pricing endpoints
type QuoteHandler struct {
	BaseHandler
	service *quoteapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(service *quoteapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// Create starts a new quote
// POST /quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	var req quoteapp.CreateQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns a page of quotes
// GET /quotes
func (h *QuoteHandler) List(c *gin.Context) {
	var filter quoteapp.QuoteListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	quotes, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, quotes, total, page, pageSize)
}

// GetByID returns a quote with its pricing summary
// GET /quotes/:id
func (h *QuoteHandler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a quote
// DELETE /quotes/:id
func (h *QuoteHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateClient sets client fields by name
// PUT /quotes/:id/client
func (h *QuoteHandler) UpdateClient(c *gin.Context) {
	var req quoteapp.UpdateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.respond(c)(h.service.UpdateClient(c.Request.Context(), c.Param("id"), req))
}

// AddSpace appends an empty space
// POST /quotes/:id/spaces
func (h *QuoteHandler) AddSpace(c *gin.Context) {
	resp, err := h.service.AddSpace(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateSpace renames a space
// PATCH /quotes/:id/spaces/:spaceId
func (h *QuoteHandler) UpdateSpace(c *gin.Context) {
	var req quoteapp.UpdateSpaceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.respond(c)(h.service.UpdateSpace(c.Request.Context(), c.Param("id"), c.Param("spaceId"), req))
}

// DeleteSpace removes a space and its items
// DELETE /quotes/:id/spaces/:spaceId
func (h *QuoteHandler) DeleteSpace(c *gin.Context) {
	h.respond(c)(h.service.DeleteSpace(c.Request.Context(), c.Param("id"), c.Param("spaceId")))
}

// AddItem appends a default cabinet item to a space
// POST /quotes/:id/spaces/:spaceId/items
func (h *QuoteHandler) AddItem(c *gin.Context) {
	resp, err := h.service.AddItem(c.Request.Context(), c.Param("id"), c.Param("spaceId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateItem changes dimensions or price of an item
// PATCH /quotes/:id/spaces/:spaceId/items/:itemId
func (h *QuoteHandler) UpdateItem(c *gin.Context) {
	var req quoteapp.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.respond(c)(h.service.UpdateItem(c.Request.Context(),
		c.Param("id"), c.Param("spaceId"), c.Param("itemId"), req))
}

// DeleteItem removes an item
// DELETE /quotes/:id/spaces/:spaceId/items/:itemId
func (h *QuoteHandler) DeleteItem(c *gin.Context) {
	h.respond(c)(h.service.DeleteItem(c.Request.Context(),
		c.Param("id"), c.Param("spaceId"), c.Param("itemId")))
}

// ApplyAdjustment commits a discount or surcharge
// POST /quotes/:id/adjustment
func (h *QuoteHandler) ApplyAdjustment(c *gin.Context) {
	var req quoteapp.AdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.respond(c)(h.service.ApplyAdjustment(c.Request.Context(), c.Param("id"), req))
}

// PreviewAdjustment returns the figures an adjustment would produce without saving
// POST /quotes/:id/adjustment/preview
func (h *QuoteHandler) PreviewAdjustment(c *gin.Context) {
	var req quoteapp.AdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	summary, err := h.service.PreviewAdjustment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

func (h *QuoteHandler) respond(c *gin.Context) func(*quoteapp.QuoteResponse, error) {
	return func(resp *quoteapp.QuoteResponse, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
	}
}
