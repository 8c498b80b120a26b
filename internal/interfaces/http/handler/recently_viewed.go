package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appshopper "github.com/storefront/backend/internal/application/shopper"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// RecentlyViewedHandler tracks the products a visitor looked at. Visitors
// are identified by the X-Visitor-ID header the storefront generates.
type RecentlyViewedHandler struct {
	BaseHandler
	service *appshopper.RecentlyViewedService
}

// NewRecentlyViewedHandler creates a new RecentlyViewedHandler
func NewRecentlyViewedHandler(service *appshopper.RecentlyViewedService) *RecentlyViewedHandler {
	return &RecentlyViewedHandler{service: service}
}

// Record godoc
// @Summary      Record a product view
// @Tags         recently-viewed
// @Param        X-Visitor-ID header string true  "Anonymous visitor ID"
// @Param        productId    path   string true  "Product ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /recently-viewed/{productId} [post]
func (h *RecentlyViewedHandler) Record(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "productId")
	if !ok {
		return
	}
	visitorID := c.GetHeader(middleware.VisitorIDHeader)
	if err := h.service.RecordView(c.Request.Context(), visitorID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List godoc
// @Summary      Recently viewed products
// @Description  Up to four products, most recent first
// @Tags         recently-viewed
// @Produce      json
// @Param        X-Visitor-ID header string true  "Anonymous visitor ID"
// @Param        exclude      query  string false "Product to leave out, usually the one on screen" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /recently-viewed [get]
func (h *RecentlyViewedHandler) List(c *gin.Context) {
	var exclude uuid.UUID
	if raw := c.Query("exclude"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid exclude format")
			return
		}
		exclude = id
	}

	products, err := h.service.List(c.Request.Context(), c.GetHeader(middleware.VisitorIDHeader), exclude)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}
