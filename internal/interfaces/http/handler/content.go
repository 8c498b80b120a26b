package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcontent "github.com/storefront/backend/internal/application/content"
)

// ContentHandler serves the CMS-managed storefront content: trending
// keywords, USPs, theme configuration, static pages and the homepage
type ContentHandler struct {
	BaseHandler
	contentService  *appcontent.Service
	homepageService *appcontent.HomepageService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService *appcontent.Service, homepageService *appcontent.HomepageService) *ContentHandler {
	return &ContentHandler{
		contentService:  contentService,
		homepageService: homepageService,
	}
}

// Homepage godoc
// @Summary      Homepage payload
// @Description  Featured products, active lookbooks, USPs, trending keywords and the hero block in one response
// @Tags         content
// @Produce      json
// @Success      200 {object} dto.Response{data=appcontent.HomepageResponse}
// @Router       /homepage [get]
func (h *ContentHandler) Homepage(c *gin.Context) {
	page, err := h.homepageService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// ListKeywords godoc
// @Summary      Trending keywords
// @Tags         content
// @Produce      json
// @Param        category_id query string false "Only keywords of this category" format(uuid)
// @Success      200 {object} dto.Response{data=[]appcontent.KeywordResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /trending-keywords [get]
func (h *ContentHandler) ListKeywords(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid category_id format")
			return
		}
		categoryID = &id
	}

	keywords, err := h.contentService.ListKeywords(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, keywords)
}

// CreateKeyword godoc
// @Summary      Add a trending keyword
// @Tags         admin-content
// @Accept       json
// @Produce      json
// @Param        request body appcontent.CreateKeywordRequest true "Keyword"
// @Success      201 {object} dto.Response{data=appcontent.KeywordResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/trending-keywords [post]
func (h *ContentHandler) CreateKeyword(c *gin.Context) {
	var req appcontent.CreateKeywordRequest
	if !h.BindJSON(c, &req) {
		return
	}
	keyword, err := h.contentService.CreateKeyword(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, keyword)
}

// DeleteKeyword godoc
// @Summary      Remove a trending keyword
// @Tags         admin-content
// @Param        id path string true "Keyword ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/trending-keywords/{id} [delete]
func (h *ContentHandler) DeleteKeyword(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.contentService.DeleteKeyword(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListUSPs godoc
// @Summary      Unique selling points
// @Tags         content
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appcontent.USPResponse}
// @Router       /usps [get]
func (h *ContentHandler) ListUSPs(c *gin.Context) {
	usps, err := h.contentService.ListUSPs(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, usps)
}

// CreateUSP godoc
// @Summary      Add a USP
// @Tags         admin-content
// @Accept       json
// @Produce      json
// @Param        request body appcontent.CreateUSPRequest true "USP"
// @Success      201 {object} dto.Response{data=appcontent.USPResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/usps [post]
func (h *ContentHandler) CreateUSP(c *gin.Context) {
	var req appcontent.CreateUSPRequest
	if !h.BindJSON(c, &req) {
		return
	}
	usp, err := h.contentService.CreateUSP(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, usp)
}

// UpdateUSP godoc
// @Summary      Update a USP
// @Tags         admin-content
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "USP ID" format(uuid)
// @Param        request body appcontent.UpdateUSPRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=appcontent.USPResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/usps/{id} [put]
func (h *ContentHandler) UpdateUSP(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appcontent.UpdateUSPRequest
	if !h.BindJSON(c, &req) {
		return
	}
	usp, err := h.contentService.UpdateUSP(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, usp)
}

// DeleteUSP godoc
// @Summary      Delete a USP
// @Tags         admin-content
// @Param        id path string true "USP ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /admin/usps/{id} [delete]
func (h *ContentHandler) DeleteUSP(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.contentService.DeleteUSP(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListThemeConfig godoc
// @Summary      Theme configuration
// @Tags         content
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appcontent.ThemeConfigResponse}
// @Router       /theme-config [get]
func (h *ContentHandler) ListThemeConfig(c *gin.Context) {
	entries, err := h.contentService.ListThemeConfig(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// GetThemeConfig godoc
// @Summary      One theme configuration entry
// @Tags         content
// @Produce      json
// @Param        key path string true "Config key"
// @Success      200 {object} dto.Response{data=appcontent.ThemeConfigResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /theme-config/{key} [get]
func (h *ContentHandler) GetThemeConfig(c *gin.Context) {
	entry, err := h.contentService.GetThemeConfig(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// UpsertThemeConfig godoc
// @Summary      Set a theme configuration entry
// @Tags         admin-content
// @Accept       json
// @Produce      json
// @Param        key     path string                              true "Config key"
// @Param        request body appcontent.UpsertThemeConfigRequest true "JSON value"
// @Success      200 {object} dto.Response{data=appcontent.ThemeConfigResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/theme-config/{key} [put]
func (h *ContentHandler) UpsertThemeConfig(c *gin.Context) {
	var req appcontent.UpsertThemeConfigRequest
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.contentService.UpsertThemeConfig(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// GetPage godoc
// @Summary      Published site page
// @Tags         content
// @Produce      json
// @Param        slug path string true "Page slug"
// @Success      200 {object} dto.Response{data=appcontent.PageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pages/{slug} [get]
func (h *ContentHandler) GetPage(c *gin.Context) {
	page, err := h.contentService.GetPublishedPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// ListPages godoc
// @Summary      All site pages, drafts included
// @Tags         admin-content
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appcontent.PageResponse}
// @Security     BearerAuth
// @Router       /admin/pages [get]
func (h *ContentHandler) ListPages(c *gin.Context) {
	pages, err := h.contentService.ListPages(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pages)
}

// CreatePage godoc
// @Summary      Create a site page
// @Tags         admin-content
// @Accept       json
// @Produce      json
// @Param        request body appcontent.SavePageRequest true "Page"
// @Success      201 {object} dto.Response{data=appcontent.PageResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/pages [post]
func (h *ContentHandler) CreatePage(c *gin.Context) {
	var req appcontent.SavePageRequest
	if !h.BindJSON(c, &req) {
		return
	}
	page, err := h.contentService.SavePage(c.Request.Context(), nil, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, page)
}

// UpdatePage godoc
// @Summary      Replace a site page
// @Tags         admin-content
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Page ID" format(uuid)
// @Param        request body appcontent.SavePageRequest true "Page"
// @Success      200 {object} dto.Response{data=appcontent.PageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/pages/{id} [put]
func (h *ContentHandler) UpdatePage(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appcontent.SavePageRequest
	if !h.BindJSON(c, &req) {
		return
	}
	page, err := h.contentService.SavePage(c.Request.Context(), &id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// DeletePage godoc
// @Summary      Delete a site page
// @Tags         admin-content
// @Param        id path string true "Page ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /admin/pages/{id} [delete]
func (h *ContentHandler) DeletePage(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.contentService.DeletePage(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
