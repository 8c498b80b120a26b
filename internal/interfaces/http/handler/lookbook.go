package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	applookbook "github.com/storefront/backend/internal/application/lookbook"
	"github.com/storefront/backend/internal/interfaces/function"
)

// LookbookHandler handles lookbook endpoints, including the save-lookbook
// function route
type LookbookHandler struct {
	BaseHandler
	lookbookService *applookbook.Service
}

// NewLookbookHandler creates a new LookbookHandler
func NewLookbookHandler(lookbookService *applookbook.Service) *LookbookHandler {
	return &LookbookHandler{
		lookbookService: lookbookService,
	}
}

// ListActive godoc
// @Summary      List active lookbooks
// @Tags         lookbooks
// @Produce      json
// @Success      200 {object} dto.Response{data=[]applookbook.LookbookResponse}
// @Router       /lookbooks [get]
func (h *LookbookHandler) ListActive(c *gin.Context) {
	looks, err := h.lookbookService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, looks)
}

// GetBySlug godoc
// @Summary      Get lookbook by slug
// @Description  An active lookbook with its hotspots and tagged products
// @Tags         lookbooks
// @Produce      json
// @Param        slug path string true "Lookbook slug"
// @Success      200 {object} dto.Response{data=applookbook.LookbookDetailResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /lookbooks/{slug} [get]
func (h *LookbookHandler) GetBySlug(c *gin.Context) {
	look, err := h.lookbookService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, look)
}

// AdminList godoc
// @Summary      List all lookbooks (admin)
// @Tags         admin-lookbooks
// @Produce      json
// @Success      200 {object} dto.Response{data=[]applookbook.LookbookResponse}
// @Security     BearerAuth
// @Router       /admin/lookbooks [get]
func (h *LookbookHandler) AdminList(c *gin.Context) {
	looks, err := h.lookbookService.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, looks)
}

// GetByID godoc
// @Summary      Get lookbook by ID (admin)
// @Tags         admin-lookbooks
// @Produce      json
// @Param        id path string true "Lookbook ID" format(uuid)
// @Success      200 {object} dto.Response{data=applookbook.LookbookDetailResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/lookbooks/{id} [get]
func (h *LookbookHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	look, err := h.lookbookService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, look)
}

// Save godoc
// @Summary      Create or update a lookbook (admin)
// @Description  Upserts the lookbook and replaces its hotspots in one transaction
// @Tags         admin-lookbooks
// @Accept       json
// @Produce      json
// @Param        request body applookbook.SaveLookbookRequest true "Lookbook and hotspots"
// @Success      200 {object} dto.Response{data=applookbook.SaveLookbookResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/lookbooks [post]
func (h *LookbookHandler) Save(c *gin.Context) {
	var req applookbook.SaveLookbookRequest
	if !h.BindJSON(c, &req) {
		return
	}
	res, err := h.lookbookService.Save(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// SetActive godoc
// @Summary      Show or hide a lookbook
// @Tags         admin-lookbooks
// @Accept       json
// @Param        id      path string                       true "Lookbook ID" format(uuid)
// @Param        request body applookbook.SetActiveRequest true "Visibility"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/lookbooks/{id}/active [patch]
func (h *LookbookHandler) SetActive(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req applookbook.SetActiveRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.lookbookService.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @Summary      Delete a lookbook
// @Tags         admin-lookbooks
// @Param        id path string true "Lookbook ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/lookbooks/{id} [delete]
func (h *LookbookHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.lookbookService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SaveFunction godoc
// @Summary      Save lookbook function
// @Description  Function-style endpoint used by the CMS editor. Answers with a bare
// @Description  {success, lookId} or {error} body instead of the API envelope.
// @Tags         functions
// @Accept       json
// @Produce      json
// @Param        request body applookbook.SaveLookbookRequest true "Lookbook and hotspots"
// @Success      200 {object} function.SuccessBody
// @Failure      400 {object} FunctionErrorResponse
// @Failure      500 {object} FunctionErrorResponse
// @Router       /functions/v1/save-lookbook [post]
func (h *LookbookHandler) SaveFunction(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, function.ErrorBody{Error: "Invalid request body"})
		return
	}
	res := function.SaveLookbook(c.Request.Context(), h.lookbookService, body)
	c.JSON(res.Status, res.Body)
}
