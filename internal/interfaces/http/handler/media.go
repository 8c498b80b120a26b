package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appmedia "github.com/storefront/backend/internal/application/media"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// MediaHandler handles CMS image uploads
type MediaHandler struct {
	BaseHandler
	uploadService *appmedia.ImageUploadService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(uploadService *appmedia.ImageUploadService) *MediaHandler {
	return &MediaHandler{uploadService: uploadService}
}

// DeleteImageRequest identifies an uploaded image by its public URL
type DeleteImageRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// Upload godoc
// @Summary      Upload an image
// @Description  Stores a JPEG, PNG, WebP or GIF image and returns its public URL
// @Tags         admin-media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData file   true  "Image file"
// @Param        bucket formData string false "Target bucket" default(images)
// @Success      201 {object} dto.Response{data=appmedia.UploadResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      415 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/uploads [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeFileTooLarge, "File exceeds the maximum upload size")
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationRequired, "file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	result, err := h.uploadService.Upload(c.Request.Context(), appmedia.UploadRequest{
		Bucket:      c.PostForm("bucket"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Delete godoc
// @Summary      Delete an uploaded image
// @Tags         admin-media
// @Accept       json
// @Param        request body DeleteImageRequest true "Image URL"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/uploads [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	var req DeleteImageRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.uploadService.Delete(c.Request.Context(), req.URL); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ObjectReader reads objects back from the in-memory storage backend
type ObjectReader interface {
	Get(bucket, key string) (storage.StoredObject, error)
}

// ServeObject serves objects of the in-memory storage backend under
// /storage/:bucket/*key so that development uploads resolve.
func ServeObject(objects ObjectReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		obj, err := objects.Get(c.Param("bucket"), key)
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Header("Cache-Control", "public, max-age=31536000, immutable")
		c.Data(http.StatusOK, obj.ContentType, obj.Data)
	}
}
