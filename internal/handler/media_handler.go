package handler

import (
	"net/http"

	"github.com/agyouthrise/rise-backend/internal/common"
	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// MediaHandler handles bare image uploads for the authoring UI
type MediaHandler struct {
	service service.ContentService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(service service.ContentService) *MediaHandler {
	return &MediaHandler{service: service}
}

// UploadImage handles POST /api/v1/admin/media/images
// @Summary 이미지 업로드
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 201 {object} common.APIResponse{data=domain.UploadResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Failure 502 {object} common.APIResponse
// @Router /admin/media/images [post]
func (h *MediaHandler) UploadImage(c *gin.Context) {
	image, closeImage, err := imageFromForm(c, "file")
	if err != nil {
		common.FailResponse(c, "Image upload failed", err)
		return
	}
	defer closeImage()
	if image == nil {
		common.ErrorResponse(c, http.StatusBadRequest, "File is required", common.Invalid("file is required"))
		return
	}

	url, err := h.service.UploadImage(c.Request.Context(), image)
	if err != nil {
		common.FailResponse(c, "Image upload failed", err)
		return
	}

	common.NoticeResponse(c, http.StatusCreated, &domain.UploadResponse{URL: url}, "Image uploaded")
}
