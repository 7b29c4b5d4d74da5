package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/agyouthrise/rise-backend/internal/common"
	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/middleware"
	"github.com/agyouthrise/rise-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// Authoring notices shown by the admin UI
const (
	noticePostCreated    = "Blog post created successfully!"
	noticePostFailed     = "Failed to create blog post"
	noticeEpisodeCreated = "Podcast added successfully!"
	noticeEpisodeFailed  = "Failed to add podcast"
	noticeGalleryCreated = "Image added to gallery!"
	noticeGalleryFailed  = "Failed to add to gallery"
	noticeDeleted        = "Item deleted successfully"
	noticeDeleteFailed   = "Failed to delete item"
)

// ContentHandler public read views and admin authoring for the three collections
type ContentHandler struct {
	service service.ContentService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(service service.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

func kindParam(c *gin.Context) (domain.Kind, bool) {
	kind, ok := domain.ParseKind(c.Param("kind"))
	if !ok {
		common.ErrorResponse(c, http.StatusNotFound, "Unknown collection", common.ErrNotFound)
	}
	return kind, ok
}

// List handles GET /api/v1/:kind
// @Summary 컬렉션 목록
// @Description Newest-first read view. Podcasts carry episodeNumber.
// @Tags content
// @Produce json
// @Param kind path string true "Collection" Enums(blogs, podcasts, gallery)
// @Param q query string false "제목/본문 검색"
// @Param category query string false "Gallery category" Enums(event, training, community, general)
// @Param limit query int false "최대 개수 (0 = 전체)"
// @Success 200 {object} common.APIResponse{data=[]domain.Post,meta=common.Meta}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /{kind} [get]
func (h *ContentHandler) List(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	q := service.ListQuery{
		Search:   strings.TrimSpace(c.Query("q")),
		Category: domain.Category(strings.ToLower(c.Query("category"))),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid limit", common.Invalid("limit must be a non-negative integer"))
			return
		}
		q.Limit = limit
	}

	result, err := h.service.List(c.Request.Context(), kind, q)
	if err != nil {
		common.FailResponse(c, "Failed to load content", err)
		return
	}

	common.SuccessResponse(c, result.Items, &common.Meta{
		Collection: kind.String(),
		Total:      result.Total,
		Degraded:   result.Degraded,
		Cached:     result.Cached,
	})
}

// Categories handles GET /api/v1/:kind/categories
// @Summary 카테고리 목록
// @Tags content
// @Produce json
// @Param kind path string true "Collection" Enums(blogs, podcasts, gallery)
// @Success 200 {object} common.APIResponse{data=[]string}
// @Failure 404 {object} common.APIResponse
// @Router /{kind}/categories [get]
func (h *ContentHandler) Categories(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	categories, err := h.service.Categories(c.Request.Context(), kind)
	if err != nil {
		common.FailResponse(c, "Failed to load categories", err)
		return
	}
	common.SuccessResponse(c, categories, &common.Meta{Collection: kind.String(), Total: len(categories)})
}

// CreatePost handles POST /api/v1/admin/blogs (multipart: title, content, image)
// @Summary 블로그 글 작성
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "제목"
// @Param content formData string false "본문"
// @Param imageUrl formData string false "Pre-uploaded image URL"
// @Param image formData file false "대표 이미지"
// @Success 201 {object} common.APIResponse{data=domain.CreatedResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 502 {object} common.APIResponse
// @Router /admin/blogs [post]
func (h *ContentHandler) CreatePost(c *gin.Context) {
	var req domain.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, noticePostFailed, err)
		return
	}

	image, closeImage, err := imageFromForm(c, "image")
	if err != nil {
		common.FailResponse(c, noticePostFailed, err)
		return
	}
	defer closeImage()

	created, err := h.service.CreatePost(c.Request.Context(), &req, image)
	if err != nil {
		h.logFailure(c, domain.KindPosts, err)
		common.FailResponse(c, noticePostFailed, err)
		return
	}
	common.NoticeResponse(c, http.StatusCreated, created, noticePostCreated)
}

// CreateEpisode handles POST /api/v1/admin/podcasts
// @Summary 팟캐스트 에피소드 등록
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateEpisodeRequest true "Episode"
// @Success 201 {object} common.APIResponse{data=domain.CreatedResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Router /admin/podcasts [post]
func (h *ContentHandler) CreateEpisode(c *gin.Context) {
	var req domain.CreateEpisodeRequest
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, noticeEpisodeFailed, err)
		return
	}

	created, err := h.service.CreateEpisode(c.Request.Context(), &req)
	if err != nil {
		h.logFailure(c, domain.KindEpisodes, err)
		common.FailResponse(c, noticeEpisodeFailed, err)
		return
	}
	common.NoticeResponse(c, http.StatusCreated, created, noticeEpisodeCreated)
}

// CreateGalleryItem handles POST /api/v1/admin/gallery (multipart: title, description, category, image)
// @Summary 갤러리 항목 등록
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "제목"
// @Param description formData string false "설명"
// @Param category formData string true "Category" Enums(event, training, community, general)
// @Param imageUrl formData string false "Pre-uploaded image URL"
// @Param image formData file false "이미지"
// @Success 201 {object} common.APIResponse{data=domain.CreatedResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 502 {object} common.APIResponse
// @Router /admin/gallery [post]
func (h *ContentHandler) CreateGalleryItem(c *gin.Context) {
	var req domain.CreateGalleryRequest
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, noticeGalleryFailed, err)
		return
	}

	image, closeImage, err := imageFromForm(c, "image")
	if err != nil {
		common.FailResponse(c, noticeGalleryFailed, err)
		return
	}
	defer closeImage()

	created, err := h.service.CreateGalleryItem(c.Request.Context(), &req, image)
	if err != nil {
		h.logFailure(c, domain.KindGallery, err)
		common.FailResponse(c, noticeGalleryFailed, err)
		return
	}
	common.NoticeResponse(c, http.StatusCreated, created, noticeGalleryCreated)
}

// Delete handles DELETE /api/v1/admin/:kind/:id
// @Summary 항목 삭제
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Collection" Enums(blogs, podcasts, gallery)
// @Param id path string true "Document ID"
// @Success 200 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /admin/{kind}/{id} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), kind, c.Param("id")); err != nil {
		h.logFailure(c, kind, err)
		common.FailResponse(c, noticeDeleteFailed, err)
		return
	}
	common.NoticeResponse(c, http.StatusOK, gin.H{"id": c.Param("id")}, noticeDeleted)
}

func (h *ContentHandler) logFailure(c *gin.Context, kind domain.Kind, err error) {
	log := middleware.RequestLog(c)
	event := log.Warn()
	if common.HTTPStatus(err) >= http.StatusInternalServerError {
		event = log.Error()
	}
	if c.Param("kind") == "" {
		event = event.Str("collection", kind.String())
	}
	event.Err(err).
		Str("admin", middleware.GetUserID(c)).
		Msg("authoring request failed")
}

// imageFromForm returns the optional image part; a missing part is not an error.
// The returned close func is always safe to call.
func imageFromForm(c *gin.Context, field string) (*service.ImageUpload, func(), error) {
	noop := func() {}

	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, common.Invalid("read %s: %v", field, err)
	}

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, noop, common.Invalid("%s must be an image, got %s", field, ct)
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, common.Invalid("open %s: %v", field, err)
	}
	closeFile := func() {
		file.Close() //nolint:errcheck
	}
	return &service.ImageUpload{Filename: header.Filename, Body: file}, closeFile, nil
}
