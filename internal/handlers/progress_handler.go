package handlers

import (
	"net/http"

	"courselab_backend/internal/middleware"
	"courselab_backend/internal/services"
	"courselab_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	*BaseHandler
	progressService services.ProgressService
	authMW          gin.HandlerFunc
}

func NewProgressHandler(base *BaseHandler, progressService services.ProgressService, authMW gin.HandlerFunc) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     base,
		progressService: progressService,
		authMW:          authMW,
	}
}

func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	progress := rg.Group("/progress")
	progress.Use(h.authMW)
	{
		progress.GET("", h.ListProgress)
		progress.GET("/:courseID", h.GetProgress)
		progress.PUT("", h.UpdateProgress)
	}
}

// ListProgress godoc
// @Summary Progress across all courses the caller has touched
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ProgressResponse
// @Router /progress [get]
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	items, err := h.progressService.ListProgress(middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetProgress godoc
// @Summary Progress in one course
// @Description Courses never started answer with an all-zero record
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseID path string true "Course ID"
// @Success 200 {object} dto.ProgressResponse
// @Router /progress/{courseID} [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	item, err := h.progressService.GetProgress(middleware.GetUserID(c), c.Param("courseID"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateProgress godoc
// @Summary Record course progress
// @Description Mode append unions module ids, overwrite replaces them, position only moves the playhead
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProgressUpdateRequest true "Progress update"
// @Success 200 {object} dto.ProgressResponse
// @Router /progress [put]
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	var req dto.ProgressUpdateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	item, err := h.progressService.UpdateProgress(middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
