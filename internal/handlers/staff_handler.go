package handlers

import (
	"net/http"

	"courselab_backend/internal/auth"
	"courselab_backend/internal/middleware"
	"courselab_backend/internal/services"
	"courselab_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	*BaseHandler
	staffService services.StaffService
	authMW       gin.HandlerFunc
}

func NewStaffHandler(base *BaseHandler, staffService services.StaffService, authMW gin.HandlerFunc) *StaffHandler {
	return &StaffHandler{
		BaseHandler:  base,
		staffService: staffService,
		authMW:       authMW,
	}
}

func (h *StaffHandler) RegisterRoutes(rg *gin.RouterGroup) {
	staff := rg.Group("/staff")
	staff.Use(h.authMW)
	staff.Use(middleware.RequirePermission(auth.PermManageStaff))
	{
		staff.POST("", h.CreateStaff)
		staff.GET("", h.ListStaff)
		staff.PATCH("/:id/active", h.SetStaffActive)
		staff.DELETE("/:id", h.RemoveStaff)
	}
}

// CreateStaff godoc
// @Summary Pre-create a staff account
// @Description The account stays inactive until its seat is paid for
// @Tags staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStaffRequest true "Staff name and email"
// @Success 201 {object} dto.StaffResponse
// @Failure 400 {object} apperrors.ErrorResponse "Email outside the business domain"
// @Router /staff [post]
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req dto.CreateStaffRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	staff, err := h.staffService.CreateStaff(middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, staff)
}

// ListStaff godoc
// @Summary List the caller's staff
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.StaffResponse
// @Router /staff [get]
func (h *StaffHandler) ListStaff(c *gin.Context) {
	staff, err := h.staffService.ListStaff(middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, staff)
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// SetStaffActive godoc
// @Summary Enable or disable a staff account
// @Tags staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Staff ID"
// @Param request body setActiveRequest true "Desired state"
// @Success 200 {object} map[string]string
// @Router /staff/{id}/active [patch]
func (h *StaffHandler) SetStaffActive(c *gin.Context) {
	var req setActiveRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.staffService.SetStaffActive(middleware.GetUserID(c), c.Param("id"), *req.Active); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff status updated"})
}

// RemoveStaff godoc
// @Summary Detach a staff member from the business
// @Description The account is deactivated and unlinked, its payment history stays
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Param id path string true "Staff ID"
// @Success 200 {object} map[string]string
// @Router /staff/{id} [delete]
func (h *StaffHandler) RemoveStaff(c *gin.Context) {
	if err := h.staffService.RemoveStaff(middleware.GetUserID(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff member removed"})
}
