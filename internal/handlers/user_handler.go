package handlers

import (
	"net/http"
	"strconv"

	"courselab_backend/internal/auth"
	"courselab_backend/internal/middleware"
	"courselab_backend/internal/models"
	"courselab_backend/internal/repositories"
	"courselab_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandler is the admin surface over accounts.
type UserHandler struct {
	*BaseHandler
	userService services.UserService
	authMW      gin.HandlerFunc
}

func NewUserHandler(base *BaseHandler, userService services.UserService, authMW gin.HandlerFunc) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
		authMW:      authMW,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/users")
	admin.Use(h.authMW)
	admin.Use(middleware.RequirePermission(auth.PermAdminUsers))
	{
		admin.GET("", h.ListUsers)
		admin.GET("/:id", h.GetUser)
		admin.PATCH("/:id/active", h.SetUserActive)
	}
}

// ListUsers godoc
// @Summary List accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Param active query bool false "Filter by active flag"
// @Param search query string false "Substring match on name or email"
// @Param page query int false "Page number, 1-based"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := repositories.UserFilter{
		Role:   models.UserRole(c.Query("role")),
		Search: c.Query("search"),
	}
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, total, err := h.userService.ListUsers(filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  filter.Page,
	})
}

// GetUser godoc
// @Summary One account by id
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// SetUserActive godoc
// @Summary Deactivate or restore an account
// @Description Soft delete; the payment ledger keeps referencing the account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body setActiveRequest true "Desired state"
// @Success 200 {object} map[string]string
// @Router /admin/users/{id}/active [patch]
func (h *UserHandler) SetUserActive(c *gin.Context) {
	var req setActiveRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.userService.SetActive(c.Param("id"), *req.Active); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User status updated"})
}
