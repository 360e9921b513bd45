package handlers

import (
	"io"
	"net/http"

	"courselab_backend/internal/apperrors"
	"courselab_backend/internal/logger"
	"courselab_backend/internal/middleware"
	"courselab_backend/internal/services/billing"
	"courselab_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79/webhook"
)

// maxWebhookBody caps the webhook payload read. Stripe events are small,
// anything bigger is not ours.
const maxWebhookBody = 64 << 10

type BillingHandler struct {
	*BaseHandler
	checkoutService billing.CheckoutService
	accessService   billing.AccessService
	reconciler      *billing.Reconciler
	webhookSecret   string
	authMW          gin.HandlerFunc
}

func NewBillingHandler(
	base *BaseHandler,
	checkoutService billing.CheckoutService,
	accessService billing.AccessService,
	reconciler *billing.Reconciler,
	webhookSecret string,
	authMW gin.HandlerFunc,
) *BillingHandler {
	return &BillingHandler{
		BaseHandler:     base,
		checkoutService: checkoutService,
		accessService:   accessService,
		reconciler:      reconciler,
		webhookSecret:   webhookSecret,
		authMW:          authMW,
	}
}

func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// The webhook is called by the payment provider, not by a logged-in
	// user. It authenticates with the signature header instead.
	rg.POST("/billing/webhook", h.Webhook)

	bill := rg.Group("/billing")
	bill.Use(h.authMW)
	{
		bill.POST("/checkout/package", h.CreatePackageCheckout)
		bill.POST("/checkout/staff-seat", h.CreateStaffSeatCheckout)
		bill.GET("/access", h.GetAccess)
		bill.GET("/payments", h.ListPayments)
	}
}

// CreatePackageCheckout godoc
// @Summary Start a package purchase
// @Description Opens a hosted payment session and returns the redirect URL
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PackageCheckoutRequest true "Package to buy"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} apperrors.ErrorResponse "Unknown package type"
// @Failure 403 {object} apperrors.ErrorResponse "Role cannot buy this package"
// @Router /billing/checkout/package [post]
func (h *BillingHandler) CreatePackageCheckout(c *gin.Context) {
	var req dto.PackageCheckoutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.CreatePackageCheckout(middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateStaffSeatCheckout godoc
// @Summary Start a staff seat purchase
// @Description Business owners pay for one staff member's seat; the seat activates on the payment webhook
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StaffSeatCheckoutRequest true "Staff member to pay for"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 403 {object} apperrors.ErrorResponse "Caller is not a business owner"
// @Router /billing/checkout/staff-seat [post]
func (h *BillingHandler) CreateStaffSeatCheckout(c *gin.Context) {
	var req dto.StaffSeatCheckoutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.CreateStaffSeatCheckout(middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAccess godoc
// @Summary Evaluate the caller's access
// @Description Answers from the payment ledger, not from the session claims
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AccessResponse
// @Router /billing/access [get]
func (h *BillingHandler) GetAccess(c *gin.Context) {
	resp, err := h.accessService.Evaluate(middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListPayments godoc
// @Summary Payment history of the caller
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PaymentResponse
// @Router /billing/payments [get]
func (h *BillingHandler) ListPayments(c *gin.Context) {
	payments, err := h.accessService.History(middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// Webhook godoc
// @Summary Payment provider event sink
// @Description Verifies the signature, applies the event and acknowledges. Events the service does not care about are acknowledged untouched.
// @Tags billing
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Event signature"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} apperrors.ErrorResponse "Signature verification failed"
// @Failure 500 {object} apperrors.ErrorResponse "Event could not be applied, provider should retry"
// @Router /billing/webhook [post]
func (h *BillingHandler) Webhook(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		logger.CtxWithError(ctx, "failed to read webhook body", err)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unreadable webhook body"))
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		logger.CtxWarn(ctx, "webhook signature rejected", "error", err.Error())
		apperrors.HandleError(c, apperrors.ErrWebhookSignature)
		return
	}

	if err := h.reconciler.ProcessEvent(&event); err != nil {
		// A non-2xx answer makes the provider redeliver; the unique
		// constraint on the ledger keeps the retry harmless.
		logger.CtxWithError(ctx, "failed to apply webhook event", err,
			"event_id", event.ID,
			"event_type", string(event.Type),
		)
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
