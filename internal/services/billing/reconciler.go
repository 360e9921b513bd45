package billing

import (
	"encoding/json"
	"fmt"
	"strings"

	"courselab_backend/internal/apperrors"
	"courselab_backend/internal/email"
	"courselab_backend/internal/logger"
	"courselab_backend/internal/models"
	"courselab_backend/internal/repositories"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/customer"
)

// Reconciler applies verified provider events to the ledger and user
// entitlement state. Delivery is at-least-once: the ledger's unique
// provider id makes replays a no-op, and every examined event must be
// acknowledged so the provider stops retrying.
type Reconciler struct {
	paymentRepo   repositories.PaymentRepository
	userRepo      repositories.UserRepository
	emailProvider email.Provider

	// Replaced in tests; defaults to the Stripe customer lookup.
	lookupCustomerEmail func(customerID string) (string, error)
}

func NewReconciler(
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
) *Reconciler {
	return &Reconciler{
		paymentRepo:   paymentRepo,
		userRepo:      userRepo,
		emailProvider: emailProvider,
		lookupCustomerEmail: func(customerID string) (string, error) {
			c, err := customer.Get(customerID, nil)
			if err != nil {
				return "", err
			}
			return c.Email, nil
		},
	}
}

// ProcessEvent dispatches a verified event. Unhandled event types return
// nil so the handler acknowledges them.
func (r *Reconciler) ProcessEvent(event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return apperrors.NewBadRequestError("Malformed checkout session payload")
		}
		return r.applyCheckoutCompleted(&sess)

	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return apperrors.NewBadRequestError("Malformed subscription payload")
		}
		return r.applySubscriptionChange(&sub)

	default:
		logger.Debug("ignoring webhook event", "type", event.Type)
		return nil
	}
}

// applyCheckoutCompleted inserts the ledger row and applies the entitlement
// transition once. A duplicate provider id means the event was already
// applied, which is success, not an error.
func (r *Reconciler) applyCheckoutCompleted(sess *stripe.CheckoutSession) error {
	if sess.Mode != stripe.CheckoutSessionModePayment || sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil
	}

	userID := sess.Metadata[metaUserID]
	if userID == "" {
		logger.Warn("checkout session missing user metadata", "session_id", sess.ID)
		return nil
	}

	purpose := models.PaymentPurpose(sess.Metadata[metaPurpose])
	packageType := models.PackageType(sess.Metadata[metaPackageType])

	payment := &models.Payment{
		UserID:      userID,
		Amount:      sess.AmountTotal,
		Currency:    string(sess.Currency),
		ProviderID:  sess.ID,
		Purpose:     purpose,
		PackageType: packageType,
		Description: r.description(sess, purpose),
	}

	if err := r.paymentRepo.Create(payment); err != nil {
		if apperrors.Is(err, repositories.ErrDuplicatePayment) {
			logger.Info("webhook replay, payment already recorded", "session_id", sess.ID)
			return nil
		}
		return err
	}

	// The payer gets a receipt once per ledger row; replays bail out above.
	r.sendReceiptEmail(payment)

	switch purpose {
	case models.PaymentPurposePackage:
		return r.userRepo.SetEntitlement(userID, true, packageType)

	case models.PaymentPurposeStaffSeat:
		// A paid seat activates the pre-created beneficiary account. The
		// payer's own entitlement is untouched.
		staffID := sess.Metadata[metaStaffID]
		if staffID == "" {
			logger.Warn("staff seat payment missing beneficiary", "session_id", sess.ID)
			return nil
		}
		return r.userRepo.SetActive(staffID, true)

	default:
		logger.Warn("payment recorded with unknown purpose", "session_id", sess.ID, "purpose", purpose)
		return nil
	}
}

// applySubscriptionChange mirrors the provider-side subscription status
// into the payer's entitlement flag.
func (r *Reconciler) applySubscriptionChange(sub *stripe.Subscription) error {
	if models.PaymentPurpose(sub.Metadata[metaPurpose]) == models.PaymentPurposeStaffSeat {
		// Seat subscriptions never drive the payer's own entitlement.
		return nil
	}

	userID, err := r.resolveSubscriptionUser(sub)
	if err != nil {
		return err
	}
	if userID == "" {
		logger.Warn("could not resolve subscription to a user", "subscription_id", sub.ID)
		return nil
	}

	entitled := models.SubscriptionStatus(sub.Status).Entitled()
	packageType := models.PackageType(sub.Metadata[metaPackageType])

	if err := r.userRepo.SetEntitlement(userID, entitled, packageType); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			logger.Warn("subscription references unknown user", "subscription_id", sub.ID, "user_id", userID)
			return nil
		}
		return err
	}
	return nil
}

func (r *Reconciler) resolveSubscriptionUser(sub *stripe.Subscription) (string, error) {
	if userID := sub.Metadata[metaUserID]; userID != "" {
		return userID, nil
	}

	// Fallback: resolve through the provider customer's email.
	if sub.Customer == nil || sub.Customer.ID == "" {
		return "", nil
	}

	emailAddr, err := r.lookupCustomerEmail(sub.Customer.ID)
	if err != nil {
		return "", fmt.Errorf("lookup provider customer %s: %w", sub.Customer.ID, err)
	}
	if emailAddr == "" {
		return "", nil
	}

	user, err := r.userRepo.FindByEmail(emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.ID, nil
}

func (r *Reconciler) sendReceiptEmail(payment *models.Payment) {
	if r.emailProvider == nil {
		return
	}

	go func() {
		user, err := r.userRepo.FindByID(payment.UserID)
		if err != nil {
			logger.Error("failed to resolve payer for receipt email", "error", err, "user_id", payment.UserID)
			return
		}

		data := email.TemplateData{
			"Name":        user.Name,
			"Description": payment.Description,
			"Amount":      fmt.Sprintf("%.2f", float64(payment.Amount)/100),
			"Currency":    strings.ToUpper(payment.Currency),
		}
		if err := r.emailProvider.SendTemplate([]string{user.Email}, "Your payment receipt", email.TemplatePaymentReceipt, data); err != nil {
			logger.Error("failed to send receipt email", "error", err, "user_id", user.ID)
		}
	}()
}

func (r *Reconciler) description(sess *stripe.CheckoutSession, purpose models.PaymentPurpose) string {
	if desc := sess.Metadata[metaDescription]; desc != "" {
		return desc
	}
	return fmt.Sprintf("Payment (%s)", purpose)
}
