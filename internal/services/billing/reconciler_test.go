package billing

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"courselab_backend/internal/email"
	"courselab_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
)

func checkoutCompletedEvent(t *testing.T, sessionID string, metadata map[string]string) *stripe.Event {
	t.Helper()

	payload := map[string]interface{}{
		"id":             sessionID,
		"mode":           "payment",
		"payment_status": "paid",
		"amount_total":   29900,
		"currency":       "usd",
		"metadata":       metadata,
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	return &stripe.Event{
		ID:   "evt_" + sessionID,
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: raw},
	}
}

func subscriptionEvent(t *testing.T, subID, status string, metadata map[string]string) *stripe.Event {
	t.Helper()

	payload := map[string]interface{}{
		"id":       subID,
		"status":   status,
		"customer": "cus_test",
		"metadata": metadata,
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	return &stripe.Event{
		ID:   "evt_" + subID,
		Type: "customer.subscription.updated",
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestReconcilerPackagePaymentGrantsAccess(t *testing.T) {
	userRepo := newFakeUserRepo()
	paymentRepo := newFakePaymentRepo()
	user := userRepo.add(&models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "buyer@example.com",
		Role:      models.UserRoleUser,
	})

	r := NewReconciler(paymentRepo, userRepo, nil)

	event := checkoutCompletedEvent(t, "cs_100", map[string]string{
		"user_id":      user.ID,
		"purpose":      string(models.PaymentPurposePackage),
		"package_type": string(models.PackageTypeIndividual),
	})
	require.NoError(t, r.ProcessEvent(event))

	assert.Equal(t, 1, paymentRepo.count())
	updated, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasPaid)
	assert.Equal(t, models.PackageTypeIndividual, updated.PackageType)

	payment, err := paymentRepo.FindByProviderID("cs_100")
	require.NoError(t, err)
	assert.Equal(t, user.ID, payment.UserID)
	assert.Equal(t, int64(29900), payment.Amount)
	assert.Equal(t, models.PaymentPurposePackage, payment.Purpose)
}

func TestReconcilerReplayedEventIsNoOp(t *testing.T) {
	userRepo := newFakeUserRepo()
	paymentRepo := newFakePaymentRepo()
	user := userRepo.add(&models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "buyer@example.com",
		Role:      models.UserRoleUser,
	})

	r := NewReconciler(paymentRepo, userRepo, nil)

	event := checkoutCompletedEvent(t, "cs_200", map[string]string{
		"user_id":      user.ID,
		"purpose":      string(models.PaymentPurposePackage),
		"package_type": string(models.PackageTypeIndividual),
	})

	require.NoError(t, r.ProcessEvent(event))
	entitlementsAfterFirst := userRepo.entitlementCalls

	// Redelivery must be acknowledged without touching anything.
	require.NoError(t, r.ProcessEvent(event))

	assert.Equal(t, 1, paymentRepo.count())
	assert.Equal(t, entitlementsAfterFirst, userRepo.entitlementCalls)
}

func TestReconcilerSendsReceiptEmailOnce(t *testing.T) {
	userRepo := newFakeUserRepo()
	paymentRepo := newFakePaymentRepo()
	provider := &fakeEmailProvider{}
	user := userRepo.add(&models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "buyer@example.com",
		Role:      models.UserRoleUser,
	})

	r := NewReconciler(paymentRepo, userRepo, provider)

	event := checkoutCompletedEvent(t, "cs_250", map[string]string{
		"user_id":      user.ID,
		"purpose":      string(models.PaymentPurposePackage),
		"package_type": string(models.PackageTypeIndividual),
	})

	require.NoError(t, r.ProcessEvent(event))
	assert.Eventually(t, func() bool {
		return len(provider.templates()) == 1
	}, time.Second, 10*time.Millisecond, "receipt email not sent")
	assert.Equal(t, []string{email.TemplatePaymentReceipt}, provider.templates())

	// A replay records nothing, so it must not mail a second receipt.
	require.NoError(t, r.ProcessEvent(event))
	assert.Equal(t, 1, len(provider.templates()))
}

func TestReconcilerStaffSeatActivatesBeneficiaryOnly(t *testing.T) {
	userRepo := newFakeUserRepo()
	paymentRepo := newFakePaymentRepo()
	businessID := "biz-1"
	owner := userRepo.add(&models.User{
		BaseModel: models.BaseModel{ID: "owner-1"},
		Email:     "owner@corp.com",
		Role:      models.UserRoleBusinessOwner,
	})
	staff := userRepo.add(&models.User{
		BaseModel:  models.BaseModel{ID: "staff-1"},
		Email:      "staff@corp.com",
		Role:       models.UserRoleUser,
		BusinessID: &businessID,
		IsActive:   false,
	})

	r := NewReconciler(paymentRepo, userRepo, nil)

	event := checkoutCompletedEvent(t, "cs_300", map[string]string{
		"user_id":      owner.ID,
		"purpose":      string(models.PaymentPurposeStaffSeat),
		"package_type": string(models.PackageTypeBusiness),
		"staff_id":     staff.ID,
	})
	require.NoError(t, r.ProcessEvent(event))

	updatedStaff, err := userRepo.FindByID(staff.ID)
	require.NoError(t, err)
	assert.True(t, updatedStaff.IsActive, "paid seat must activate the beneficiary")

	updatedOwner, err := userRepo.FindByID(owner.ID)
	require.NoError(t, err)
	assert.False(t, updatedOwner.HasPaid, "seat payment must not flip the payer's entitlement")

	// Ledger row is recorded under the payer.
	payment, err := paymentRepo.FindByProviderID("cs_300")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, payment.UserID)
}

func TestReconcilerUnpaidSessionIgnored(t *testing.T) {
	userRepo := newFakeUserRepo()
	paymentRepo := newFakePaymentRepo()
	userRepo.add(&models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "buyer@example.com",
	})

	r := NewReconciler(paymentRepo, userRepo, nil)

	payload := map[string]interface{}{
		"id":             "cs_400",
		"mode":           "payment",
		"payment_status": "unpaid",
		"metadata":       map[string]string{"user_id": "user-1"},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	require.NoError(t, r.ProcessEvent(&stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: raw},
	}))
	assert.Equal(t, 0, paymentRepo.count())
}

func TestReconcilerUnknownEventTypeAcknowledged(t *testing.T) {
	r := NewReconciler(newFakePaymentRepo(), newFakeUserRepo(), nil)

	err := r.ProcessEvent(&stripe.Event{
		Type: "invoice.finalized",
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	})
	assert.NoError(t, err)
}

func TestReconcilerSubscriptionStatusDrivesEntitlement(t *testing.T) {
	cases := []struct {
		status   string
		entitled bool
	}{
		{"active", true},
		{"trialing", true},
		{"past_due", true},
		{"canceled", false},
		{"unpaid", false},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			userRepo := newFakeUserRepo()
			paymentRepo := newFakePaymentRepo()
			user := userRepo.add(&models.User{
				BaseModel: models.BaseModel{ID: "user-1"},
				Email:     "buyer@example.com",
				HasPaid:   !tc.entitled, // must be flipped by the event
			})

			r := NewReconciler(paymentRepo, userRepo, nil)

			event := subscriptionEvent(t, fmt.Sprintf("sub_%s", tc.status), tc.status, map[string]string{
				"user_id":      user.ID,
				"purpose":      string(models.PaymentPurposePackage),
				"package_type": string(models.PackageTypeIndividual),
			})
			require.NoError(t, r.ProcessEvent(event))

			updated, err := userRepo.FindByID(user.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.entitled, updated.HasPaid)
		})
	}
}

func TestReconcilerSubscriptionResolvesUserByCustomerEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	paymentRepo := newFakePaymentRepo()
	user := userRepo.add(&models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "fallback@example.com",
	})

	r := NewReconciler(paymentRepo, userRepo, nil)
	r.lookupCustomerEmail = func(customerID string) (string, error) {
		assert.Equal(t, "cus_test", customerID)
		return "fallback@example.com", nil
	}

	// No user_id in metadata, so the customer email fallback must hit.
	event := subscriptionEvent(t, "sub_fallback", "active", map[string]string{
		"package_type": string(models.PackageTypeIndividual),
	})
	require.NoError(t, r.ProcessEvent(event))

	updated, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasPaid)
}

func TestReconcilerStaffSeatSubscriptionIgnored(t *testing.T) {
	userRepo := newFakeUserRepo()
	paymentRepo := newFakePaymentRepo()
	user := userRepo.add(&models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "owner@corp.com",
	})

	r := NewReconciler(paymentRepo, userRepo, nil)

	event := subscriptionEvent(t, "sub_seat", "canceled", map[string]string{
		"user_id": user.ID,
		"purpose": string(models.PaymentPurposeStaffSeat),
	})
	require.NoError(t, r.ProcessEvent(event))

	updated, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, updated.HasPaid)
	assert.Equal(t, 0, userRepo.entitlementCalls)
}
