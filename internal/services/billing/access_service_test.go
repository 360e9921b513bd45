package billing

import (
	"testing"

	"courselab_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateNoPayments(t *testing.T) {
	svc := NewAccessService(newFakePaymentRepo())

	resp, err := svc.Evaluate("user-1")
	require.NoError(t, err)
	assert.False(t, resp.HasAccess)
	assert.Nil(t, resp.PackageType)
	assert.Nil(t, resp.LatestPayment)
}

func TestEvaluatePackagePurchase(t *testing.T) {
	paymentRepo := newFakePaymentRepo()
	require.NoError(t, paymentRepo.Create(&models.Payment{
		BaseModel:   models.BaseModel{ID: "pay-1"},
		UserID:      "user-1",
		Amount:      29900,
		Currency:    "usd",
		ProviderID:  "cs_1",
		Purpose:     models.PaymentPurposePackage,
		PackageType: models.PackageTypeIndividual,
	}))

	svc := NewAccessService(paymentRepo)

	resp, err := svc.Evaluate("user-1")
	require.NoError(t, err)
	assert.True(t, resp.HasAccess)
	require.NotNil(t, resp.PackageType)
	assert.Equal(t, string(models.PackageTypeIndividual), *resp.PackageType)
	require.NotNil(t, resp.LatestPayment)
	assert.Equal(t, "pay-1", resp.LatestPayment.ID)
}

func TestEvaluateLatestPackageRowWins(t *testing.T) {
	paymentRepo := newFakePaymentRepo()
	require.NoError(t, paymentRepo.Create(&models.Payment{
		UserID:      "user-1",
		ProviderID:  "cs_1",
		Purpose:     models.PaymentPurposePackage,
		PackageType: models.PackageTypeIndividual,
	}))
	require.NoError(t, paymentRepo.Create(&models.Payment{
		UserID:      "user-1",
		ProviderID:  "cs_2",
		Purpose:     models.PaymentPurposePackage,
		PackageType: models.PackageTypeBusiness,
	}))

	svc := NewAccessService(paymentRepo)

	resp, err := svc.Evaluate("user-1")
	require.NoError(t, err)
	require.NotNil(t, resp.PackageType)
	assert.Equal(t, string(models.PackageTypeBusiness), *resp.PackageType)
}

func TestEvaluateLegacyRowWithoutPackageType(t *testing.T) {
	paymentRepo := newFakePaymentRepo()
	require.NoError(t, paymentRepo.Create(&models.Payment{
		UserID:     "user-1",
		ProviderID: "cs_old",
		Purpose:    models.PaymentPurposePackage,
	}))

	svc := NewAccessService(paymentRepo)

	resp, err := svc.Evaluate("user-1")
	require.NoError(t, err)
	assert.True(t, resp.HasAccess)
	require.NotNil(t, resp.PackageType)
	assert.Equal(t, string(models.PackageTypeIndividual), *resp.PackageType)
}

func TestEvaluateStaffSeatGrantsBusinessAccess(t *testing.T) {
	paymentRepo := newFakePaymentRepo()
	require.NoError(t, paymentRepo.Create(&models.Payment{
		UserID:     "staff-1",
		ProviderID: "cs_seat",
		Purpose:    models.PaymentPurposeStaffSeat,
	}))

	svc := NewAccessService(paymentRepo)

	resp, err := svc.Evaluate("staff-1")
	require.NoError(t, err)
	assert.True(t, resp.HasAccess)
	require.NotNil(t, resp.PackageType)
	assert.Equal(t, string(models.PackageTypeBusiness), *resp.PackageType)
}

func TestHistory(t *testing.T) {
	paymentRepo := newFakePaymentRepo()
	require.NoError(t, paymentRepo.Create(&models.Payment{
		BaseModel:  models.BaseModel{ID: "pay-1"},
		UserID:     "user-1",
		ProviderID: "cs_1",
		Purpose:    models.PaymentPurposePackage,
	}))
	require.NoError(t, paymentRepo.Create(&models.Payment{
		BaseModel:  models.BaseModel{ID: "pay-2"},
		UserID:     "user-2",
		ProviderID: "cs_2",
		Purpose:    models.PaymentPurposePackage,
	}))

	svc := NewAccessService(paymentRepo)

	history, err := svc.History("user-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "pay-1", history[0].ID)
}
