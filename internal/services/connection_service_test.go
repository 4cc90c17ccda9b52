package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixrx_backend/internal/models"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/pkg/apperrors"
)

func testConsumer() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: "consumer-1"},
		Email:     "consumer@example.com",
		Name:      "Alice",
		Role:      models.UserRoleConsumer,
		Status:    models.UserStatusActive,
	}
}

func testVendor() *models.User {
	return &models.User{
		BaseModel:    models.BaseModel{ID: "vendor-1"},
		Email:        "vendor@example.com",
		Name:         "Bob",
		BusinessName: "Bob's Plumbing",
		Role:         models.UserRoleVendor,
		Status:       models.UserStatusActive,
	}
}

func newConnectionFixture(requests ...*models.ConnectionRequest) (ConnectionService, *fakeConnectionRepo) {
	connectionRepo := newFakeConnectionRepo(requests...)
	userRepo := newFakeUserRepo(testConsumer(), testVendor())
	svc := NewConnectionService(connectionRepo, userRepo, newFakeServiceRepo(), fakeNotifier{}, NewNoopPublisher())
	return svc, connectionRepo
}

func appCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestCreateRequestDefaults(t *testing.T) {
	svc, _ := newConnectionFixture()

	resp, err := svc.CreateRequest(nil, "consumer-1", &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "Need the kitchen sink fixed this week",
	})
	require.NoError(t, err)

	assert.Equal(t, string(models.RequestStatusPending), resp.Status)
	assert.Equal(t, string(models.UrgencyMedium), resp.Urgency)
	assert.Equal(t, "consumer-1", resp.ConsumerID)
	assert.Equal(t, "vendor-1", resp.VendorID)
	assert.Nil(t, resp.RespondedAt)
}

func TestCreateRequestOnlyConsumers(t *testing.T) {
	svc, _ := newConnectionFixture()

	_, err := svc.CreateRequest(nil, "vendor-1", &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "Vendors cannot open requests",
	})
	assert.Equal(t, apperrors.CodeForbidden, appCode(t, err))
}

func TestCreateRequestBudgetOrder(t *testing.T) {
	svc, _ := newConnectionFixture()

	min, max := 500.0, 100.0
	_, err := svc.CreateRequest(nil, "consumer-1", &dto.CreateConnectionRequest{
		VendorID:  "vendor-1",
		Message:   "Budget bounds are inverted here",
		BudgetMin: &min,
		BudgetMax: &max,
	})
	assert.Equal(t, apperrors.CodeValidationError, appCode(t, err))
}

func TestCreateRequestDuplicate(t *testing.T) {
	svc, _ := newConnectionFixture()

	req := &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "First request goes through fine",
	}
	_, err := svc.CreateRequest(nil, "consumer-1", req)
	require.NoError(t, err)

	_, err = svc.CreateRequest(nil, "consumer-1", req)
	assert.Equal(t, apperrors.CodeDuplicateRequest, appCode(t, err))
}

func TestCreateRequestAfterCancelAllowed(t *testing.T) {
	svc, repo := newConnectionFixture()

	first, err := svc.CreateRequest(nil, "consumer-1", &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "Request that will be cancelled",
	})
	require.NoError(t, err)

	_, err = svc.CancelRequest(nil, first.ID, "consumer-1")
	require.NoError(t, err)

	// Cancellation frees the (consumer, vendor, service) slot.
	second, err := svc.CreateRequest(nil, "consumer-1", &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "Second attempt after cancelling",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	stored, err := repo.FindByID(nil, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, stored.Status)
}

func TestRespondToRequestAccept(t *testing.T) {
	svc, _ := newConnectionFixture()

	created, err := svc.CreateRequest(nil, "consumer-1", &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "Please accept this request",
	})
	require.NoError(t, err)

	resp, err := svc.RespondToRequest(nil, created.ID, "vendor-1", models.RequestStatusAccepted)
	require.NoError(t, err)

	assert.Equal(t, string(models.RequestStatusAccepted), resp.Status)
	assert.NotNil(t, resp.RespondedAt)
}

func TestRespondToRequestInvalidDecision(t *testing.T) {
	svc, _ := newConnectionFixture()

	_, err := svc.RespondToRequest(nil, "req-1", "vendor-1", models.RequestStatusCancelled)
	assert.Equal(t, apperrors.CodeValidationError, appCode(t, err))
}

func TestRespondToRequestAlreadyTerminal(t *testing.T) {
	svc, _ := newConnectionFixture()

	created, err := svc.CreateRequest(nil, "consumer-1", &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "Will be responded to twice",
	})
	require.NoError(t, err)

	_, err = svc.RespondToRequest(nil, created.ID, "vendor-1", models.RequestStatusDeclined)
	require.NoError(t, err)

	// Second decision loses: the request already left PENDING.
	_, err = svc.RespondToRequest(nil, created.ID, "vendor-1", models.RequestStatusAccepted)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidStateTransition, appErr.Code)
	assert.Contains(t, appErr.Message, "DECLINED")
}

func TestRespondToRequestWrongVendor(t *testing.T) {
	svc, _ := newConnectionFixture()

	created, err := svc.CreateRequest(nil, "consumer-1", &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "Addressed to vendor-1 only",
	})
	require.NoError(t, err)

	// A different vendor cannot learn the request exists.
	_, err = svc.RespondToRequest(nil, created.ID, "vendor-2", models.RequestStatusAccepted)
	assert.Equal(t, apperrors.CodeNotFound, appCode(t, err))
}

func TestRespondToRequestConcurrent(t *testing.T) {
	svc, repo := newConnectionFixture()

	created, err := svc.CreateRequest(nil, "consumer-1", &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "Two decisions race on this one",
	})
	require.NoError(t, err)

	decisions := []models.RequestStatus{models.RequestStatusAccepted, models.RequestStatusDeclined}
	errs := make([]error, len(decisions))
	var wg sync.WaitGroup
	for i, decision := range decisions {
		wg.Add(1)
		go func(i int, decision models.RequestStatus) {
			defer wg.Done()
			_, errs[i] = svc.RespondToRequest(nil, created.ID, "vendor-1", decision)
		}(i, decision)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		lost++
		assert.Equal(t, apperrors.CodeInvalidStateTransition, appCode(t, err))
	}
	assert.Equal(t, 1, won, "exactly one decision must land")
	assert.Equal(t, 1, lost)

	stored, err := repo.FindByID(nil, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Status.IsTerminal())
}

func TestCancelRequest(t *testing.T) {
	svc, _ := newConnectionFixture()

	created, err := svc.CreateRequest(nil, "consumer-1", &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "Cancelled before any decision",
	})
	require.NoError(t, err)

	resp, err := svc.CancelRequest(nil, created.ID, "consumer-1")
	require.NoError(t, err)
	assert.Equal(t, string(models.RequestStatusCancelled), resp.Status)

	// Cancelling again is an invalid transition, not idempotent.
	_, err = svc.CancelRequest(nil, created.ID, "consumer-1")
	assert.Equal(t, apperrors.CodeInvalidStateTransition, appCode(t, err))
}

func TestGetRequestVisibility(t *testing.T) {
	svc, _ := newConnectionFixture()

	created, err := svc.CreateRequest(nil, "consumer-1", &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "Visible to its two parties only",
	})
	require.NoError(t, err)

	_, err = svc.GetRequest(nil, created.ID, "consumer-1")
	assert.NoError(t, err)

	_, err = svc.GetRequest(nil, created.ID, "vendor-1")
	assert.NoError(t, err)

	_, err = svc.GetRequest(nil, created.ID, "stranger-1")
	assert.Equal(t, apperrors.CodeNotFound, appCode(t, err))
}

func TestListForUser(t *testing.T) {
	svc, _ := newConnectionFixture()

	_, err := svc.CreateRequest(nil, "consumer-1", &dto.CreateConnectionRequest{
		VendorID: "vendor-1",
		Message:  "Listed from both directions",
	})
	require.NoError(t, err)

	asConsumer, err := svc.ListForUser(nil, "consumer-1", models.UserRoleConsumer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), asConsumer.Total)

	asVendor, err := svc.ListForUser(nil, "vendor-1", models.UserRoleVendor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), asVendor.Total)

	_, err = svc.ListForUser(nil, "admin-1", models.UserRoleAdmin)
	assert.Error(t, err)
}
