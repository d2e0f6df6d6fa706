package ledger

import (
	"sync"
	"testing"

	custom_error "agritrack/pkg/errors"
	"agritrack/pkg/metadata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestService(store *fakeStore) *LedgerService {
	return NewLedgerService(store, store, store, zap.NewNop())
}

func TestCreateChangeRequest(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(7, 10)
	service := newTestService(store)

	created, err := service.CreateChangeRequest(ChangeRequestInput{
		EquipmentID: item.ID,
		Type:        "import",
		Quantity:    5,
		Price:       decimal.NewFromFloat(129.99),
		CreatedBy:   3,
	})

	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusPending, created.Status)
	assert.Equal(t, 7, created.FarmID, "farm id should be denormalized from the equipment item")
	assert.Equal(t, item.ID, created.EquipmentID)
	assert.Nil(t, created.ReviewedBy)
	assert.Nil(t, created.ReviewedAt)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateChangeRequestValidation(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(1, 10)
	service := newTestService(store)

	tests := []struct {
		name  string
		input ChangeRequestInput
	}{
		{"unknown type", ChangeRequestInput{EquipmentID: item.ID, Type: "transfer", Quantity: 5, CreatedBy: 1}},
		{"zero quantity", ChangeRequestInput{EquipmentID: item.ID, Type: "import", Quantity: 0, CreatedBy: 1}},
		{"negative quantity", ChangeRequestInput{EquipmentID: item.ID, Type: "import", Quantity: -5, CreatedBy: 1}},
		{"negative price", ChangeRequestInput{EquipmentID: item.ID, Type: "import", Quantity: 5, Price: decimal.NewFromInt(-1), CreatedBy: 1}},
		{"missing creator", ChangeRequestInput{EquipmentID: item.ID, Type: "import", Quantity: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateChangeRequest(tt.input)
			var invalidInput *custom_error.InvalidInputError
			assert.ErrorAs(t, err, &invalidInput)
		})
	}
}

func TestCreateChangeRequestUnknownEquipment(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store)

	_, err := service.CreateChangeRequest(ChangeRequestInput{
		EquipmentID: 42,
		Type:        "import",
		Quantity:    5,
		CreatedBy:   1,
	})

	var notFound *custom_error.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestApproveImportAppliesDeltaOnce(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(1, 10)
	service := newTestService(store)

	created, err := service.CreateChangeRequest(ChangeRequestInput{
		EquipmentID: item.ID, Type: "import", Quantity: 5, CreatedBy: 1,
	})
	assert.NoError(t, err)

	reviewed, err := service.Review(created.ID, 2, DecisionApprove, "")
	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusApproved, reviewed.Status)
	assert.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, 2, *reviewed.ReviewedBy)
	assert.NotNil(t, reviewed.ReviewedAt)

	updated, err := store.GetEquipmentItem(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 15, updated.Quantity)
}

func TestApproveExportDecreasesQuantity(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(1, 10)
	service := newTestService(store)

	created, err := service.CreateChangeRequest(ChangeRequestInput{
		EquipmentID: item.ID, Type: "export", Quantity: 4, CreatedBy: 1,
	})
	assert.NoError(t, err)

	reviewed, err := service.Review(created.ID, 2, DecisionApprove, "")
	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusApproved, reviewed.Status)

	updated, err := store.GetEquipmentItem(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)
}

func TestApproveExportInsufficientStock(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(1, 10)
	service := newTestService(store)

	created, err := service.CreateChangeRequest(ChangeRequestInput{
		EquipmentID: item.ID, Type: "export", Quantity: 15, CreatedBy: 1,
	})
	assert.NoError(t, err)

	_, err = service.Review(created.ID, 2, DecisionApprove, "")
	var insufficient *custom_error.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)

	// Both entities must be unchanged, the request stays retryable.
	updated, err := store.GetEquipmentItem(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10, updated.Quantity)

	request, err := store.GetChangeRequest(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusPending, request.Status)
	assert.Nil(t, request.ReviewedBy)
}

func TestRejectRequiresReason(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(1, 10)
	service := newTestService(store)

	created, err := service.CreateChangeRequest(ChangeRequestInput{
		EquipmentID: item.ID, Type: "import", Quantity: 5, CreatedBy: 1,
	})
	assert.NoError(t, err)

	_, err = service.Review(created.ID, 2, DecisionReject, "")
	var invalidInput *custom_error.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput)

	request, err := store.GetChangeRequest(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusPending, request.Status)
}

func TestRejectNeverMutatesQuantity(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(1, 10)
	service := newTestService(store)

	created, err := service.CreateChangeRequest(ChangeRequestInput{
		EquipmentID: item.ID, Type: "import", Quantity: 5, CreatedBy: 1,
	})
	assert.NoError(t, err)

	reviewed, err := service.Review(created.ID, 2, DecisionReject, "wrong supplier invoice")
	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusRejected, reviewed.Status)
	assert.NotNil(t, reviewed.RejectReason)
	assert.Equal(t, "wrong supplier invoice", *reviewed.RejectReason)

	updated, err := store.GetEquipmentItem(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10, updated.Quantity)
}

func TestReviewIsTerminal(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(1, 10)
	service := newTestService(store)

	created, err := service.CreateChangeRequest(ChangeRequestInput{
		EquipmentID: item.ID, Type: "import", Quantity: 5, CreatedBy: 1,
	})
	assert.NoError(t, err)

	_, err = service.Review(created.ID, 2, DecisionApprove, "")
	assert.NoError(t, err)

	// A second review with any decision must fail and not re-apply.
	_, err = service.Review(created.ID, 2, DecisionApprove, "")
	var alreadyReviewed *custom_error.AlreadyReviewedError
	assert.ErrorAs(t, err, &alreadyReviewed)
	assert.Equal(t, metadata.StatusApproved.String(), alreadyReviewed.Status)

	_, err = service.Review(created.ID, 3, DecisionReject, "changed my mind")
	assert.ErrorAs(t, err, &alreadyReviewed)

	updated, err := store.GetEquipmentItem(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 15, updated.Quantity, "delta must be applied exactly once")
}

func TestReviewUnknownRequest(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store)

	_, err := service.Review(99, 2, DecisionApprove, "")
	var notFound *custom_error.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestReviewInvalidDecision(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(1, 10)
	service := newTestService(store)

	created, err := service.CreateChangeRequest(ChangeRequestInput{
		EquipmentID: item.ID, Type: "import", Quantity: 5, CreatedBy: 1,
	})
	assert.NoError(t, err)

	_, err = service.Review(created.ID, 2, "defer", "")
	var invalidInput *custom_error.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput)
}

func TestStorageFailureLeavesRequestRetryable(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(1, 10)
	service := newTestService(store)

	created, err := service.CreateChangeRequest(ChangeRequestInput{
		EquipmentID: item.ID, Type: "import", Quantity: 5, CreatedBy: 1,
	})
	assert.NoError(t, err)

	store.applyErr = &custom_error.StorageUnavailableError{Err: assert.AnError}
	_, err = service.Review(created.ID, 2, DecisionApprove, "")
	var storage *custom_error.StorageUnavailableError
	assert.ErrorAs(t, err, &storage)

	request, err := store.GetChangeRequest(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusPending, request.Status)

	// Retrying the whole review after the outage succeeds and applies once.
	store.applyErr = nil
	reviewed, err := service.Review(created.ID, 2, DecisionApprove, "")
	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusApproved, reviewed.Status)

	updated, err := store.GetEquipmentItem(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 15, updated.Quantity)
}

func TestConcurrentApprovalsOfDistinctRequests(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(1, 100)
	service := newTestService(store)

	const workers = 20
	const quantity = 3

	ids := make([]int, workers)
	for i := 0; i < workers; i++ {
		created, err := service.CreateChangeRequest(ChangeRequestInput{
			EquipmentID: item.ID, Type: "import", Quantity: quantity, CreatedBy: 1,
		})
		assert.NoError(t, err)
		ids[i] = created.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Review(ids[i], 2, DecisionApprove, "")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "review %d failed", i)
	}

	updated, err := store.GetEquipmentItem(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 100+workers*quantity, updated.Quantity, "no approval may be lost")
}

func TestConcurrentReviewsOfSameRequest(t *testing.T) {
	store := newFakeStore()
	item := store.addEquipment(1, 10)
	service := newTestService(store)

	created, err := service.CreateChangeRequest(ChangeRequestInput{
		EquipmentID: item.ID, Type: "import", Quantity: 5, CreatedBy: 1,
	})
	assert.NoError(t, err)

	const reviewers = 8
	var wg sync.WaitGroup
	errs := make([]error, reviewers)
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Review(created.ID, i+1, DecisionApprove, "")
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var alreadyReviewed *custom_error.AlreadyReviewedError
		if assert.ErrorAs(t, err, &alreadyReviewed) {
			conflicted++
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one reviewer may win")
	assert.Equal(t, reviewers-1, conflicted)

	updated, err := store.GetEquipmentItem(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 15, updated.Quantity, "delta must be applied exactly once")
}
