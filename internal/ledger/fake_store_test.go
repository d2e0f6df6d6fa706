package ledger

import (
	"sync"
	"time"

	"agritrack/internal/repository"
	custom_error "agritrack/pkg/errors"
	"agritrack/pkg/metadata"
	"agritrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// fakeStore is an in-memory stand-in for the Postgres-backed repositories.
// WithTx serializes transactions behind a mutex and restores a snapshot on
// error, mirroring the conditional-update and rollback behaviour the real
// repositories get from the database.
type fakeStore struct {
	mu        sync.Mutex
	equipment map[int]*models.EquipmentItem
	requests  map[int]*models.ChangeRequest
	nextID    int
	applyErr  error // injected ApplyDelta failure
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		equipment: make(map[int]*models.EquipmentItem),
		requests:  make(map[int]*models.ChangeRequest),
		nextID:    1,
	}
}

var _ ChangeRequestStore = (*fakeStore)(nil)
var _ EquipmentRegistry = (*fakeStore)(nil)
var _ repository.Transactor = (*fakeStore)(nil)

func (f *fakeStore) addEquipment(farmID, quantity int) *models.EquipmentItem {
	f.mu.Lock()
	defer f.mu.Unlock()

	item := &models.EquipmentItem{
		ID:       f.nextID,
		Farm:     models.Farm{ID: farmID, Name: "North Farm"},
		Category: models.EquipmentCategory{ID: 1, Name: "Tractors"},
		Name:     "Tractor",
		Quantity: quantity,
		Status:   true,
	}
	f.nextID++
	f.equipment[item.ID] = item

	return item
}

func (f *fakeStore) WithTx(fn func(tx *goqu.TxDatabase) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	quantities := make(map[int]int, len(f.equipment))
	for id, item := range f.equipment {
		quantities[id] = item.Quantity
	}
	statuses := make(map[int]models.ChangeRequest, len(f.requests))
	for id, req := range f.requests {
		statuses[id] = *req
	}

	if err := fn(nil); err != nil {
		for id, quantity := range quantities {
			f.equipment[id].Quantity = quantity
		}
		for id, req := range statuses {
			restored := req
			f.requests[id] = &restored
		}
		return err
	}

	return nil
}

// ApplyDelta and MarkReviewed run while WithTx holds the lock.

func (f *fakeStore) ApplyDelta(_ *goqu.TxDatabase, equipmentID int, delta int) (int, error) {
	if f.applyErr != nil {
		return 0, f.applyErr
	}

	item, ok := f.equipment[equipmentID]
	if !ok {
		return 0, &custom_error.NotFoundError{Resource: "equipment", ID: equipmentID}
	}
	if item.Quantity+delta < 0 {
		return 0, &custom_error.InsufficientStockError{EquipmentID: equipmentID, Requested: -delta}
	}

	item.Quantity += delta
	return item.Quantity, nil
}

func (f *fakeStore) MarkReviewed(_ *goqu.TxDatabase, requestID int, reviewerID int, status metadata.ReviewStatus, rejectReason *string) (bool, error) {
	req, ok := f.requests[requestID]
	if !ok || req.Status != metadata.StatusPending {
		return false, nil
	}

	now := time.Now()
	req.Status = status
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	req.UpdatedAt = now
	if rejectReason != nil {
		req.RejectReason = rejectReason
	}

	return true, nil
}

func (f *fakeStore) PersistChangeRequest(req *models.ChangeRequest) (*models.ChangeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	req.ID = f.nextID
	f.nextID++
	req.Status = metadata.StatusPending
	req.CreatedAt = now
	req.UpdatedAt = now

	stored := *req
	f.requests[req.ID] = &stored

	return req, nil
}

func (f *fakeStore) GetChangeRequest(id int) (*models.ChangeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[id]
	if !ok {
		return nil, &custom_error.NotFoundError{Resource: "change request", ID: id}
	}

	copied := *req
	return &copied, nil
}

func (f *fakeStore) GetChangeRequestsBy(_ repository.QueryBuilder) ([]models.ChangeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var requests []models.ChangeRequest
	for _, req := range f.requests {
		requests = append(requests, *req)
	}

	return requests, nil
}

func (f *fakeStore) GetEquipmentItem(id int) (*models.EquipmentItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.equipment[id]
	if !ok {
		return nil, &custom_error.NotFoundError{Resource: "equipment", ID: id}
	}

	copied := *item
	return &copied, nil
}
