package custom_error

import "fmt"

// NotFoundError covers unknown or soft-deleted resources.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// AlreadyReviewedError is returned when a change request already left the
// pending state, including when a concurrent reviewer committed first.
type AlreadyReviewedError struct {
	RequestID int
	Status    string
}

func (e *AlreadyReviewedError) Error() string {
	return fmt.Sprintf("change request %d already reviewed, current status: %s", e.RequestID, e.Status)
}

// InsufficientStockError is returned when applying an export delta would
// drive the equipment quantity below zero.
type InsufficientStockError struct {
	EquipmentID int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock on equipment %d for export of %d", e.EquipmentID, e.Requested)
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// StorageUnavailableError wraps transient storage failures. The whole
// review or applyDelta call is safe to retry.
type StorageUnavailableError struct {
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}
