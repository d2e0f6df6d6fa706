package ledger

import (
	"fmt"

	"agritrack/internal/repository"
	custom_error "agritrack/pkg/errors"
	"agritrack/pkg/metadata"
	"agritrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// ChangeRequestStore is the durable log of requested stock adjustments.
type ChangeRequestStore interface {
	PersistChangeRequest(req *models.ChangeRequest) (*models.ChangeRequest, error)
	GetChangeRequest(id int) (*models.ChangeRequest, error)
	GetChangeRequestsBy(conditions repository.QueryBuilder) ([]models.ChangeRequest, error)
	MarkReviewed(tx *goqu.TxDatabase, requestID int, reviewerID int, status metadata.ReviewStatus, rejectReason *string) (bool, error)
}

// EquipmentRegistry holds the authoritative quantity per equipment item.
type EquipmentRegistry interface {
	GetEquipmentItem(id int) (*models.EquipmentItem, error)
	ApplyDelta(tx *goqu.TxDatabase, equipmentID int, delta int) (int, error)
}

type LedgerService struct {
	tx       repository.Transactor
	requests ChangeRequestStore
	registry EquipmentRegistry
	log      *zap.Logger
}

func NewLedgerService(tx repository.Transactor, requests ChangeRequestStore, registry EquipmentRegistry, log *zap.Logger) *LedgerService {
	return &LedgerService{
		tx:       tx,
		requests: requests,
		registry: registry,
		log:      log,
	}
}

// CreateChangeRequest records a proposed stock adjustment with status
// pending. The farm id is denormalized from the referenced equipment item.
func (s *LedgerService) CreateChangeRequest(input ChangeRequestInput) (*models.ChangeRequest, error) {
	changeType, err := metadata.NewChangeType(input.Type)
	if err != nil {
		return nil, &custom_error.InvalidInputError{Message: fmt.Sprintf("invalid change type: %s", err.Error())}
	}

	if input.Quantity <= 0 {
		return nil, &custom_error.InvalidInputError{Message: "quantity must be greater than zero"}
	}

	if input.Price.IsNegative() {
		return nil, &custom_error.InvalidInputError{Message: "price must not be negative"}
	}

	if input.CreatedBy <= 0 {
		return nil, &custom_error.InvalidInputError{Message: "created_by is required"}
	}

	item, err := s.registry.GetEquipmentItem(input.EquipmentID)
	if err != nil {
		return nil, err
	}

	request := &models.ChangeRequest{
		EquipmentID: item.ID,
		FarmID:      item.Farm.ID,
		Type:        changeType,
		Quantity:    input.Quantity,
		Price:       input.Price,
		CreatedBy:   input.CreatedBy,
		Status:      metadata.StatusPending,
	}

	created, err := s.requests.PersistChangeRequest(request)
	if err != nil {
		return nil, err
	}

	s.log.Info("change request created",
		zap.Int("request_id", created.ID),
		zap.Int("equipment_id", created.EquipmentID),
		zap.String("type", created.Type.String()),
		zap.Int("quantity", created.Quantity),
	)

	return created, nil
}

// Review moves a pending change request to a terminal status. Approval
// applies the signed delta to the equipment quantity and flips the status in
// one transaction; the flip is guarded on the status still being pending, so
// of two racing reviewers exactly one commits and the other gets
// AlreadyReviewed with its delta rolled back. Any applier failure leaves the
// request pending and retryable.
func (s *LedgerService) Review(requestID int, reviewerID int, decision string, rejectReason string) (*models.ChangeRequest, error) {
	if reviewerID <= 0 {
		return nil, &custom_error.InvalidInputError{Message: "reviewer_id is required"}
	}

	request, err := s.requests.GetChangeRequest(requestID)
	if err != nil {
		return nil, err
	}

	if request.Status.IsTerminal() {
		return nil, &custom_error.AlreadyReviewedError{RequestID: requestID, Status: request.Status.String()}
	}

	switch decision {
	case DecisionApprove:
		err = s.approve(request, reviewerID)
	case DecisionReject:
		err = s.reject(request, reviewerID, rejectReason)
	default:
		return nil, &custom_error.InvalidInputError{Message: fmt.Sprintf("invalid decision: %q, must be %q or %q", decision, DecisionApprove, DecisionReject)}
	}

	if err != nil {
		return nil, err
	}

	return s.requests.GetChangeRequest(requestID)
}

func (s *LedgerService) approve(request *models.ChangeRequest, reviewerID int) error {
	delta := request.SignedDelta()

	err := s.tx.WithTx(func(tx *goqu.TxDatabase) error {
		newQuantity, err := s.registry.ApplyDelta(tx, request.EquipmentID, delta)
		if err != nil {
			return err
		}

		flipped, err := s.requests.MarkReviewed(tx, request.ID, reviewerID, metadata.StatusApproved, nil)
		if err != nil {
			return err
		}
		if !flipped {
			// Lost the race, roll back the delta with the transaction.
			return &custom_error.AlreadyReviewedError{RequestID: request.ID, Status: "reviewed"}
		}

		s.log.Info("change request approved",
			zap.Int("request_id", request.ID),
			zap.Int("equipment_id", request.EquipmentID),
			zap.Int("delta", delta),
			zap.Int("new_quantity", newQuantity),
			zap.Int("reviewer_id", reviewerID),
		)

		return nil
	})

	if err != nil {
		return s.refreshAlreadyReviewed(err, request.ID)
	}

	return nil
}

func (s *LedgerService) reject(request *models.ChangeRequest, reviewerID int, rejectReason string) error {
	if rejectReason == "" {
		return &custom_error.InvalidInputError{Message: "reject_reason is required when rejecting a change request"}
	}

	err := s.tx.WithTx(func(tx *goqu.TxDatabase) error {
		flipped, err := s.requests.MarkReviewed(tx, request.ID, reviewerID, metadata.StatusRejected, &rejectReason)
		if err != nil {
			return err
		}
		if !flipped {
			return &custom_error.AlreadyReviewedError{RequestID: request.ID, Status: "reviewed"}
		}

		s.log.Info("change request rejected",
			zap.Int("request_id", request.ID),
			zap.Int("reviewer_id", reviewerID),
		)

		return nil
	})

	if err != nil {
		return s.refreshAlreadyReviewed(err, request.ID)
	}

	return nil
}

// refreshAlreadyReviewed fills in the terminal status a losing reviewer
// raced against, so the caller can tell the user which decision won.
func (s *LedgerService) refreshAlreadyReviewed(err error, requestID int) error {
	reviewed, ok := err.(*custom_error.AlreadyReviewedError)
	if !ok {
		return err
	}

	current, getErr := s.requests.GetChangeRequest(requestID)
	if getErr != nil {
		return reviewed
	}

	reviewed.Status = current.Status.String()
	return reviewed
}
