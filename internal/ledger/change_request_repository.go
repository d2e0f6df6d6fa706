package ledger

import (
	"fmt"

	"agritrack/internal/repository"
	custom_error "agritrack/pkg/errors"
	"agritrack/pkg/metadata"
	"agritrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ChangeRequestRepository struct {
	repository *repository.Repository
}

func NewChangeRequestRepository(r *repository.Repository) *ChangeRequestRepository {
	return &ChangeRequestRepository{repository: r}
}

func (r *ChangeRequestRepository) PersistChangeRequest(req *models.ChangeRequest) (*models.ChangeRequest, error) {
	query := r.repository.GoquDBWrapper.Insert("change_requests").
		Rows(goqu.Record{
			"equipment_id": req.EquipmentID,
			"farm_id":      req.FarmID,
			"type":         req.Type,
			"quantity":     req.Quantity,
			"price":        req.Price,
			"created_by":   req.CreatedBy,
			"status":       metadata.StatusPending,
		}).
		Returning("id", "created_at", "updated_at")

	found, err := query.Executor().ScanStruct(req)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("change request", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert change request record: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("insert of change request returned no row")
	}

	req.Status = metadata.StatusPending

	return req, nil
}

func (r *ChangeRequestRepository) GetChangeRequest(id int) (*models.ChangeRequest, error) {
	var request models.ChangeRequest

	query := r.getChangeRequestQuery().
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&request)
	if err != nil {
		return nil, fmt.Errorf("unable to select change request from database: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "change request", ID: id}
	}

	return &request, nil
}

func (r *ChangeRequestRepository) GetChangeRequestsBy(conditions repository.QueryBuilder) ([]models.ChangeRequest, error) {
	aliases := map[string]string{
		"farm_id":      "farm_id",
		"equipment_id": "equipment_id",
		"status":       "status",
	}

	query := r.getChangeRequestQuery().
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("created_at").Desc())

	var requests []models.ChangeRequest
	if err := query.Executor().ScanStructs(&requests); err != nil {
		return nil, fmt.Errorf("unable to select change requests from database: %w", err)
	}

	return requests, nil
}

// MarkReviewed flips a pending change request to a terminal status. The
// update is guarded on status = 'pending': with two racing reviewers only
// one statement affects the row, the loser observes zero rows and must
// surface AlreadyReviewed to its caller.
func (r *ChangeRequestRepository) MarkReviewed(tx *goqu.TxDatabase, requestID int, reviewerID int, status metadata.ReviewStatus, rejectReason *string) (bool, error) {
	record := goqu.Record{
		"status":      status,
		"reviewed_by": reviewerID,
		"reviewed_at": goqu.L("NOW()"),
		"updated_at":  goqu.L("NOW()"),
	}
	if rejectReason != nil {
		record["reject_reason"] = *rejectReason
	}

	query := tx.Update("change_requests").
		Set(record).
		Where(goqu.Ex{
			"id":     requestID,
			"status": metadata.StatusPending,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return false, &custom_error.StorageUnavailableError{Err: fmt.Errorf("failed to update change request status: %w", err)}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected for change request %d: %w", requestID, err)
	}

	return rowsAffected == 1, nil
}

func (r *ChangeRequestRepository) getChangeRequestQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			"id", "equipment_id", "farm_id", "type", "quantity", "price",
			"created_by", "reviewed_by", "status", "reject_reason",
			"created_at", "reviewed_at", "updated_at",
		).
		From("change_requests")
}
