package equipment

import (
	"fmt"

	"agritrack/internal/repository"
	custom_error "agritrack/pkg/errors"
	"agritrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type EquipmentRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *EquipmentRepository {
	return &EquipmentRepository{repository: r}
}

func (r *EquipmentRepository) GetEquipmentItem(id int) (*models.EquipmentItem, error) {
	var flatEquipment models.FlatEquipmentRecord

	query := r.getEquipmentItemQuery().
		Where(goqu.Ex{"e.id": id})

	found, err := query.Executor().ScanStruct(&flatEquipment)
	if err != nil {
		return nil, fmt.Errorf("unable to select equipment item from database: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "equipment", ID: id}
	}

	item := flatEquipment.TransformToEquipmentItem()

	return &item, nil
}

func (r *EquipmentRepository) GetEquipmentItemsBy(conditions repository.QueryBuilder) (*[]models.EquipmentItem, error) {
	aliases := map[string]string{
		"farm_id":     "e.farm_id",
		"category_id": "e.category_id",
		"status":      "e.status",
	}

	query := r.getEquipmentItemQuery().
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("e.id").Asc())

	var flatEquipment []models.FlatEquipmentRecord
	if err := query.Executor().ScanStructs(&flatEquipment); err != nil {
		return nil, fmt.Errorf("unable to select equipment items from database: %w", err)
	}

	var items []models.EquipmentItem
	for _, flat := range flatEquipment {
		items = append(items, flat.TransformToEquipmentItem())
	}

	return &items, nil
}

func (r *EquipmentRepository) PersistEquipmentItem(req EquipmentItemRequest) (*models.EquipmentItem, error) {
	query := r.repository.GoquDBWrapper.Insert("equipment_items").
		Rows(goqu.Record{
			"farm_id":     req.FarmID,
			"category_id": req.CategoryID,
			"name":        req.Name,
			"description": req.Description,
			"quantity":    0,
			"status":      true,
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("equipment item", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert equipment item record: %w", err)
	}

	return r.GetEquipmentItem(id)
}

// ApplyDelta is the only quantity mutator. The update is a single guarded
// statement so that concurrent deltas against the same item serialize on the
// row and an export can never drive the quantity negative.
func (r *EquipmentRepository) ApplyDelta(tx *goqu.TxDatabase, equipmentID int, delta int) (int, error) {
	updateQuery := tx.Update("equipment_items").
		Set(goqu.Record{
			"quantity":   goqu.L("quantity + ?", delta),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": equipmentID, "deleted_at": nil}).
		Where(goqu.L("quantity + ? >= 0", delta)).
		Returning("quantity")

	var newQuantity int
	found, err := updateQuery.Executor().ScanVal(&newQuantity)
	if err != nil {
		return 0, &custom_error.StorageUnavailableError{Err: fmt.Errorf("failed to apply quantity delta: %w", err)}
	}

	if !found {
		var count int
		existsQuery := tx.Select(goqu.COUNT("id")).
			From("equipment_items").
			Where(goqu.Ex{"id": equipmentID, "deleted_at": nil})

		if _, err := existsQuery.Executor().ScanVal(&count); err != nil {
			return 0, &custom_error.StorageUnavailableError{Err: fmt.Errorf("failed to check equipment existence: %w", err)}
		}
		if count == 0 {
			return 0, &custom_error.NotFoundError{Resource: "equipment", ID: equipmentID}
		}
		return 0, &custom_error.InsufficientStockError{EquipmentID: equipmentID, Requested: -delta}
	}

	return newQuantity, nil
}

func (r *EquipmentRepository) getEquipmentItemQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("e.id").As("equipment_id"),
			goqu.I("e.name").As("name"),
			goqu.I("e.description").As("description"),
			goqu.I("e.quantity").As("quantity"),
			goqu.I("e.status").As("status"),
			goqu.I("e.created_at").As("created_at"),
			goqu.I("e.updated_at").As("updated_at"),
			goqu.I("f.id").As("farm_id"),
			goqu.I("f.name").As("farm_name"),
			goqu.I("c.id").As("category_id"),
			goqu.I("c.name").As("category_name"),
		).
		From(goqu.T("equipment_items").As("e")).
		LeftJoin(
			goqu.T("farms").As("f"),
			goqu.On(goqu.Ex{"e.farm_id": goqu.I("f.id")}),
		).
		LeftJoin(
			goqu.T("equipment_categories").As("c"),
			goqu.On(goqu.Ex{"e.category_id": goqu.I("c.id")}),
		).
		Where(goqu.Ex{"e.deleted_at": nil})
}
