package models

import "time"

type EquipmentItem struct {
	ID          int               `json:"id"`
	Farm        Farm              `json:"farm"`
	Category    EquipmentCategory `json:"category"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Quantity    int               `json:"quantity"`
	Status      bool              `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type FlatEquipmentRecord struct {
	ID           int       `db:"equipment_id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	Quantity     int       `db:"quantity"`
	Status       bool      `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	FarmID       int       `db:"farm_id"`
	FarmName     string    `db:"farm_name"`
	CategoryID   int       `db:"category_id"`
	CategoryName string    `db:"category_name"`
}

func (fe *FlatEquipmentRecord) TransformToEquipmentItem() EquipmentItem {
	return EquipmentItem{
		ID:          fe.ID,
		Name:        fe.Name,
		Description: fe.Description,
		Quantity:    fe.Quantity,
		Status:      fe.Status,
		CreatedAt:   fe.CreatedAt,
		UpdatedAt:   fe.UpdatedAt,
		Farm: Farm{
			ID:   fe.FarmID,
			Name: fe.FarmName,
		},
		Category: EquipmentCategory{
			ID:   fe.CategoryID,
			Name: fe.CategoryName,
		},
	}
}

func (e *EquipmentItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   e.ID,
		ResourceType: "equipment",
	}
}
