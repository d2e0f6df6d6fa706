package models

import (
	"time"

	"agritrack/pkg/metadata"

	"github.com/shopspring/decimal"
)

// ChangeRequest is a proposed stock adjustment awaiting review. Quantity is
// stored as a positive count; Type carries the direction of the movement.
type ChangeRequest struct {
	ID           int                   `json:"id" db:"id"`
	EquipmentID  int                   `json:"equipment_id" db:"equipment_id"`
	FarmID       int                   `json:"farm_id" db:"farm_id"`
	Type         metadata.ChangeType   `json:"type" db:"type"`
	Quantity     int                   `json:"quantity" db:"quantity"`
	Price        decimal.Decimal       `json:"price" db:"price"`
	CreatedBy    int                   `json:"created_by" db:"created_by"`
	ReviewedBy   *int                  `json:"reviewed_by,omitempty" db:"reviewed_by"`
	Status       metadata.ReviewStatus `json:"status" db:"status"`
	RejectReason *string               `json:"reject_reason,omitempty" db:"reject_reason"`
	CreatedAt    time.Time             `json:"created_at" db:"created_at"`
	ReviewedAt   *time.Time            `json:"reviewed_at,omitempty" db:"reviewed_at"`
	UpdatedAt    time.Time             `json:"updated_at" db:"updated_at"`
}

// SignedDelta is the quantity change applied to equipment stock on approval.
func (cr *ChangeRequest) SignedDelta() int {
	return cr.Type.SignedDelta(cr.Quantity)
}

func (cr *ChangeRequest) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   cr.ID,
		ResourceType: "change_request",
	}
}
