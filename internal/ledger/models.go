package ledger

import (
	"github.com/shopspring/decimal"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type ChangeRequestInput struct {
	EquipmentID int             `json:"equipment_id" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	CreatedBy   int             `json:"created_by" binding:"required"`
}

type ReviewInput struct {
	ReviewerID   int    `json:"reviewer_id" binding:"required"`
	Decision     string `json:"decision" binding:"required"`
	RejectReason string `json:"reject_reason"`
}

type ChangeRequestListQuery struct {
	FarmID      *int    `form:"farm_id"`
	EquipmentID *int    `form:"equipment_id"`
	Status      *string `form:"status"`
}
