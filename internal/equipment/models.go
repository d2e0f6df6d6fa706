package equipment

type EquipmentItemRequest struct {
	FarmID      int    `json:"farm_id" binding:"required"`
	CategoryID  int    `json:"category_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type EquipmentListQuery struct {
	FarmID     *int  `form:"farm_id"`
	CategoryID *int  `form:"category_id"`
	Status     *bool `form:"status"`
}
