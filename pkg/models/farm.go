package models

type Farm struct {
	ID      int     `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Address *string `json:"address,omitempty" db:"address"`
}

type EquipmentCategory struct {
	ID   int    `json:"id,omitempty" db:"id"`
	Name string `json:"name,omitempty" db:"name"`
}
