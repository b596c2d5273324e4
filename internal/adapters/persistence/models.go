package persistence

import (
	"time"
)

// SavedBuildModel represents the saved_builds table
type SavedBuildModel struct {
	ID          string    `gorm:"column:id;primaryKey;not null"`
	Name        string    `gorm:"column:name;not null"`
	ShipID      string    `gorm:"column:ship_id;not null;index:idx_saved_builds_ship"`
	Code        string    `gorm:"column:code;type:text;not null"`
	TotalCost   int64     `gorm:"column:total_cost;not null;default:0"`
	UnladenMass float64   `gorm:"column:unladen_mass;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index:idx_saved_builds_ship"`
}

func (SavedBuildModel) TableName() string {
	return "saved_builds"
}
