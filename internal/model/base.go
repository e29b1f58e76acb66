package model

import (
	"time"
)

// BaseModel carries the surrogate key and creation timestamp shared by every table.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
