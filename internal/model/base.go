package model

import (
	"time"
)

// BaseModel carries the surrogate key and row timestamps shared by mutable tables.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
