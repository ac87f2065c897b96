package models

import (
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        int            `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime"           json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"           json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index"                    json:"deletedAt"`
}
