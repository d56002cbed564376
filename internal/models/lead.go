package models

import (
	"time"

	"gorm.io/datatypes"
)

type Lead struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	Name      string         `gorm:"type:varchar(255);not null"`
	Email     string         `gorm:"type:varchar(255)"`
	Phone     string         `gorm:"type:varchar(20);not null;index"`
	FormID    string         `gorm:"type:varchar(100);not null"`
	Source    string         `gorm:"type:varchar(20);not null;default:'stepform'"`
	Answers   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}
