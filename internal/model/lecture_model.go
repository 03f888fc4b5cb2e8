package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Lecture struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title    string    `gorm:"type:varchar(255);not null"`
	Season   int       `gorm:"not null;index"`
	Category string    `gorm:"type:varchar(50);not null;index"` // lecture, webinar, qa-session
	// TypeCodes is the JSON array of personality type codes the lecture covers.
	TypeCodes datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Lecture) TableName() string {
	return "lectures"
}
