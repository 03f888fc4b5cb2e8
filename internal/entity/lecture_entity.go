package entity

import (
	"time"

	"github.com/google/uuid"
)

type Lecture struct {
	Id        uuid.UUID
	Title     string
	Season    int
	Category  string
	TypeCodes []string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
