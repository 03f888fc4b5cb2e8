package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByLectureID struct {
	LectureID uuid.UUID
}

func (s ByLectureID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("lecture_id = ?", s.LectureID)
}

type BySeason struct {
	Season int
}

func (s BySeason) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("season = ?", s.Season)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// CoversTypeCode matches lectures whose type_codes JSON array contains the code.
type CoversTypeCode struct {
	Code string
}

func (s CoversTypeCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type_codes @> ?", `["`+s.Code+`"]`)
}
