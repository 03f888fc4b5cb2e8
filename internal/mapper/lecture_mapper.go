package mapper

import (
	"encoding/json"
	"time"

	"lecture-qa-be/internal/entity"
	"lecture-qa-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LectureMapper struct{}

func NewLectureMapper() *LectureMapper {
	return &LectureMapper{}
}

func (m *LectureMapper) ToEntity(l *model.Lecture) *entity.Lecture {
	if l == nil {
		return nil
	}

	var deletedAt *time.Time
	if l.DeletedAt.Valid {
		t := l.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !l.UpdatedAt.IsZero() {
		t := l.UpdatedAt
		updatedAt = &t
	}

	var typeCodes []string
	if len(l.TypeCodes) > 0 {
		_ = json.Unmarshal(l.TypeCodes, &typeCodes)
	}

	return &entity.Lecture{
		Id:        l.Id,
		Title:     l.Title,
		Season:    l.Season,
		Category:  l.Category,
		TypeCodes: typeCodes,
		CreatedAt: l.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: l.DeletedAt.Valid,
	}
}

func (m *LectureMapper) ToModel(l *entity.Lecture) *model.Lecture {
	if l == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if l.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *l.DeletedAt, Valid: true}
	} else if l.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if l.UpdatedAt != nil {
		updatedAt = *l.UpdatedAt
	}

	var typeCodes datatypes.JSON
	if len(l.TypeCodes) > 0 {
		if raw, err := json.Marshal(l.TypeCodes); err == nil {
			typeCodes = datatypes.JSON(raw)
		}
	}

	return &model.Lecture{
		Id:        l.Id,
		Title:     l.Title,
		Season:    l.Season,
		Category:  l.Category,
		TypeCodes: typeCodes,
		CreatedAt: l.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *LectureMapper) ChunkToEntity(c *model.LectureChunk) *entity.LectureChunk {
	if c == nil {
		return nil
	}

	return &entity.LectureChunk{
		Id:         c.Id,
		LectureId:  c.LectureId,
		Document:   c.Document,
		ChunkIndex: c.ChunkIndex,
		CreatedAt:  c.CreatedAt,
	}
}
