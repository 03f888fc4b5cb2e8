package contract

import (
	"context"

	"lecture-qa-be/internal/entity"
	"lecture-qa-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LectureRepository interface {
	Create(ctx context.Context, lecture *entity.Lecture) error
	Update(ctx context.Context, lecture *entity.Lecture) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lecture, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lecture, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
