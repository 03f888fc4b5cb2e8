package implementation

import (
	"context"
	"errors"

	"lecture-qa-be/internal/entity"
	"lecture-qa-be/internal/mapper"
	"lecture-qa-be/internal/model"
	"lecture-qa-be/internal/repository/contract"
	"lecture-qa-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LectureRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LectureMapper
}

func NewLectureRepository(db *gorm.DB) contract.LectureRepository {
	return &LectureRepositoryImpl{
		db:     db,
		mapper: mapper.NewLectureMapper(),
	}
}

func (r *LectureRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LectureRepositoryImpl) Create(ctx context.Context, lecture *entity.Lecture) error {
	m := r.mapper.ToModel(lecture)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*lecture = *r.mapper.ToEntity(m)
	return nil
}

func (r *LectureRepositoryImpl) Update(ctx context.Context, lecture *entity.Lecture) error {
	m := r.mapper.ToModel(lecture)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*lecture = *r.mapper.ToEntity(m)
	return nil
}

func (r *LectureRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Lecture{}, id).Error
}

func (r *LectureRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lecture, error) {
	var m model.Lecture
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LectureRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lecture, error) {
	var models []*model.Lecture
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Lecture, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *LectureRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Lecture{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
