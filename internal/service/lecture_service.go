package service

import (
	"context"
	"encoding/json"
	"time"

	"lecture-qa-be/internal/constant"
	"lecture-qa-be/internal/dto"
	"lecture-qa-be/internal/entity"
	"lecture-qa-be/internal/repository/unitofwork"
	"lecture-qa-be/pkg/ontology"

	"github.com/google/uuid"
)

type ILectureService interface {
	CreateLecture(ctx context.Context, request *dto.CreateLectureRequest) (*dto.CreateLectureResponse, error)
}

type lectureService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
}

func NewLectureService(uowFactory unitofwork.RepositoryFactory, publisher IPublisherService) ILectureService {
	return &lectureService{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// CreateLecture stores the lecture metadata and hands the transcript off to
// the ingest worker. Embedding happens asynchronously; the lecture is
// retrievable once the worker commits its chunks.
func (ls *lectureService) CreateLecture(ctx context.Context, request *dto.CreateLectureRequest) (*dto.CreateLectureResponse, error) {
	typeCodes := make([]string, 0, len(request.TypeCodes))
	for _, code := range request.TypeCodes {
		if tc, found := ontology.LookupType(code); found {
			typeCodes = append(typeCodes, tc.Code)
		}
	}

	lecture := entity.Lecture{
		Id:        uuid.New(),
		Title:     request.Title,
		Season:    request.Season,
		Category:  request.Category,
		TypeCodes: typeCodes,
		CreatedAt: time.Now(),
	}

	uow := ls.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.LectureRepository().Create(ctx, &lecture); err != nil {
		return nil, err
	}

	// The transcript travels with the message, not the lecture row; raw
	// transcripts are only needed once, for chunking.
	payload, err := json.Marshal(ingestMessage{
		LectureId:  lecture.Id,
		Transcript: request.Transcript,
	})
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := ls.publisher.Publish(ctx, constant.TopicLectureIngest, payload); err != nil {
		return nil, err
	}

	return &dto.CreateLectureResponse{Id: lecture.Id}, nil
}

type ingestMessage struct {
	LectureId  uuid.UUID `json:"lecture_id"`
	Transcript string    `json:"transcript"`
}
