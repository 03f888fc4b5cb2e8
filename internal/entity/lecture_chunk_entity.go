package entity

import (
	"time"

	"github.com/google/uuid"
)

type LectureChunk struct {
	Id         uuid.UUID
	LectureId  uuid.UUID
	Document   string
	ChunkIndex int
	CreatedAt  time.Time
}

// ScoredChunk is a chunk joined with its lecture metadata and the cosine
// similarity against a query embedding.
type ScoredChunk struct {
	Chunk      LectureChunk
	Lecture    Lecture
	Similarity float64
}
