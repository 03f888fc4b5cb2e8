package handler

import (
	"context"
	"io"
	"testing"

	"lecture-qa-be/internal/dto"
	"lecture-qa-be/internal/service"
	"lecture-qa-be/pkg/rag/stream"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type scriptedReader struct {
	frames []askFrame
}

func (r *scriptedReader) ReadJSON(v interface{}) error {
	if len(r.frames) == 0 {
		return io.EOF
	}
	*(v.(*askFrame)) = r.frames[0]
	r.frames = r.frames[1:]
	return nil
}

type recordingEmitter struct {
	errors []string
}

func (e *recordingEmitter) Searching() error               { return nil }
func (e *recordingEmitter) Chunk(text string) error        { return nil }
func (e *recordingEmitter) Done(stream.FinalPayload) error { return nil }
func (e *recordingEmitter) Error(message string) error {
	e.errors = append(e.errors, message)
	return nil
}

type streamCall struct {
	ctxErr         error
	userId         uuid.UUID
	conversationId uuid.UUID
	question       string
}

type stubQAService struct {
	streamErr error
	calls     []streamCall
}

func (s *stubQAService) StreamAnswer(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID, question string, emitter stream.Emitter) error {
	s.calls = append(s.calls, streamCall{
		ctxErr:         ctx.Err(),
		userId:         userId,
		conversationId: conversationId,
		question:       question,
	})
	return s.streamErr
}

func (s *stubQAService) Ask(ctx context.Context, userId uuid.UUID, request *dto.AskRequest) (*dto.AskResponse, error) {
	return nil, nil
}

func (s *stubQAService) Retrieve(ctx context.Context, question string) (*stream.RankedContext, error) {
	return nil, nil
}

func TestAskLoopRunsEachFrameWithLiveContext(t *testing.T) {
	svc := &stubQAService{}
	h := NewQAStreamHandler(svc, noopLogger{})

	userID := uuid.New()
	convA, convB := uuid.New(), uuid.New()
	reader := &scriptedReader{frames: []askFrame{
		{ConversationId: convA, Question: "What is duality?"},
		{ConversationId: convB, Question: "How does supervision work?"},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.runAskLoop(ctx, userID, reader, &recordingEmitter{})

	require.Len(t, svc.calls, 2)
	assert.NoError(t, svc.calls[0].ctxErr)
	assert.NoError(t, svc.calls[1].ctxErr)
	assert.Equal(t, userID, svc.calls[0].userId)
	assert.Equal(t, convA, svc.calls[0].conversationId)
	assert.Equal(t, "What is duality?", svc.calls[0].question)
	assert.Equal(t, convB, svc.calls[1].conversationId)
}

func TestAskLoopRejectsIncompleteFrames(t *testing.T) {
	svc := &stubQAService{}
	h := NewQAStreamHandler(svc, noopLogger{})

	reader := &scriptedReader{frames: []askFrame{
		{ConversationId: uuid.New()},
		{Question: "Who is my dual?"},
	}}
	emitter := &recordingEmitter{}

	h.runAskLoop(context.Background(), uuid.New(), reader, emitter)

	assert.Empty(t, svc.calls)
	require.Len(t, emitter.errors, 2)
	assert.Equal(t, "conversation_id and question are required", emitter.errors[0])
}

func TestAskLoopSurfacesPreflightErrors(t *testing.T) {
	svc := &stubQAService{streamErr: service.ErrAnswerInProgress}
	h := NewQAStreamHandler(svc, noopLogger{})

	reader := &scriptedReader{frames: []askFrame{
		{ConversationId: uuid.New(), Question: "What stresses an SEI?"},
	}}
	emitter := &recordingEmitter{}

	h.runAskLoop(context.Background(), uuid.New(), reader, emitter)

	require.Len(t, svc.calls, 1)
	require.Len(t, emitter.errors, 1)
	assert.Equal(t, service.ErrAnswerInProgress.Error(), emitter.errors[0])
}
