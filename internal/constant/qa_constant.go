package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"

	// Watermill topics
	TopicLectureIngest   = "lecture.ingest"
	TopicAnswerGenerated = "qa.answer.generated"

	// NATS event codes (published under events.>)
	EventAnswerGenerated = "QA_ANSWER_GENERATED"

	// How many prior turns are replayed to the model as chat history.
	HistoryMessageLimit = 10

	DefaultConversationTitle = "New conversation"
)
