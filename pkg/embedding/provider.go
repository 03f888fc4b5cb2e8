package embedding

// Provider generates text embeddings. taskType distinguishes query and
// document encoding for backends that care (Gemini does, Ollama ignores it).
type Provider interface {
	Generate(text string, taskType string) (*Response, error)
}

// Response carries one embedding vector.
type Response struct {
	Values []float32
}

// Task types understood by the Gemini backend.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)
