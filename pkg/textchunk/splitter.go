// Package textchunk splits lecture transcripts into overlapping windows for
// embedding. Character-based rather than tokenizer-aware; the overlap keeps
// sentences that straddle a boundary retrievable from both sides.
package textchunk

// Split slices text into chunks of approximately chunkSize characters with
// the given overlap between consecutive chunks.
func Split(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
