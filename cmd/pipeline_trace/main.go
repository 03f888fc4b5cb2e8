package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"lecture-qa-be/internal/config"
	"lecture-qa-be/internal/repository/memory"
	"lecture-qa-be/internal/repository/unitofwork"
	"lecture-qa-be/internal/service"
	"lecture-qa-be/pkg/database"
	"lecture-qa-be/pkg/embedding"
	"lecture-qa-be/pkg/llm/factory"
	"lecture-qa-be/pkg/rag/expand"

	"github.com/fatih/color"
)

// Offline inspection tool: runs the retrieval-and-ranking stages against the
// live database and prints what each stage produced, without generating an
// answer or writing anything.
//
// Usage: go run ./cmd/pipeline_trace "your question here"
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: pipeline_trace \"question\"")
	}
	question := strings.Join(os.Args[1:], " ")

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	uowFactory := unitofwork.NewRepositoryFactory(db)

	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	llmProvider, err := factory.NewProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}

	qaService := service.NewQAService(
		uowFactory,
		embeddingProvider,
		llmProvider,
		memory.NewSessionRepository(),
		nil, // no event bus for offline runs
		nil,
		cfg.Rag,
	)

	header := color.New(color.FgCyan, color.Bold)
	stage := color.New(color.FgYellow)
	good := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	header.Println("=== QA Pipeline Trace ===")
	stage.Printf("Question: %s\n\n", question)

	expander := expand.NewExpander(cfg.Rag.MaxQueryVariants)
	variants := expander.Expand(question)
	stage.Printf("[1] Query expansion -> %d variants\n", len(variants))
	for i, v := range variants {
		dim.Printf("    %d. %s\n", i+1, v)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	started := time.Now()
	ranked, err := qaService.Retrieve(ctx, question)
	if err != nil {
		color.Red("Pipeline failed: %v", err)
		os.Exit(1)
	}

	stage.Printf("\n[2] Final candidates (%d, in %s)\n", len(ranked.Candidates), time.Since(started).Round(time.Millisecond))
	for i, c := range ranked.Candidates {
		judge := "-"
		if c.Relevance != nil {
			judge = strings.Repeat("*", *c.Relevance)
		}
		good.Printf("    #%-2d %-40s hybrid=%.3f sim=%.3f boosted=%.3f judge=%s\n",
			i+1, truncate(c.SourceLabel, 40), c.Hybrid, c.Similarity, c.Boosted, judge)
		dim.Printf("        season=%d category=%s types=%v\n",
			c.Metadata.Season, c.Metadata.Category, c.Metadata.TypeCodes)
	}

	stage.Printf("\n[3] Confidence\n")
	good.Printf("    level=%s score=%.3f %s\n", ranked.Confidence.Level, ranked.Confidence.Score, ranked.Confidence.Stars)
	dim.Printf("    %s\n", ranked.Confidence.Reasoning)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
