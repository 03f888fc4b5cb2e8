// Package retention bounds the citation payloads kept per conversation.
// Answers stay forever; only the citation metadata attached to older
// assistant turns is cleared.
package retention

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// CitationPruner clears citation payloads from all but the newest kept
// assistant messages of a conversation and reports how many rows it touched.
type CitationPruner interface {
	PruneCitations(ctx context.Context, conversationID uuid.UUID, keepLastN int) (int64, error)
}

// Manager runs the retention policy after every persisted answer.
type Manager struct {
	pruner    CitationPruner
	keepLastN int
	logger    *log.Logger
}

func NewManager(pruner CitationPruner, keepLastN int, logger *log.Logger) *Manager {
	if keepLastN < 1 {
		keepLastN = 1
	}
	return &Manager{pruner: pruner, keepLastN: keepLastN, logger: logger}
}

// Prune enforces the bound for one conversation. Safe to call after every
// answer; once the bound holds, further calls touch nothing.
func (m *Manager) Prune(ctx context.Context, conversationID uuid.UUID) error {
	cleared, err := m.pruner.PruneCitations(ctx, conversationID, m.keepLastN)
	if err != nil {
		return fmt.Errorf("prune citations for conversation %s: %w", conversationID, err)
	}
	if cleared > 0 && m.logger != nil {
		m.logger.Printf("[INFO] Cleared citations from %d older messages in conversation %s", cleared, conversationID)
	}
	return nil
}
