package memory

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAcquireIsExclusivePerConversation(t *testing.T) {
	repo := NewSessionRepository()
	session := &Session{ConversationID: "conv-1", Active: true, StartedAt: time.Now()}

	assert.True(t, repo.Acquire(session))
	assert.False(t, repo.Acquire(session))

	repo.Delete("conv-1")
	assert.True(t, repo.Acquire(session))
}

func TestAcquireUnderConcurrentAsks(t *testing.T) {
	repo := NewSessionRepository()

	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.Acquire(&Session{ConversationID: "conv-busy", Active: true, StartedAt: time.Now()}) {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)
}
