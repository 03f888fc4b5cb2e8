package retention

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePruner models a conversation as an ordered list of flags marking which
// assistant messages still carry citations.
type fakePruner struct {
	hasCitations []bool
	err          error
	calls        int
}

func (f *fakePruner) PruneCitations(ctx context.Context, conversationID uuid.UUID, keepLastN int) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	// Keep window is the newest keepLastN messages; everything older loses
	// its citations, mirroring the repository's NOT IN (newest-N) update.
	cutoff := len(f.hasCitations) - keepLastN
	if cutoff < 0 {
		cutoff = 0
	}
	var cleared int64
	for i := 0; i < cutoff; i++ {
		if f.hasCitations[i] {
			f.hasCitations[i] = false
			cleared++
		}
	}
	return cleared, nil
}

func (f *fakePruner) citedCount() int {
	n := 0
	for _, has := range f.hasCitations {
		if has {
			n++
		}
	}
	return n
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestPruneEnforcesBound(t *testing.T) {
	pruner := &fakePruner{hasCitations: []bool{true, true, true, true, true, true, true, true, true}}
	m := NewManager(pruner, 6, discardLogger())

	err := m.Prune(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 6, pruner.citedCount())

	// The newest messages keep their citations.
	for i := 3; i < 9; i++ {
		assert.True(t, pruner.hasCitations[i])
	}
}

func TestPruneUnderBoundTouchesNothing(t *testing.T) {
	pruner := &fakePruner{hasCitations: []bool{true, true, true}}
	m := NewManager(pruner, 6, discardLogger())

	err := m.Prune(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 3, pruner.citedCount())
}

func TestPruneIsIdempotent(t *testing.T) {
	pruner := &fakePruner{hasCitations: make([]bool, 10)}
	for i := range pruner.hasCitations {
		pruner.hasCitations[i] = true
	}
	m := NewManager(pruner, 6, discardLogger())

	require.NoError(t, m.Prune(context.Background(), uuid.New()))
	after := pruner.citedCount()
	require.NoError(t, m.Prune(context.Background(), uuid.New()))
	assert.Equal(t, after, pruner.citedCount())
	assert.Equal(t, 2, pruner.calls)
}

func TestPruneGapsStillBounded(t *testing.T) {
	// Messages cleared by earlier prunes stay cleared; the bound holds over
	// the newest window regardless.
	pruner := &fakePruner{hasCitations: []bool{true, false, true, false, true, true, true, true, true, true}}
	m := NewManager(pruner, 6, discardLogger())

	require.NoError(t, m.Prune(context.Background(), uuid.New()))
	assert.Equal(t, 6, pruner.citedCount())
}

func TestPruneBoundHoldsAcrossSequentialWrites(t *testing.T) {
	pruner := &fakePruner{}
	m := NewManager(pruner, 6, discardLogger())
	conversation := uuid.New()

	for written := 1; written <= 10; written++ {
		pruner.hasCitations = append(pruner.hasCitations, true)
		require.NoError(t, m.Prune(context.Background(), conversation))

		want := written
		if want > 6 {
			want = 6
		}
		assert.Equal(t, want, pruner.citedCount(), "after %d writes", written)
	}
}

func TestPruneWrapsRepositoryError(t *testing.T) {
	pruner := &fakePruner{err: fmt.Errorf("connection reset")}
	m := NewManager(pruner, 6, discardLogger())

	err := m.Prune(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prune citations")
}

func TestNewManagerFloorsKeepLastN(t *testing.T) {
	pruner := &fakePruner{hasCitations: []bool{true, true}}
	m := NewManager(pruner, 0, discardLogger())

	require.NoError(t, m.Prune(context.Background(), uuid.New()))
	assert.Equal(t, 1, pruner.citedCount())
}
