package ports

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractResult builds a small result for "a|b" without the evaluator.
func contractResult(t *testing.T, id string, created time.Time) *domain.Result {
	t.Helper()
	n := fsm.NewNamer()
	a, err := fsm.FromSymbol(n, 'a')
	require.NoError(t, err)
	b, err := fsm.FromSymbol(n, 'b')
	require.NoError(t, err)

	raw := fsm.Alternate(a, b)
	g := domain.Group{Operator: '|', Operation: raw}
	g.Deterministic = fsm.Determinize(raw)
	g.Minimized = fsm.Minimize(g.Deterministic)
	g.Simplified = fsm.Simplify(n, g.Minimized)

	return &domain.Result{
		ID:         id,
		Expression: "a|b",
		Postfix:    "a b |",
		CreatedAt:  created,
		Elementary: []*domain.Automaton{a, b},
		Steps:      []domain.Group{g},
	}
}

// RunResultStoreContract runs a suite of tests to verify that a ResultStore
// implementation adheres to the defined interface contract. The store must
// start empty.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	prefix := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		id := prefix + "-save"
		res := contractResult(t, id, base)

		require.NoError(t, store.Save(ctx, res), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, id, loaded.ID)
		assert.Equal(t, res.Expression, loaded.Expression)
		assert.Equal(t, res.Postfix, loaded.Postfix)
		assert.True(t, res.CreatedAt.Equal(loaded.CreatedAt))
		require.Len(t, loaded.Elementary, 2)
		require.Len(t, loaded.Steps, 1)
		assert.Equal(t, '|', loaded.Steps[0].Operator)
		assert.True(t, res.Final().Equal(loaded.Final()))
		assert.Equal(t, res.Final().Format(), loaded.Final().Format())
	})

	t.Run("Load is isolated from the caller", func(t *testing.T) {
		id := prefix + "-isolated"
		res := contractResult(t, id, base)
		require.NoError(t, store.Save(ctx, res))

		res.Expression = "mutated"
		res.Steps = nil

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "a|b", loaded.Expression)
		assert.Len(t, loaded.Steps, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		id := prefix + "-delete"
		require.NoError(t, store.Save(ctx, contractResult(t, id, base)))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrResultNotFound, "Load after Delete should return ErrResultNotFound")
		assert.ErrorIs(t, store.Delete(ctx, id), domain.ErrResultNotFound)

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, ids, id)
	})

	t.Run("List newest first", func(t *testing.T) {
		older := prefix + "-older"
		newer := prefix + "-newer"
		require.NoError(t, store.Save(ctx, contractResult(t, older, base.Add(time.Hour))))
		require.NoError(t, store.Save(ctx, contractResult(t, newer, base.Add(2*time.Hour))))
		defer func() {
			_ = store.Delete(ctx, older)
			_ = store.Delete(ctx, newer)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		require.Contains(t, ids, older)
		require.Contains(t, ids, newer)
		assert.Equal(t, newer, ids[0])
		assert.Less(t, indexOf(ids, newer), indexOf(ids, older))
	})

	t.Run("Concurrent Save", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("%s-concurrent-%d", prefix, i)
				assert.NoError(t, store.Save(ctx, contractResult(t, id, base)))
			}(i)
		}
		wg.Wait()

		for i := 0; i < 8; i++ {
			_, err := store.Load(ctx, fmt.Sprintf("%s-concurrent-%d", prefix, i))
			assert.NoError(t, err)
		}
	})
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
