package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/regfsm/pkg/adapters/file"
	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/ports"
	"github.com/aretw0/regfsm/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ResultStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	for _, format := range []schema.Format{schema.FormatJSON, schema.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			ports.RunResultStoreContract(t, file.NewStore(t.TempDir(), format))
		})
	}
}

func TestFileStore_Layout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := file.NewStore(dir, schema.FormatYAML)
	ctx := context.Background()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	r := &domain.Result{ID: "r1", Expression: "ε", Postfix: "ε"}
	require.NoError(t, store.Save(ctx, r))

	_, err = os.Stat(filepath.Join(dir, "r1.yaml"))
	assert.NoError(t, err)

	// Stray files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids)
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	store := file.NewStore(t.TempDir(), "")
	ctx := context.Background()

	for _, id := range []string{"", "../escape", "a/b", `a\b`} {
		assert.Error(t, store.Save(ctx, &domain.Result{ID: id}), id)
		_, err := store.Load(ctx, id)
		assert.Error(t, err, id)
		assert.NotErrorIs(t, err, domain.ErrResultNotFound, id)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir, schema.FormatJSON)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))

	_, err := store.Load(context.Background(), "bad")
	assert.Error(t, err)
	_, err = store.List(context.Background())
	assert.Error(t, err)
}
