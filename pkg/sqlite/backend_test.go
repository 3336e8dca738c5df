package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tokens/pkg/sqlite"
	"github.com/mesh-intelligence/tokens/pkg/tokens"
	"github.com/mesh-intelligence/tokens/pkg/types"
)

func TestNewBackend(t *testing.T) {
	store := sqlite.NewBackend(nil)
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer store.Detach()

	id, err := store.Save("public", tokens.Default().Declaration())
	require.NoError(t, err)

	s, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "public", s.Label)
	assert.Equal(t, tokens.Default().Declaration(), s.Declaration)
}
