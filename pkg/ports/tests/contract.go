package tests

import (
	"context"
	"testing"

	"github.com/aretw0/archiscript/internal/compiler"
	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/aretw0/archiscript/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ModelLoaderContractTest is a reusable test suite that verifies an adapter
// complies with ports.ModelLoader. wantIDs lists the node ids the loader is
// expected to produce, in pre-order.
func ModelLoaderContractTest(t *testing.T, loader ports.ModelLoader, wantIDs []string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load", func(t *testing.T) {
		rec, err := loader.Load(ctx)
		require.NoError(t, err)

		m, err := compiler.NewAssembler(nil).Assemble(rec)
		require.NoError(t, err, "loaded records must assemble")

		var ids []string
		m.Root().Walk(func(n *domain.Node) bool {
			ids = append(ids, n.ID)
			return true
		})
		assert.Equal(t, wantIDs, ids)
	})

	t.Run("Load_ReturnsCopies", func(t *testing.T) {
		first, err := loader.Load(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, first.Nodes)
		first.Nodes[0].Name = "mutated by caller"

		second, err := loader.Load(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated by caller", second.Nodes[0].Name)
	})

	t.Run("Load_Canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := loader.Load(canceled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
