package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

func TestNewBackend(t *testing.T) {
	repo := NewBackend()
	require.NoError(t, repo.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer repo.Detach()

	tbl, err := repo.GetTable(types.TableTypes)
	require.NoError(t, err)
	_, err = tbl.Set("", &types.ProductCmptType{QualifiedName: "motor.Product"})
	require.NoError(t, err)

	p, err := repo.LoadProject()
	require.NoError(t, err)
	assert.NotNil(t, p.FindType("motor.Product"))
}
