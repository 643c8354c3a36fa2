package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bandgo/server/internal/band"
)

const testScript = `
function check_on_diagonal(params, positions)
    local p = positions[params.entity]
    if p == nil then
        return false
    end
    return p.x == p.y
end

function check_broken(params, positions)
    error("scripted failure")
end
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "checks.lua"), []byte(testScript), 0o644)
	require.NoError(t, err)

	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestEngineMissingDirIsEmpty(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	require.False(t, e.HasCheck("check_on_diagonal"))
	require.False(t, e.HasCheck(""))
}

func TestEngineCheck(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.HasCheck("check_on_diagonal"))

	params := map[string]any{"entity": "W1"}
	require.True(t, e.Check("check_on_diagonal", params, band.Snapshot{"W1": {X: 3, Y: 3}}))
	require.False(t, e.Check("check_on_diagonal", params, band.Snapshot{"W1": {X: 3, Y: 4}}))
	require.False(t, e.Check("check_on_diagonal", params, band.Snapshot{}))
}

func TestEngineBrokenCheckFailsClosed(t *testing.T) {
	e := newTestEngine(t)
	require.False(t, e.Check("check_broken", nil, band.Snapshot{}))
	require.False(t, e.Check("no_such_check", nil, band.Snapshot{}))
}
