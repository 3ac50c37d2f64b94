package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabshell/tabshell/backend/internal/shared/types"
)

type fakeProvider struct {
	def      types.Service
	lastTool string
}

func (f *fakeProvider) Definition() types.Service { return f.def }

func (f *fakeProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	f.lastTool = toolID
	return types.Success(map[string]interface{}{"tool": toolID})
}

func newFake(id string, category types.Category, caps ...string) *fakeProvider {
	return &fakeProvider{def: types.Service{
		ID:           id,
		Name:         id,
		Description:  id + " service",
		Category:     category,
		Capabilities: caps,
		Tools:        []types.Tool{{ID: id + ".noop"}},
	}}
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	fp := newFake("terminal", types.CategoryTerminal)

	require.NoError(t, reg.Register(fp))

	got, ok := reg.Get("terminal")
	require.True(t, ok)
	assert.Equal(t, "terminal", got.Definition().ID)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestRegisterRejectsEmptyID(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(&fakeProvider{})
	assert.Error(t, err)
}

func TestListByCategory(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newFake("terminal", types.CategoryTerminal)))
	require.NoError(t, reg.Register(newFake("filesystem", types.CategoryFilesystem)))

	all := reg.List(nil)
	require.Len(t, all, 2)
	assert.Equal(t, "filesystem", all[0].ID)
	assert.Equal(t, "terminal", all[1].ID)

	cat := types.CategoryTerminal
	terminals := reg.List(&cat)
	require.Len(t, terminals, 1)
	assert.Equal(t, "terminal", terminals[0].ID)
}

func TestExecuteRouting(t *testing.T) {
	reg := NewRegistry()
	fp := newFake("terminal", types.CategoryTerminal)
	require.NoError(t, reg.Register(fp))

	result, err := reg.Execute(context.Background(), "terminal.spawn", nil, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "terminal.spawn", fp.lastTool)
}

func TestExecuteErrors(t *testing.T) {
	reg := NewRegistry()

	result, err := reg.Execute(context.Background(), "badformat", nil, nil)
	assert.Error(t, err)
	assert.False(t, result.Success)

	result, err = reg.Execute(context.Background(), "missing.tool", nil, nil)
	assert.Error(t, err)
	assert.False(t, result.Success)
}

func TestDiscover(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newFake("terminal", types.CategoryTerminal, "spawn", "kill")))
	require.NoError(t, reg.Register(newFake("filesystem", types.CategoryFilesystem, "read", "write")))

	found := reg.Discover("open a terminal tab", 5)
	require.NotEmpty(t, found)
	assert.Equal(t, "terminal", found[0].ID)
}

func TestStats(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newFake("terminal", types.CategoryTerminal)))
	require.NoError(t, reg.Register(newFake("filesystem", types.CategoryFilesystem)))

	stats := reg.Stats()
	assert.Equal(t, 2, stats["total_services"])
	assert.Equal(t, 2, stats["total_tools"])
}

func TestUnregister(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newFake("terminal", types.CategoryTerminal)))
	reg.Unregister("terminal")
	_, ok := reg.Get("terminal")
	assert.False(t, ok)
}
