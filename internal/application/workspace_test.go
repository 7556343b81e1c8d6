package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceProjects(t *testing.T) {
	f := newFixture(t)
	f.write("beta/Chapter 1.md", "")
	f.write("alpha/misc/project-config.json", `{"basic":{"title":"The Alpha"}}`)

	projects := f.svc.Workspace.Refresh(f.ctx)
	require.Len(t, projects, 2)
	assert.Equal(t, projects, f.svc.Workspace.Projects())

	p, err := f.svc.Workspace.Resolve("the alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", p.Path)

	p, err = f.svc.Workspace.Resolve("beta")
	require.NoError(t, err)
	assert.Equal(t, "beta", p.Name)

	_, err = f.svc.Workspace.Resolve("gamma")
	assert.True(t, errors.Is(err, ErrNotFound))

	owner, ok := f.svc.Workspace.Owner("beta/Chapter 1.md")
	assert.True(t, ok)
	assert.Equal(t, "beta", owner.Path)
	_, ok = f.svc.Workspace.Owner("loose.md")
	assert.False(t, ok)
}

func TestWorkspaceExpansion(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Volume 1/Chapter 1.md", "")
	f.write("novel/Volume 2/Chapter 2.md", "")
	f.sync("novel")
	require.NoError(t, f.svc.Mutator.SetExpanded(f.ctx, "novel", "Volume 2", true))
	f.svc.Workspace.Refresh(f.ctx)

	tree, err := f.svc.Workspace.Tree(f.ctx, "novel")
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.False(t, f.svc.Workspace.IsExpanded("novel", "Volume 1"))
	assert.True(t, f.svc.Workspace.IsExpanded("novel", "Volume 2"))

	open, err := f.svc.Workspace.ToggleExpanded(f.ctx, "novel", "Volume 1")
	require.NoError(t, err)
	assert.True(t, open)
	assert.True(t, f.node("novel", "Volume 1").IsExpanded)

	// Files cannot be expanded and the state rolls back
	open, err = f.svc.Workspace.ToggleExpanded(f.ctx, "novel", "Volume 1/Chapter 1.md")
	assert.Error(t, err)
	assert.False(t, open)
	assert.False(t, f.svc.Workspace.IsExpanded("novel", "Volume 1/Chapter 1.md"))
}

func TestWorkspaceNode(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Volume 1/Chapter 1.md", "")
	_, err := f.svc.Sync.Sync(f.ctx, "novel")
	require.NoError(t, err)

	byPath, err := f.svc.Workspace.Node(f.ctx, "novel", "Volume 1/Chapter 1.md")
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1", byPath.Title)

	byID, err := f.svc.Workspace.Node(f.ctx, "novel", byPath.ID)
	require.NoError(t, err)
	assert.Equal(t, byPath.Path, byID.Path)

	folder, err := f.svc.Workspace.Node(f.ctx, "novel", "Volume 1/")
	require.NoError(t, err)
	assert.True(t, folder.IsGroup())

	_, err = f.svc.Workspace.Node(f.ctx, "novel", "Volume 2")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Workspace.Node(f.ctx, "missing", "x.md")
	assert.ErrorIs(t, err, ErrNotFound)
}
