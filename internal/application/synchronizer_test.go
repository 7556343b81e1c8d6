package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
)

func TestSyncBuildsTreeFromFiles(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Volume 1/Chapter 1.md", "one")
	f.write("novel/Volume 1/Chapter 2.md", "two")
	f.write("novel/Board.canvas", "{}")
	f.write("novel/cover.png", "png")
	f.write("novel/.DS_Store", "")
	f.write("novel/misc/notes.md", "meta")

	res := f.sync("novel")
	assert.True(t, res.Persisted)
	assert.Equal(t, 4, res.Added)
	assert.Equal(t, 0, res.Removed)

	tree := f.load("novel").Structure.Tree
	require.Len(t, tree, 2)
	assert.Equal(t, []string{"Board", "Volume 1"}, titles(tree))
	assert.Equal(t, []int{1, 2}, orders(tree))

	assert.Equal(t, domain.NodeCanvas, tree[0].Type)
	vol := tree[1]
	assert.Equal(t, domain.NodeGroup, vol.Type)
	assert.Equal(t, []string{"Chapter 1", "Chapter 2"}, titles(vol.Children))
	assert.Equal(t, "Volume 1/Chapter 2.md", vol.Children[1].Path)
	assert.Equal(t, f.now, vol.Children[0].CreatedAt)
}

func TestSyncIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Chapter 1.md", "")
	f.write("novel/Chapter 2.md", "")

	first := f.sync("novel")
	second := f.sync("novel")

	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 0, second.Removed)
	require.Len(t, second.Tree, 2)
	for i := range first.Tree {
		assert.Equal(t, first.Tree[i].ID, second.Tree[i].ID)
		assert.Equal(t, first.Tree[i].Order, second.Tree[i].Order)
	}
}

func TestSyncPreservesIdentityAndOrder(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Chapter A.md", "")
	f.write("novel/Chapter B.md", "")
	f.sync("novel")

	// Reverse the stored order and rename one title by hand
	doc := f.load("novel")
	doc.Structure.Tree[0].Order, doc.Structure.Tree[1].Order = 2, 1
	doc.Structure.Tree[0].Title = "Opening"
	doc.Structure.Tree[0].Completed = true
	require.NoError(t, f.svc.Configs.Save(f.ctx, "novel", domain.TreePatch(doc.Structure.Tree)))

	f.write("novel/Chapter 0.md", "")
	f.remove("novel/Chapter B.md")
	f.write("novel/Chapter C.md", "")

	res := f.sync("novel")
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 1, res.Removed)

	tree := f.load("novel").Structure.Tree
	assert.Equal(t, []string{"Opening", "Chapter 0", "Chapter C"}, titles(tree))
	assert.Equal(t, []int{1, 2, 3}, orders(tree))
	assert.Equal(t, doc.Structure.Tree[0].ID, tree[0].ID)
	assert.True(t, tree[0].Completed)
}

func TestSyncOrdersAreContiguous(t *testing.T) {
	f := newFixture(t)
	for _, p := range []string{"A/x.md", "A/y.md", "A/B/z.md", "c.md", "d.canvas"} {
		f.write("novel/"+p, "")
	}
	f.sync("novel")

	var check func([]*domain.Node)
	check = func(nodes []*domain.Node) {
		for i, n := range nodes {
			assert.Equal(t, i+1, n.Order, "node %s", n.Path)
			check(n.Children)
		}
	}
	check(f.load("novel").Structure.Tree)
}

func TestSyncPersistsGenuinelyEmptyProject(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Chapter 1.md", "")
	f.sync("novel")

	f.remove("novel/Chapter 1.md")
	res := f.sync("novel")

	assert.True(t, res.Persisted)
	assert.Equal(t, 1, res.Removed)
	assert.Empty(t, f.load("novel").Structure.Tree)
}

func TestSyncIgnorePatterns(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Ignore = []string{"drafts/**", "**/*.tmp.md"} })
	f.write("novel/Chapter 1.md", "")
	f.write("novel/Chapter 2.tmp.md", "")
	f.write("novel/drafts/old.md", "")

	res := f.sync("novel")
	var paths []string
	domain.Walk(res.Tree, func(n *domain.Node) bool {
		paths = append(paths, n.Path)
		return true
	})
	assert.Contains(t, paths, "Chapter 1.md")
	assert.NotContains(t, paths, "Chapter 2.tmp.md")
	assert.NotContains(t, paths, "drafts/old.md")
}

func TestSyncMissingProject(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Sync.Sync(f.ctx, "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBuildTreeDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Chapter 1.md", "")

	tree := f.svc.Sync.BuildTree(f.ctx, "novel")
	require.Len(t, tree, 1)
	assert.False(t, f.exists("novel/misc/project-config.json"))

	assert.Empty(t, f.svc.Sync.BuildTree(f.ctx, "ghost"))
}
