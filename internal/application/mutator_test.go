package application

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
)

func TestParsePosition(t *testing.T) {
	for _, s := range []string{"before", "After", " inside "} {
		_, err := ParsePosition(s)
		assert.NoError(t, err, s)
	}
	_, err := ParsePosition("below")
	assert.True(t, errors.Is(err, ErrInvalidPosition))
}

func TestReorderWithinParent(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Chapter 1.md", "")
	f.write("novel/Chapter 2.md", "")
	f.write("novel/Chapter 3.md", "")
	f.sync("novel")

	third := f.node("novel", "Chapter 3.md")
	first := f.node("novel", "Chapter 1.md")

	require.NoError(t, f.svc.Mutator.Reorder(f.ctx, "novel", third.ID, first.ID, PositionBefore))
	tree := f.load("novel").Structure.Tree
	assert.Equal(t, []string{"Chapter 3", "Chapter 1", "Chapter 2"}, titles(tree))
	assert.Equal(t, []int{1, 2, 3}, orders(tree))

	require.NoError(t, f.svc.Mutator.Reorder(f.ctx, "novel", third.ID, tree[2].ID, PositionAfter))
	tree = f.load("novel").Structure.Tree
	assert.Equal(t, []string{"Chapter 1", "Chapter 2", "Chapter 3"}, titles(tree))
	assert.True(t, f.exists("novel/Chapter 3.md"))

	// Sync keeps the edited order
	f.sync("novel")
	assert.Equal(t, []string{"Chapter 1", "Chapter 2", "Chapter 3"}, titles(f.load("novel").Structure.Tree))
}

func TestReorderInsideMovesFile(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Volume 1/Chapter 1.md", "three little words")
	f.write("novel/Volume 2/Chapter 2.md", "two words")
	f.sync("novel")
	_, err := f.svc.Stats.ComputeAndSave(f.ctx, "novel")
	require.NoError(t, err)

	dragged := f.node("novel", "Volume 1/Chapter 1.md")
	target := f.node("novel", "Volume 2")

	require.NoError(t, f.svc.Mutator.Reorder(f.ctx, "novel", dragged.ID, target.ID, PositionInside))

	assert.False(t, f.exists("novel/Volume 1/Chapter 1.md"))
	assert.Equal(t, "three little words", f.read("novel/Volume 2/Chapter 1.md"))

	doc := f.load("novel")
	moved := domain.FindByPath(doc.Structure.Tree, "Volume 2/Chapter 1.md")
	require.NotNil(t, moved)
	assert.Equal(t, dragged.ID, moved.ID)

	vol2 := domain.FindByPath(doc.Structure.Tree, "Volume 2")
	assert.True(t, vol2.IsExpanded)
	assert.Equal(t, []string{"Chapter 2", "Chapter 1"}, titles(vol2.Children))
	assert.Equal(t, []int{1, 2}, orders(vol2.Children))
	assert.Empty(t, domain.FindByPath(doc.Structure.Tree, "Volume 1").Children)

	assert.Equal(t, map[string]int{"Volume 2/Chapter 1.md": 3, "Volume 2/Chapter 2.md": 2}, doc.Stats.PerChapter)
	assert.Equal(t, 5, doc.Stats.TotalWords)
}

func TestReorderMovesFolderWithDescendants(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Part/Volume 1/Chapter 1.md", "")
	f.write("novel/Other/Chapter 9.md", "")
	f.sync("novel")

	vol := f.node("novel", "Part/Volume 1")
	other := f.node("novel", "Other/Chapter 9.md")

	require.NoError(t, f.svc.Mutator.Reorder(f.ctx, "novel", vol.ID, other.ID, PositionBefore))
	assert.True(t, f.exists("novel/Other/Volume 1/Chapter 1.md"))
	assert.Equal(t, vol.ID, f.node("novel", "Other/Volume 1").ID)
	f.node("novel", "Other/Volume 1/Chapter 1.md")
}

func TestReorderInsideFileBecomesAfter(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Chapter 1.md", "")
	f.write("novel/Chapter 2.md", "")
	f.write("novel/Chapter 3.md", "")
	f.sync("novel")

	first := f.node("novel", "Chapter 1.md")
	second := f.node("novel", "Chapter 2.md")
	require.NoError(t, f.svc.Mutator.Reorder(f.ctx, "novel", first.ID, second.ID, PositionInside))
	assert.Equal(t, []string{"Chapter 2", "Chapter 1", "Chapter 3"}, titles(f.load("novel").Structure.Tree))
}

func TestReorderCollisionLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Volume 1/Chapter 1.md", "mine")
	f.write("novel/Volume 2/Chapter 1.md", "theirs")
	f.sync("novel")
	before := f.read("novel/misc/project-config.json")

	dragged := f.node("novel", "Volume 1/Chapter 1.md")
	target := f.node("novel", "Volume 2")

	err := f.svc.Mutator.Reorder(f.ctx, "novel", dragged.ID, target.ID, PositionInside)
	var moveErr *MoveError
	require.ErrorAs(t, err, &moveErr)
	assert.True(t, errors.Is(err, fs.ErrExist))
	assert.Equal(t, "Volume 1/Chapter 1.md", moveErr.Source)
	assert.Equal(t, "Volume 2/Chapter 1.md", moveErr.Dest)

	assert.Equal(t, before, f.read("novel/misc/project-config.json"))
	assert.Equal(t, "mine", f.read("novel/Volume 1/Chapter 1.md"))
	assert.Equal(t, "theirs", f.read("novel/Volume 2/Chapter 1.md"))
}

func TestReorderRejectsInvalidDrops(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Volume 1/Chapter 1.md", "")
	f.sync("novel")

	vol := f.node("novel", "Volume 1")
	child := f.node("novel", "Volume 1/Chapter 1.md")

	tests := []struct {
		name    string
		dragged string
		target  string
		want    error
	}{
		{"onto itself", vol.ID, vol.ID, ErrInvalidOperation},
		{"into own subtree", vol.ID, child.ID, ErrInvalidOperation},
		{"unknown dragged", "nope", vol.ID, ErrNotFound},
		{"unknown target", child.ID, "nope", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.Mutator.Reorder(f.ctx, "novel", tt.dragged, tt.target, PositionInside)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
	assert.True(t, f.exists("novel/Volume 1/Chapter 1.md"))
}

func TestSetInclusionUpdatesStats(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Chapter 1.md", "one two")
	f.write("novel/Notes.md", "three four five")
	f.sync("novel")
	_, err := f.svc.Stats.ComputeAndSave(f.ctx, "novel")
	require.NoError(t, err)
	assert.Equal(t, 2, f.load("novel").Stats.TotalWords)

	require.NoError(t, f.svc.Mutator.SetInclusion(f.ctx, "novel", "Notes.md", domain.InclusionOverride{Include: true}))
	doc := f.load("novel")
	assert.Equal(t, 5, doc.Stats.TotalWords)
	assert.True(t, domain.FindByPath(doc.Structure.Tree, "Notes.md").Include)

	require.NoError(t, f.svc.Mutator.SetInclusion(f.ctx, "novel", "Chapter 1.md", domain.InclusionOverride{Include: true, Exclude: true}))
	doc = f.load("novel")
	assert.Equal(t, map[string]int{"Notes.md": 3}, doc.Stats.PerChapter)
	ch := domain.FindByPath(doc.Structure.Tree, "Chapter 1.md")
	assert.True(t, ch.Exclude)
	assert.False(t, ch.Include, "exclude wins over include")

	require.NoError(t, f.svc.Mutator.SetInclusion(f.ctx, "novel", "Chapter 1.md", domain.InclusionOverride{}))
	assert.Equal(t, 5, f.load("novel").Stats.TotalWords)
}

type countingRefresher struct {
	calls atomic.Int32
}

func (r *countingRefresher) Refresh(context.Context, string) {
	r.calls.Add(1)
}

func TestSetRefresherWhileEditing(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Chapter 1.md", "one two")
	f.sync("novel")

	counter := &countingRefresher{}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			f.svc.Mutator.SetRefresher(counter)
			f.svc.Mutator.SetRefresher(nil)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			assert.NoError(t, f.svc.Mutator.SetInclusion(f.ctx, "novel", "Chapter 1.md", domain.InclusionOverride{Exclude: i%2 == 0}))
		}
	}()
	wg.Wait()

	f.svc.Mutator.SetRefresher(counter)
	before := counter.calls.Load()
	require.NoError(t, f.svc.Mutator.SetInclusion(f.ctx, "novel", "Chapter 1.md", domain.InclusionOverride{}))
	assert.Equal(t, before+1, counter.calls.Load())

	f.svc.Mutator.SetRefresher(nil)
	require.NoError(t, f.svc.Mutator.SetInclusion(f.ctx, "novel", "Chapter 1.md", domain.InclusionOverride{Exclude: true}))
	assert.Equal(t, before+1, counter.calls.Load(), "nil restores synchronous recomputation")
	assert.Equal(t, 0, f.load("novel").Stats.TotalWords)
}

func TestSetInclusionOnFolderCascades(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Volume 1/Chapter 1.md", "a b")
	f.write("novel/Volume 1/Chapter 2.md", "c")
	f.write("novel/Chapter 3.md", "d e f")
	f.sync("novel")

	require.NoError(t, f.svc.Mutator.SetInclusion(f.ctx, "novel", "Volume 1", domain.InclusionOverride{Exclude: true}))
	assert.Equal(t, map[string]int{"Chapter 3.md": 3}, f.load("novel").Stats.PerChapter)
}

func TestSetCompletedAndExpanded(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Volume 1/Chapter 1.md", "")
	f.sync("novel")

	require.NoError(t, f.svc.Mutator.SetCompleted(f.ctx, "novel", "Volume 1/Chapter 1.md", true))
	assert.True(t, f.node("novel", "Volume 1/Chapter 1.md").Completed)

	require.NoError(t, f.svc.Mutator.SetExpanded(f.ctx, "novel", "Volume 1", true))
	assert.True(t, f.node("novel", "Volume 1").IsExpanded)

	err := f.svc.Mutator.SetExpanded(f.ctx, "novel", "Volume 1/Chapter 1.md", true)
	assert.True(t, errors.Is(err, ErrInvalidOperation))

	err = f.svc.Mutator.SetCompleted(f.ctx, "novel", "Volume 9", true)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSyncStatsBaseline(t *testing.T) {
	f := newFixture(t)
	f.write("novel/Chapter 1.md", "x")
	f.write("novel/misc/project-config.json", `{"stats":{"total_words":40,"per_chapter":{"Chapter 1.md":4,"Gone.md":9}}}`)

	f.write("novel/Chapter 2.md", "y")
	require.NoError(t, f.svc.Mutator.SyncStatsBaseline(f.ctx, "novel"))

	doc := f.load("novel")
	assert.Equal(t, map[string]int{"Chapter 1.md": 4, "Chapter 2.md": 0}, doc.Stats.PerChapter)
	assert.Equal(t, 40, doc.Stats.TotalWords, "baseline sync does not recount")
}
