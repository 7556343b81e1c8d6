package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"folio/internal/domain"
	"folio/internal/ports"
)

type processedEvent struct {
	project string
	kind    ports.ChangeKind
	err     error
}

func startScheduler(t *testing.T, f *fixture) (*Scheduler, <-chan processedEvent) {
	t.Helper()
	events := make(chan processedEvent, 16)
	s := NewScheduler(f.svc.Sync, f.svc.Mutator, f.svc.Stats, 30*time.Millisecond, nil)
	s.OnProcessed(func(project string, kind ports.ChangeKind, err error) {
		events <- processedEvent{project, kind, err}
	})
	s.Start(context.Background())
	return s, events
}

func waitEvent(t *testing.T, events <-chan processedEvent) processedEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a refresh")
		return processedEvent{}
	}
}

func assertNoEvent(t *testing.T, events <-chan processedEvent, within time.Duration) {
	t.Helper()
	select {
	case ev := <-events:
		t.Fatalf("unexpected refresh %+v", ev)
	case <-time.After(within):
	}
}

func TestSchedulerCoalescesBursts(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	f.write("novel/Chapter 1.md", "one two")
	f.sync("novel")
	s, events := startScheduler(t, f)
	defer s.Stop()

	for i := 0; i < 10; i++ {
		s.Notify("novel", ports.ChangeContent)
	}

	ev := waitEvent(t, events)
	require.NoError(t, ev.err)
	assert.Equal(t, "novel", ev.project)
	assert.Equal(t, ports.ChangeContent, ev.kind)
	assertNoEvent(t, events, 150*time.Millisecond)

	assert.Equal(t, 2, f.load("novel").Stats.TotalWords)
}

func TestSchedulerStructuralChangeSyncsTree(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	f.write("novel/Chapter 1.md", "one")
	f.sync("novel")
	s, events := startScheduler(t, f)
	defer s.Stop()

	f.write("novel/Chapter 2.md", "two three")
	s.Notify("novel", ports.ChangeContent)
	s.Notify("novel", ports.ChangeStructure)
	s.Notify("novel", ports.ChangeContent)

	ev := waitEvent(t, events)
	require.NoError(t, ev.err)
	assert.Equal(t, ports.ChangeStructure, ev.kind, "the strongest pending change wins")

	doc := f.load("novel")
	assert.NotNil(t, domain.FindByPath(doc.Structure.Tree, "Chapter 2.md"))
	assert.Equal(t, 3, doc.Stats.TotalWords)
}

func TestSchedulerProjectsAreIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	f.write("a/Chapter 1.md", "x")
	f.write("b/Chapter 1.md", "y z")
	s, events := startScheduler(t, f)
	defer s.Stop()

	s.Notify("a", ports.ChangeStructure)
	s.Notify("b", ports.ChangeStructure)

	seen := map[string]bool{}
	for range 2 {
		ev := waitEvent(t, events)
		require.NoError(t, ev.err)
		seen[ev.project] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true}, seen)
}

func TestSchedulerAsRefresher(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	f.write("novel/Chapter 1.md", "one")
	f.write("novel/Notes.md", "two three")
	f.sync("novel")
	s, events := startScheduler(t, f)
	defer s.Stop()
	f.svc.Mutator.SetRefresher(s)

	require.NoError(t, f.svc.Mutator.SetInclusion(f.ctx, "novel", "Notes.md", domain.InclusionOverride{Include: true}))
	// Baseline is written synchronously, the recount is deferred
	assert.Contains(t, f.load("novel").Stats.PerChapter, "Notes.md")

	ev := waitEvent(t, events)
	require.NoError(t, ev.err)
	assert.Equal(t, 3, f.load("novel").Stats.TotalWords)
}

func TestSchedulerStopDropsPendingWork(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	f.write("novel/Chapter 1.md", "one")
	f.sync("novel")

	events := make(chan processedEvent, 1)
	s := NewScheduler(f.svc.Sync, f.svc.Mutator, f.svc.Stats, time.Hour, nil)
	s.OnProcessed(func(project string, kind ports.ChangeKind, err error) {
		events <- processedEvent{project, kind, err}
	})
	s.Start(context.Background())

	s.Notify("novel", ports.ChangeContent)
	s.Stop()
	s.Stop()
	s.Notify("novel", ports.ChangeContent)

	assertNoEvent(t, events, 50*time.Millisecond)
	assert.Equal(t, 0, f.load("novel").Stats.TotalWords)
}

func TestSchedulerMissingProjectReportsError(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	s, events := startScheduler(t, f)
	defer s.Stop()

	s.Notify("ghost", ports.ChangeStructure)
	ev := waitEvent(t, events)
	assert.ErrorIs(t, ev.err, ErrNotFound)
}
