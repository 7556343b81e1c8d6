package application

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"folio/internal/adapters/filesystem"
	"folio/internal/domain"
)

// fixture is a storage root in a temp dir with every service wired over it
type fixture struct {
	t       *testing.T
	ctx     context.Context
	root    string
	storage *filesystem.Storage
	svc     *Services
	now     time.Time
}

func newFixture(t *testing.T, configure ...func(*Options)) *fixture {
	t.Helper()
	f := &fixture{
		t:    t,
		ctx:  context.Background(),
		root: t.TempDir(),
		now:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	f.storage = filesystem.NewStorage(f.root)

	opts := Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return f.now },
	}
	for _, fn := range configure {
		fn(&opts)
	}
	f.svc = NewServices(f.storage, filesystem.NewIndex(f.storage, opts.Logger), nil, opts)
	return f
}

func (f *fixture) write(rel, content string) {
	f.t.Helper()
	full := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(f.t, os.WriteFile(full, []byte(content), 0644))
}

func (f *fixture) mkdir(rel string) {
	f.t.Helper()
	require.NoError(f.t, os.MkdirAll(filepath.Join(f.root, filepath.FromSlash(rel)), 0755))
}

func (f *fixture) remove(rel string) {
	f.t.Helper()
	require.NoError(f.t, os.RemoveAll(filepath.Join(f.root, filepath.FromSlash(rel))))
}

func (f *fixture) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(f.root, filepath.FromSlash(rel)))
	return err == nil
}

func (f *fixture) read(rel string) string {
	f.t.Helper()
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(rel)))
	require.NoError(f.t, err)
	return string(data)
}

func (f *fixture) load(project string) *domain.ConfigDocument {
	f.t.Helper()
	doc, err := f.svc.Configs.Load(f.ctx, project)
	require.NoError(f.t, err)
	require.NotNil(f.t, doc, "expected a config document for %s", project)
	return doc
}

func (f *fixture) sync(project string) *SyncResult {
	f.t.Helper()
	res, err := f.svc.Sync.Sync(f.ctx, project)
	require.NoError(f.t, err)
	return res
}

func (f *fixture) node(project, rel string) *domain.Node {
	f.t.Helper()
	n := domain.FindByPath(f.load(project).Structure.Tree, rel)
	require.NotNil(f.t, n, "node %s not in tree", rel)
	return n
}

func titles(nodes []*domain.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Title
	}
	return out
}

func orders(nodes []*domain.Node) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.Order
	}
	return out
}
