package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"folio/internal/domain"
	"folio/internal/ports"
)

// StatsEngine computes word counts and progress for a project and persists them under stats
type StatsEngine struct {
	storage ports.Storage
	configs *ConfigStore
	cache   ports.WordCountCache // optional
	opts    Options
}

// NewStatsEngine creates a stats engine; cache may be nil
func NewStatsEngine(storage ports.Storage, configs *ConfigStore, cache ports.WordCountCache, opts Options) *StatsEngine {
	return &StatsEngine{storage: storage, configs: configs, cache: cache, opts: opts.withDefaults()}
}

// Rules returns the inclusion rules in effect
func (e *StatsEngine) Rules() domain.Rules {
	return e.opts.Rules
}

// Countable lists the project-relative markdown files that count toward the stats
func (e *StatsEngine) Countable(ctx context.Context, projectPath string) ([]string, error) {
	doc, err := e.configs.Load(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	return e.countable(ctx, projectPath, doc)
}

func (e *StatsEngine) countable(ctx context.Context, projectPath string, doc *domain.ConfigDocument) ([]string, error) {
	typ := domain.ProjectBook
	var tree []*domain.Node
	if doc != nil {
		typ = doc.Type()
		tree = doc.Structure.Tree
	}
	sets := domain.BuildOverrideSets(tree)

	files, err := e.markdownFiles(ctx, projectPath, "")
	if err != nil {
		return nil, err
	}
	included := files[:0]
	for _, f := range files {
		if e.opts.Rules.Includes(typ, f, sets) {
			included = append(included, f)
		}
	}
	return included, nil
}

// markdownFiles collects markdown files below dir, skipping the metadata folder, dotfiles and ignored paths
func (e *StatsEngine) markdownFiles(ctx context.Context, projectPath, dir string) ([]string, error) {
	entries, err := e.storage.List(ctx, path.Join(projectPath, dir))
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		rel := path.Join(dir, entry.Name)
		if domain.IsHidden(entry.Name) || domain.IsMetaPath(rel) || e.opts.Ignored(rel) {
			continue
		}
		if entry.IsDir {
			sub, err := e.markdownFiles(ctx, projectPath, rel)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				e.opts.Logger.Warn("skipping unreadable folder", slog.String("project", projectPath), slog.String("path", rel), slog.Any("error", err))
				continue
			}
			files = append(files, sub...)
			continue
		}
		if domain.IsMarkdown(entry.Name) {
			files = append(files, rel)
		}
	}
	sort.Strings(files)
	return files, nil
}

// ComputeAndSave recounts every countable file, updates the daily ledger and
// progress figures, and persists the stats section.
func (e *StatsEngine) ComputeAndSave(ctx context.Context, projectPath string) (*domain.Stats, error) {
	doc, err := e.configs.Load(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	files, err := e.countable(ctx, projectPath, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of %s: %w", projectPath, err)
	}

	counts := make([]countResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			counts[i] = e.countFile(gctx, projectPath, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	perChapter := make(map[string]int, len(files))
	for i, f := range files {
		perChapter[f] = counts[i].words
	}
	e.remember(projectPath, counts)

	var prev domain.Stats
	if doc != nil {
		prev = doc.Stats
	}
	next := domain.NextStats(prev, perChapter, e.opts.Now())

	if err := e.configs.Save(ctx, projectPath, domain.StatsPatch(next), "stats.per_chapter", "stats.daily_words"); err != nil {
		return nil, err
	}

	e.opts.Logger.Debug("stats computed",
		slog.String("project", projectPath),
		slog.Int("files", len(files)),
		slog.Int("total_words", next.TotalWords))
	return &next, nil
}

type countResult struct {
	key   string
	words int
	entry *ports.CachedCount // set when the cache needs updating
}

// countFile returns the words of one file; unreadable files count 0
func (e *StatsEngine) countFile(ctx context.Context, projectPath, rel string) countResult {
	key := path.Join(projectPath, rel)

	var cached *ports.CachedCount
	var info ports.Entry
	statOK := false
	if e.cache != nil {
		var err error
		if info, err = e.storage.Stat(ctx, key); err == nil {
			statOK = true
			cached, _ = e.cache.Get(key)
			if cached != nil && cached.Size == info.Size && cached.ModTime == info.ModTime.UnixNano() {
				return countResult{key: key, words: cached.Words}
			}
		}
	}

	data, err := e.storage.Read(ctx, key)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			e.opts.Logger.Warn("skipping unreadable file", slog.String("project", projectPath), slog.String("path", rel), slog.Any("error", err))
		}
		return countResult{key: key}
	}

	if e.cache == nil || !statOK {
		return countResult{key: key, words: domain.CountWords(string(data))}
	}

	hash := xxhash.Sum64(data)
	words := 0
	if cached != nil && cached.Hash == hash {
		words = cached.Words
	} else {
		words = domain.CountWords(string(data))
	}
	return countResult{
		key:   key,
		words: words,
		entry: &ports.CachedCount{
			Path:    key,
			Size:    info.Size,
			ModTime: info.ModTime.UnixNano(),
			Hash:    hash,
			Words:   words,
		},
	}
}

// remember writes fresh counts to the cache and prunes files that no longer count
func (e *StatsEngine) remember(projectPath string, counts []countResult) {
	if e.cache == nil {
		return
	}
	live := make(map[string]bool, len(counts))
	tx, err := e.cache.BeginTx()
	if err != nil {
		e.opts.Logger.Debug("word count cache unavailable", slog.Any("error", err))
		return
	}
	for _, c := range counts {
		live[c.key] = true
		if c.entry == nil {
			continue
		}
		if err := tx.Upsert(c.entry); err != nil {
			_ = tx.Rollback()
			e.opts.Logger.Debug("word count cache update failed", slog.Any("error", err))
			return
		}
	}
	if err := tx.Commit(); err != nil {
		e.opts.Logger.Debug("word count cache commit failed", slog.Any("error", err))
		return
	}
	if n, err := e.cache.Prune(projectPath, live); err != nil {
		e.opts.Logger.Debug("word count cache prune failed", slog.Any("error", err))
	} else if n > 0 {
		e.opts.Logger.Debug("pruned word count cache", slog.String("project", projectPath), slog.Int("entries", n))
	}
}

// SetTarget stores the word goal and recomputes progress_by_words
func (e *StatsEngine) SetTarget(ctx context.Context, projectPath string, words int) (*domain.Stats, error) {
	if err := ValidateNonNegative("words", words); err != nil {
		return nil, err
	}
	doc, err := e.configs.Load(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	var stats domain.Stats
	if doc != nil {
		stats = doc.Stats
	}
	stats.TargetTotalWords = words
	stats.ProgressByWords = domain.Percent(stats.TotalWords, words)

	patch := domain.Patch{"stats": map[string]any{
		"target_total_words": stats.TargetTotalWords,
		"progress_by_words":  stats.ProgressByWords,
	}}
	if err := e.configs.Save(ctx, projectPath, patch); err != nil {
		return nil, err
	}
	return &stats, nil
}
