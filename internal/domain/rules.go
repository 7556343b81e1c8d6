package domain

import (
	"path"
	"strings"
)

const (
	DefaultChapterPrefix = "chapter"
	ScenePrefix          = "scene"
	ManuscriptPrefix     = "manuscript"
)

// Rules are the default word-count inclusion rules per project type.
// Strict switches script/film to the scene prefix and essay to the
// manuscript prefix; without it those types count every file.
type Rules struct {
	ChapterPrefix string
	Strict        bool
}

// DefaultRules returns the shipped rule set
func DefaultRules() Rules {
	return Rules{ChapterPrefix: DefaultChapterPrefix}
}

// InclusionOverride is the pair of manual flags on a node
type InclusionOverride struct {
	Include bool
	Exclude bool
}

// Normalize makes the flags mutually exclusive; exclude wins
func (o InclusionOverride) Normalize() InclusionOverride {
	if o.Exclude {
		o.Include = false
	}
	return o
}

// OverrideSets are the leaf paths whose inclusion was forced by a node flag
// or by a flag on one of their ancestor groups
type OverrideSets struct {
	Excluded map[string]bool
	Included map[string]bool
}

// BuildOverrideSets walks the tree once, cascading group flags to descendant leaves
func BuildOverrideSets(tree []*Node) OverrideSets {
	sets := OverrideSets{Excluded: map[string]bool{}, Included: map[string]bool{}}
	var walk func([]*Node, bool, bool)
	walk = func(nodes []*Node, excluded, included bool) {
		for _, n := range nodes {
			ex := excluded || n.Exclude
			in := included || n.Include
			if n.IsGroup() {
				walk(n.Children, ex, in)
				continue
			}
			if ex {
				sets.Excluded[n.Path] = true
			}
			if in {
				sets.Included[n.Path] = true
			}
		}
	}
	walk(tree, false, false)
	return sets
}

// Includes decides whether a project-relative markdown file counts toward the stats
func (r Rules) Includes(typ ProjectType, relPath string, sets OverrideSets) bool {
	if IsMetaPath(relPath) {
		return false
	}
	if sets.Excluded[relPath] {
		return false
	}
	if sets.Included[relPath] {
		return true
	}
	return r.defaultRule(typ, relPath)
}

func (r Rules) defaultRule(typ ProjectType, relPath string) bool {
	name := strings.ToLower(TitleFromName(path.Base(relPath)))
	switch typ {
	case ProjectBook:
		prefix := r.ChapterPrefix
		if prefix == "" {
			prefix = DefaultChapterPrefix
		}
		return strings.HasPrefix(name, strings.ToLower(prefix))
	case ProjectScript, ProjectFilm:
		return !r.Strict || strings.HasPrefix(name, ScenePrefix)
	case ProjectEssay:
		return !r.Strict || strings.HasPrefix(name, ManuscriptPrefix)
	default:
		return true
	}
}
