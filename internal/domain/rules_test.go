package domain

import "testing"

func TestRulesIncludes(t *testing.T) {
	tree := []*Node{
		{Type: NodeGroup, Path: "Volume 1", Children: []*Node{
			{Type: NodeFile, Path: "Volume 1/Intro.md", Include: true},
			{Type: NodeFile, Path: "Volume 1/Chapter 1.md"},
		}},
		{Type: NodeGroup, Path: "Volume 2", Exclude: true, Children: []*Node{
			{Type: NodeFile, Path: "Volume 2/Chapter 3.md"},
			{Type: NodeFile, Path: "Volume 2/Notes.md", Include: true},
		}},
		{Type: NodeGroup, Path: "Extras", Include: true, Children: []*Node{
			{Type: NodeFile, Path: "Extras/Afterword.md"},
			{Type: NodeFile, Path: "Extras/Cut.md", Exclude: true},
		}},
	}
	sets := BuildOverrideSets(tree)

	tests := []struct {
		name     string
		rules    Rules
		typ      ProjectType
		path     string
		expected bool
	}{
		{"book include override", DefaultRules(), ProjectBook, "Volume 1/Intro.md", true},
		{"book default prefix", DefaultRules(), ProjectBook, "Volume 1/Chapter 1.md", true},
		{"book prefix is case-insensitive", DefaultRules(), ProjectBook, "chapter 9.md", true},
		{"book non-chapter", DefaultRules(), ProjectBook, "Prologue.md", false},
		{"folder exclude beats prefix", DefaultRules(), ProjectBook, "Volume 2/Chapter 3.md", false},
		{"exclude beats include", DefaultRules(), ProjectBook, "Volume 2/Notes.md", false},
		{"folder include cascades", DefaultRules(), ProjectBook, "Extras/Afterword.md", true},
		{"leaf exclude inside included folder", DefaultRules(), ProjectBook, "Extras/Cut.md", false},
		{"metadata never counts", DefaultRules(), ProjectEssay, "misc/notes.md", false},
		{"custom prefix", Rules{ChapterPrefix: "Part"}, ProjectBook, "part one.md", true},
		{"script includes all", DefaultRules(), ProjectScript, "Act 1/Notes.md", true},
		{"script strict", Rules{Strict: true}, ProjectScript, "Act 1/Notes.md", false},
		{"film strict scene", Rules{Strict: true}, ProjectFilm, "Seq/Scene 4.md", true},
		{"essay includes all", DefaultRules(), ProjectEssay, "Draft.md", true},
		{"essay strict", Rules{Strict: true}, ProjectEssay, "Manuscript final.md", true},
		{"essay strict other", Rules{Strict: true}, ProjectEssay, "Draft.md", false},
		{"custom template includes all", Rules{Strict: true}, ProjectType("poetry"), "Haiku.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rules.Includes(tt.typ, tt.path, sets); got != tt.expected {
				t.Errorf("Includes(%s, %q) = %v, expected %v", tt.typ, tt.path, got, tt.expected)
			}
		})
	}
}

func TestInclusionOverrideNormalize(t *testing.T) {
	got := InclusionOverride{Include: true, Exclude: true}.Normalize()
	if got.Include || !got.Exclude {
		t.Errorf("Normalize() = %+v, expected exclude only", got)
	}
}

func TestIsMetaPath(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"misc", true},
		{"misc/project-config.json", true},
		{"misc/cover/a.png", true},
		{"miscellaneous.md", false},
		{"Volume 1/misc/x.md", false},
	}
	for _, tt := range tests {
		if got := IsMetaPath(tt.path); got != tt.expected {
			t.Errorf("IsMetaPath(%q) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}
