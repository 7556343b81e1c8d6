package domain

import (
	"testing"
	"time"
)

func titles(nodes []*Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Title)
	}
	return out
}

func assertContiguous(t *testing.T, nodes []*Node) {
	t.Helper()
	for i, n := range nodes {
		if n.Order != i+1 {
			t.Errorf("%q has order %d at position %d", n.Path, n.Order, i+1)
		}
		assertContiguous(t, n.Children)
	}
}

func TestOrderSiblings(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []*Node
		expected []string
	}{
		{
			name:     "existing orders kept",
			nodes:    []*Node{{Title: "b", Order: 2}, {Title: "a", Order: 3}, {Title: "c", Order: 1}},
			expected: []string{"c", "b", "a"},
		},
		{
			name:     "new nodes follow ordered ones by title",
			nodes:    []*Node{{Title: "zeta"}, {Title: "b", Order: 1}, {Title: "Alpha"}},
			expected: []string{"b", "Alpha", "zeta"},
		},
		{
			name:     "no orders sorts by locale title",
			nodes:    []*Node{{Title: "Chapter 2"}, {Title: "chapter 1"}, {Title: "Épilogue"}, {Title: "Appendix"}},
			expected: []string{"Appendix", "chapter 1", "Chapter 2", "Épilogue"},
		},
		{
			name:     "gaps close",
			nodes:    []*Node{{Title: "a", Order: 1}, {Title: "b", Order: 4}},
			expected: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			OrderSiblings(tt.nodes)
			got := titles(tt.nodes)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, expected %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Fatalf("got %v, expected %v", got, tt.expected)
				}
			}
			assertContiguous(t, tt.nodes)
		})
	}
}

func TestLocateAndDetach(t *testing.T) {
	tree := []*Node{
		{ID: "v1", Type: NodeGroup, Path: "Volume 1", Children: []*Node{
			{ID: "c1", Path: "Volume 1/Chapter 1.md"},
			{ID: "c2", Path: "Volume 1/Chapter 2.md"},
		}},
		{ID: "v2", Type: NodeGroup, Path: "Volume 2"},
	}

	loc, ok := Locate(&tree, "c2")
	if !ok {
		t.Fatal("c2 not found")
	}
	if loc.Parent == nil || loc.Parent.ID != "v1" || loc.Index != 1 {
		t.Fatalf("unexpected location %+v", loc)
	}
	loc.Detach()
	if len(tree[0].Children) != 1 || tree[0].Children[0].ID != "c1" {
		t.Errorf("detach left %v", titles(tree[0].Children))
	}

	top, ok := Locate(&tree, "v2")
	if !ok || top.Parent != nil || top.Index != 1 {
		t.Fatalf("unexpected top-level location %+v", top)
	}
	top.Detach()
	if len(tree) != 1 {
		t.Errorf("tree has %d roots, expected 1", len(tree))
	}

	if _, ok := Locate(&tree, "missing"); ok {
		t.Error("found a node that does not exist")
	}
}

func TestRebase(t *testing.T) {
	n := &Node{Type: NodeGroup, Path: "Part/Volume 1", Children: []*Node{
		{Path: "Part/Volume 1/Chapter 1.md"},
		{Type: NodeGroup, Path: "Part/Volume 1/Scenes", Children: []*Node{
			{Path: "Part/Volume 1/Scenes/One.md"},
		}},
	}}
	n.Rebase("Volume 1")

	expected := []string{"Volume 1", "Volume 1/Chapter 1.md", "Volume 1/Scenes", "Volume 1/Scenes/One.md"}
	var got []string
	Walk([]*Node{n}, func(n *Node) bool {
		got = append(got, n.Path)
		return true
	})
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("path %d = %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestRenumberStampsChangedNodes(t *testing.T) {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := old.Add(time.Hour)
	tree := []*Node{
		{Title: "a", Order: 1, LastModified: old},
		{Title: "b", Order: 3, LastModified: old, Children: []*Node{{Title: "c", Order: 5, LastModified: old}}},
	}
	Renumber(tree, now)
	assertContiguous(t, tree)
	if !tree[0].LastModified.Equal(old) {
		t.Error("unchanged node was stamped")
	}
	if !tree[1].LastModified.Equal(now) || !tree[1].Children[0].LastModified.Equal(now) {
		t.Error("renumbered nodes were not stamped")
	}
}

func TestFindByPathAndContains(t *testing.T) {
	tree := []*Node{
		{ID: "v", Type: NodeGroup, Path: "Volume 1", Children: []*Node{
			{ID: "c", Path: "Volume 1/Chapter 1.md"},
		}},
		{ID: "v10", Type: NodeGroup, Path: "Volume 10"},
	}
	if n := FindByPath(tree, "Volume 1/Chapter 1.md"); n == nil || n.ID != "c" {
		t.Errorf("FindByPath returned %+v", n)
	}
	if n := FindByPath(tree, "Volume 10"); n == nil || n.ID != "v10" {
		t.Errorf("FindByPath(Volume 10) returned %+v", n)
	}
	if FindByPath(tree, "Volume 2") != nil {
		t.Error("FindByPath found a missing path")
	}
	if !tree[0].Contains("c") || tree[1].Contains("c") {
		t.Error("Contains reported the wrong subtree")
	}
}

func TestFlatten(t *testing.T) {
	tree := []*Node{
		{Title: "open", Type: NodeGroup, IsExpanded: true, Children: []*Node{{Title: "a"}}},
		{Title: "closed", Type: NodeGroup, Children: []*Node{{Title: "b"}}},
	}
	rows := Flatten(tree, func(n *Node) bool { return n.IsExpanded })
	if len(rows) != 3 {
		t.Fatalf("got %d rows, expected 3", len(rows))
	}
	if rows[1].Node.Title != "a" || rows[1].Depth != 1 || rows[1].Parent != tree[0] {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[0].Parent != nil {
		t.Error("top level row has a parent")
	}
}

func TestTitleFromName(t *testing.T) {
	tests := map[string]string{
		"Chapter 1.md": "Chapter 1",
		"Board.canvas": "Board",
		"Volume 1":     "Volume 1",
		"notes.v2.md":  "notes.v2",
		"picture.png":  "picture.png",
	}
	for in, want := range tests {
		if got := TitleFromName(in); got != want {
			t.Errorf("TitleFromName(%q) = %q, expected %q", in, got, want)
		}
	}
}
