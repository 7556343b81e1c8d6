package domain

import (
	"path"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NodeType is the kind of entry a tree node stands for
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeCanvas NodeType = "canvas"
	NodeGroup  NodeType = "group"
)

const (
	MarkdownExt = ".md"
	CanvasExt   = ".canvas"
)

// NodeTypeForFile maps a file name to its node type; ok is false for files outside the tree
func NodeTypeForFile(name string) (NodeType, bool) {
	switch strings.ToLower(path.Ext(name)) {
	case MarkdownExt:
		return NodeFile, true
	case CanvasExt:
		return NodeCanvas, true
	}
	return "", false
}

// IsMarkdown reports whether name is a countable markdown file
func IsMarkdown(name string) bool {
	return strings.EqualFold(path.Ext(name), MarkdownExt)
}

// TitleFromName derives the default display title of a file or folder
func TitleFromName(name string) string {
	if _, ok := NodeTypeForFile(name); ok {
		return strings.TrimSuffix(name, path.Ext(name))
	}
	return name
}

// Node represents one file, canvas or folder in a project's editorial tree
type Node struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Type         NodeType  `json:"type"`
	Path         string    `json:"path"` // Project-relative
	Order        int       `json:"order"`
	Exclude      bool      `json:"exclude,omitempty"`
	Include      bool      `json:"include,omitempty"`
	Completed    bool      `json:"completed,omitempty"`
	IsExpanded   bool      `json:"is_expanded,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
	Children     []*Node   `json:"children,omitempty"`
}

// NewNode creates a node with a fresh id and both timestamps set to now
func NewNode(typ NodeType, relPath string, now time.Time) *Node {
	return &Node{
		ID:           uuid.NewString(),
		Title:        TitleFromName(path.Base(relPath)),
		Type:         typ,
		Path:         relPath,
		CreatedAt:    now,
		LastModified: now,
	}
}

// IsGroup reports whether the node is a folder
func (n *Node) IsGroup() bool {
	return n.Type == NodeGroup
}

// Contains reports whether id names n or one of its descendants
func (n *Node) Contains(id string) bool {
	if n.ID == id {
		return true
	}
	for _, c := range n.Children {
		if c.Contains(id) {
			return true
		}
	}
	return false
}

// Rebase moves n to newPath and rewrites the paths of all descendants
func (n *Node) Rebase(newPath string) {
	old := n.Path
	n.Path = newPath
	for _, c := range n.Children {
		c.Rebase(newPath + strings.TrimPrefix(c.Path, old))
	}
}

// Walk visits every node depth-first in editorial order; returning false skips the subtree
func Walk(nodes []*Node, fn func(n *Node) bool) {
	for _, n := range nodes {
		if fn(n) {
			Walk(n.Children, fn)
		}
	}
}

// IndexByPath maps every node in the forest by its project-relative path
func IndexByPath(nodes []*Node) map[string]*Node {
	index := make(map[string]*Node)
	Walk(nodes, func(n *Node) bool {
		index[n.Path] = n
		return true
	})
	return index
}

// FindByPath returns the node at relPath, or nil
func FindByPath(nodes []*Node, relPath string) *Node {
	var found *Node
	Walk(nodes, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Path == relPath {
			found = n
			return false
		}
		return strings.HasPrefix(relPath, n.Path+"/")
	})
	return found
}

// Location pins a node inside the forest: the sibling list holding it and its index there
type Location struct {
	Node     *Node
	Parent   *Node // nil at top level
	Siblings *[]*Node
	Index    int
}

// Locate finds a node by id, searching the whole forest
func Locate(nodes *[]*Node, id string) (Location, bool) {
	return locate(nodes, nil, id)
}

func locate(siblings *[]*Node, parent *Node, id string) (Location, bool) {
	for i, n := range *siblings {
		if n.ID == id {
			return Location{Node: n, Parent: parent, Siblings: siblings, Index: i}, true
		}
		if loc, ok := locate(&n.Children, n, id); ok {
			return loc, true
		}
	}
	return Location{}, false
}

// Detach removes the located node from its sibling list
func (l Location) Detach() {
	s := *l.Siblings
	*l.Siblings = slices.Delete(s, l.Index, l.Index+1)
}

// Renumber assigns contiguous 1..N orders in every sibling list, stamping changed nodes
func Renumber(nodes []*Node, now time.Time) {
	for i, n := range nodes {
		if n.Order != i+1 {
			n.Order = i + 1
			n.LastModified = now
		}
		Renumber(n.Children, now)
	}
}

// OrderSiblings sorts one sibling list and numbers it 1..N.
// Nodes that already carry an order keep their relative sequence; new nodes
// follow them in locale title order.
func OrderSiblings(nodes []*Node) {
	col := collate.New(language.Und)
	byTitle := func(a, b *Node) int {
		if c := col.CompareString(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	}
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		switch {
		case a.Order > 0 && b.Order > 0:
			if a.Order != b.Order {
				return a.Order - b.Order
			}
			return byTitle(a, b)
		case a.Order > 0:
			return -1
		case b.Order > 0:
			return 1
		}
		return byTitle(a, b)
	})
	for i, n := range nodes {
		n.Order = i + 1
	}
}

// FlatNode is a visible row of a flattened tree
type FlatNode struct {
	Node   *Node
	Parent *Node // nil at top level
	Depth  int
}

// Flatten returns the visible rows of the forest; children of a group are listed when expanded reports true
func Flatten(nodes []*Node, expanded func(*Node) bool) []FlatNode {
	var rows []FlatNode
	var walk func([]*Node, *Node, int)
	walk = func(list []*Node, parent *Node, depth int) {
		for _, n := range list {
			rows = append(rows, FlatNode{Node: n, Parent: parent, Depth: depth})
			if n.IsGroup() && expanded(n) {
				walk(n.Children, n, depth+1)
			}
		}
	}
	walk(nodes, nil, 0)
	return rows
}
