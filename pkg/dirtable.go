package dupescan

import (
	"iter"
	"path/filepath"
)

// DirectoryNode is one discovered directory. A root has ParentID == ID and
// carries the root path as its Name; every other node has ParentID < ID.
type DirectoryNode struct {
	Name     string
	ID       int
	ParentID int
}

// IsRoot reports whether the node is a scan root.
func (n DirectoryNode) IsRoot() bool {
	return n.ParentID == n.ID
}

// DirectoryTable is an append-only arena of directory nodes; a node's ID is
// its index. Edges are stored only as parent back-references.
type DirectoryTable struct {
	nodes []DirectoryNode
}

// NewDirectoryTable creates an empty table.
func NewDirectoryTable() *DirectoryTable {
	return &DirectoryTable{}
}

// Register appends a node and returns its id. Pass parentID < 0 to register a root.
func (dt *DirectoryTable) Register(name string, parentID int) int {
	id := len(dt.nodes)
	if parentID < 0 || parentID >= id {
		parentID = id
	}
	dt.nodes = append(dt.nodes, DirectoryNode{Name: name, ID: id, ParentID: parentID})
	return id
}

// RegisterRoot appends a self-referential root node.
func (dt *DirectoryTable) RegisterRoot(rootPath string) int {
	return dt.Register(rootPath, -1)
}

// Len returns the number of registered directories.
func (dt *DirectoryTable) Len() int {
	return len(dt.nodes)
}

// Node returns the node with the given id.
func (dt *DirectoryTable) Node(id int) (DirectoryNode, bool) {
	if id < 0 || id >= len(dt.nodes) {
		return DirectoryNode{}, false
	}
	return dt.nodes[id], true
}

// IsRoot reports whether id names a scan root.
func (dt *DirectoryTable) IsRoot(id int) bool {
	node, ok := dt.Node(id)
	return ok && node.IsRoot()
}

// Nodes iterates all nodes in id order.
func (dt *DirectoryTable) Nodes() iter.Seq[DirectoryNode] {
	return func(yield func(DirectoryNode) bool) {
		for _, node := range dt.nodes {
			if !yield(node) {
				return
			}
		}
	}
}

// Roots returns the ids of all scan roots in registration order.
func (dt *DirectoryTable) Roots() []int {
	var roots []int
	for _, node := range dt.nodes {
		if node.IsRoot() {
			roots = append(roots, node.ID)
		}
	}
	return roots
}

// RootOf follows parent links up to the root containing id.
func (dt *DirectoryTable) RootOf(id int) (int, bool) {
	node, ok := dt.Node(id)
	if !ok {
		return 0, false
	}
	for !node.IsRoot() {
		node = dt.nodes[node.ParentID]
	}
	return node.ID, true
}

// Path reconstructs the full path of a directory by walking its parent chain.
// The root segment is the root path exactly as it was scanned.
func (dt *DirectoryTable) Path(id int) string {
	segments := dt.chain(id)
	if len(segments) == 0 {
		return ""
	}
	return filepath.Join(segments...)
}

// RelativePath returns the path of a directory relative to its scan root
// ("." for the root itself).
func (dt *DirectoryTable) RelativePath(id int) string {
	segments := dt.chain(id)
	if len(segments) <= 1 {
		return "."
	}
	return filepath.Join(segments[1:]...)
}

// chain returns the names from the root down to id.
func (dt *DirectoryTable) chain(id int) []string {
	node, ok := dt.Node(id)
	if !ok {
		return nil
	}
	var reversed []string
	for {
		reversed = append(reversed, node.Name)
		if node.IsRoot() {
			break
		}
		node = dt.nodes[node.ParentID]
	}
	segments := make([]string, len(reversed))
	for i, name := range reversed {
		segments[len(reversed)-1-i] = name
	}
	return segments
}
