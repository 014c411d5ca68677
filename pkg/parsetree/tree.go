// Package parsetree holds the concrete parse tree produced by the PL/SQL
// parser.
//
// Nodes live in a flat arena owned by Tree and refer to each other by
// index, so parent links are plain integers and walking upward costs
// O(depth) with no owning back-references. Node is a small value handle
// into the arena; the zero Node is "absent" and every accessor on it
// returns a zero value, which lets analysers chain lookups through
// optional grammar parts without nil checks at every step.
package parsetree

import (
	"github.com/leapstack-labs/sqlanalyser/pkg/token"
)

// NodeID indexes a node inside its Tree.
type NodeID int32

// NoNode marks a missing parent or child.
const NoNode NodeID = -1

type node struct {
	kind     Kind
	parent   NodeID
	children []NodeID
	tok      token.Token // terminals only
	span     token.Span
}

// Tree is an immutable parse tree over one source text.
type Tree struct {
	src   string
	nodes []node
	root  NodeID
}

// Source returns the text the tree was parsed from.
func (t *Tree) Source() string {
	return t.src
}

// Root returns the root node, or the zero Node for an empty tree.
func (t *Tree) Root() Node {
	if t == nil || t.root == NoNode {
		return Node{}
	}
	return Node{tree: t, id: t.root}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Node returns the handle for id.
func (t *Tree) Node(id NodeID) Node {
	if t == nil || id < 0 || int(id) >= len(t.nodes) {
		return Node{}
	}
	return Node{tree: t, id: id}
}

// Node is a non-owning handle to a node in a Tree.
type Node struct {
	tree *Tree
	id   NodeID
}

// IsValid reports whether the handle refers to a node.
func (n Node) IsValid() bool {
	return n.tree != nil
}

// ID returns the arena index of the node.
func (n Node) ID() NodeID {
	if n.tree == nil {
		return NoNode
	}
	return n.id
}

// Tree returns the owning tree.
func (n Node) Tree() *Tree {
	return n.tree
}

func (n Node) data() *node {
	return &n.tree.nodes[n.id]
}

// Kind returns the grammar rule of the node.
func (n Node) Kind() Kind {
	if n.tree == nil {
		return KindInvalid
	}
	return n.data().kind
}

// Is reports whether the node has kind k.
func (n Node) Is(k Kind) bool {
	return n.Kind() == k
}

// IsTerminal reports whether the node wraps a single token.
func (n Node) IsTerminal() bool {
	return n.Kind() == KindTerminal
}

// Token returns the token of a terminal node.
func (n Node) Token() token.Token {
	if n.tree == nil {
		return token.Token{}
	}
	return n.data().tok
}

// TokenType returns the token type of a terminal node, or token.ILLEGAL
// for rule nodes.
func (n Node) TokenType() token.TokenType {
	if !n.IsTerminal() {
		return token.ILLEGAL
	}
	return n.data().tok.Type
}

// Parent returns the parent node, or the zero Node at the root.
func (n Node) Parent() Node {
	if n.tree == nil {
		return Node{}
	}
	return n.tree.Node(n.data().parent)
}

// ChildCount returns the number of direct children.
func (n Node) ChildCount() int {
	if n.tree == nil {
		return 0
	}
	return len(n.data().children)
}

// ChildAt returns the i-th direct child.
func (n Node) ChildAt(i int) Node {
	if n.tree == nil {
		return Node{}
	}
	ids := n.data().children
	if i < 0 || i >= len(ids) {
		return Node{}
	}
	return Node{tree: n.tree, id: ids[i]}
}

// Children returns all direct children in source order.
func (n Node) Children() []Node {
	if n.tree == nil {
		return nil
	}
	ids := n.data().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{tree: n.tree, id: id}
	}
	return out
}

// Child returns the first direct child of kind k.
func (n Node) Child(k Kind) Node {
	if n.tree == nil {
		return Node{}
	}
	for _, id := range n.data().children {
		if n.tree.nodes[id].kind == k {
			return Node{tree: n.tree, id: id}
		}
	}
	return Node{}
}

// LastChild returns the last direct child of kind k.
func (n Node) LastChild(k Kind) Node {
	if n.tree == nil {
		return Node{}
	}
	ids := n.data().children
	for i := len(ids) - 1; i >= 0; i-- {
		if n.tree.nodes[ids[i]].kind == k {
			return Node{tree: n.tree, id: ids[i]}
		}
	}
	return Node{}
}

// ChildrenOf returns every direct child of kind k in source order.
func (n Node) ChildrenOf(k Kind) []Node {
	if n.tree == nil {
		return nil
	}
	var out []Node
	for _, id := range n.data().children {
		if n.tree.nodes[id].kind == k {
			out = append(out, Node{tree: n.tree, id: id})
		}
	}
	return out
}

// Terminals returns the direct terminal children.
func (n Node) Terminals() []Node {
	return n.ChildrenOf(KindTerminal)
}

// HasTerminal reports whether a direct terminal child has token type tt.
func (n Node) HasTerminal(tt token.TokenType) bool {
	return n.Terminal(tt).IsValid()
}

// Terminal returns the first direct terminal child with token type tt.
func (n Node) Terminal(tt token.TokenType) Node {
	if n.tree == nil {
		return Node{}
	}
	for _, id := range n.data().children {
		c := &n.tree.nodes[id]
		if c.kind == KindTerminal && c.tok.Type == tt {
			return Node{tree: n.tree, id: id}
		}
	}
	return Node{}
}

// FirstToken returns the type of the first token covered by the node.
func (n Node) FirstToken() token.TokenType {
	for cur := n; cur.IsValid(); cur = cur.ChildAt(0) {
		if cur.IsTerminal() {
			return cur.Token().Type
		}
	}
	return token.ILLEGAL
}

// Find returns the first descendant of kind k in depth-first pre-order,
// not including n itself.
func (n Node) Find(k Kind) Node {
	var found Node
	n.walkChildren(func(c Node) bool {
		if found.IsValid() {
			return false
		}
		if c.Kind() == k {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant of kind k in depth-first pre-order.
// Matches are not searched for nested matches of the same kind.
func (n Node) FindAll(k Kind) []Node {
	var out []Node
	n.walkChildren(func(c Node) bool {
		if c.Kind() == k {
			out = append(out, c)
			return false
		}
		return true
	})
	return out
}

// Walk visits n and its descendants in depth-first pre-order. Returning
// false from fn skips the children of the current node.
func (n Node) Walk(fn func(Node) bool) {
	if !n.IsValid() {
		return
	}
	if !fn(n) {
		return
	}
	n.walkChildren(fn)
}

func (n Node) walkChildren(fn func(Node) bool) {
	if n.tree == nil {
		return
	}
	for _, id := range n.data().children {
		Node{tree: n.tree, id: id}.Walk(fn)
	}
}

// IsChildOf reports whether any ancestor of n has kind k. The walk follows
// parent links up to the root.
func (n Node) IsChildOf(k Kind) bool {
	for p := n.Parent(); p.IsValid(); p = p.Parent() {
		if p.Kind() == k {
			return true
		}
	}
	return false
}

// Ancestor returns the nearest ancestor of kind k.
func (n Node) Ancestor(k Kind) Node {
	for p := n.Parent(); p.IsValid(); p = p.Parent() {
		if p.Kind() == k {
			return p
		}
	}
	return Node{}
}

// Span returns the source range covered by the node.
func (n Node) Span() token.Span {
	if n.tree == nil {
		return token.Span{}
	}
	return n.data().span
}

// Text returns the source text covered by the node with case and
// whitespace preserved.
func (n Node) Text() string {
	if n.tree == nil {
		return ""
	}
	return n.data().span.Text(n.tree.src)
}
