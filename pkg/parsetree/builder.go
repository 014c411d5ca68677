package parsetree

import (
	"github.com/leapstack-labs/sqlanalyser/pkg/token"
)

// Builder appends nodes to a Tree in source order. Open pushes a rule
// node, Terminal adds a leaf under the innermost open node, Close pops.
// Spans are derived from the first and last child on Close.
type Builder struct {
	tree  *Tree
	stack []NodeID
}

// NewBuilder returns a builder over src.
func NewBuilder(src string) *Builder {
	return &Builder{
		tree: &Tree{src: src, root: NoNode},
	}
}

func (b *Builder) attach(n node) NodeID {
	id := NodeID(len(b.tree.nodes))
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		n.parent = parent
		b.tree.nodes[parent].children = append(b.tree.nodes[parent].children, id)
	} else {
		n.parent = NoNode
		if b.tree.root == NoNode {
			b.tree.root = id
		}
	}
	b.tree.nodes = append(b.tree.nodes, n)
	return id
}

// Open starts a rule node of kind k as a child of the current node.
func (b *Builder) Open(k Kind) NodeID {
	id := b.attach(node{kind: k})
	b.stack = append(b.stack, id)
	return id
}

// Terminal adds a leaf for tok under the current node.
func (b *Builder) Terminal(tok token.Token) NodeID {
	return b.attach(node{kind: KindTerminal, tok: tok, span: tok.Span()})
}

// Close finishes the innermost open node.
func (b *Builder) Close() {
	if len(b.stack) == 0 {
		return
	}
	id := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	n := &b.tree.nodes[id]
	var first, last token.Span
	for _, c := range n.children {
		if s := b.tree.nodes[c].span; s.IsValid() {
			first = s
			break
		}
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if s := b.tree.nodes[n.children[i]].span; s.IsValid() {
			last = s
			break
		}
	}
	if first.IsValid() {
		n.span = token.Span{Start: first.Start, End: last.End}
	}
}

// Retag changes the kind of an already opened node. Parsers use it when
// the rule is only known after its first children were consumed.
func (b *Builder) Retag(id NodeID, k Kind) {
	b.tree.nodes[id].kind = k
}

// Depth returns the number of open nodes.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Tree closes any open nodes and returns the finished tree.
func (b *Builder) Tree() *Tree {
	for len(b.stack) > 0 {
		b.Close()
	}
	return b.tree
}
