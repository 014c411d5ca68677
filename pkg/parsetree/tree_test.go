package parsetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlanalyser/pkg/token"
)

func tok(tt token.TokenType, src string, start, end int) token.Token {
	return token.Token{
		Type:    tt,
		Literal: src[start:end],
		Pos:     token.Position{Line: 1, Column: start + 1, Offset: start},
		End:     token.Position{Line: 1, Column: end + 1, Offset: end},
	}
}

// buildSample builds the tree for "SELECT a FROM hr.emp e".
func buildSample(t *testing.T) (*Tree, map[string]NodeID) {
	t.Helper()
	src := "SELECT a FROM hr.emp e"
	b := NewBuilder(src)
	ids := map[string]NodeID{}

	ids["block"] = b.Open(KindQueryBlock)
	b.Terminal(tok(token.SELECT, src, 0, 6))
	ids["list"] = b.Open(KindSelectedList)
	ids["elem"] = b.Open(KindSelectListElements)
	b.Open(KindExpression)
	b.Open(KindGeneralElement)
	ids["part"] = b.Open(KindGeneralElementPart)
	b.Open(KindIDExpression)
	b.Terminal(tok(token.IDENT, src, 7, 8))
	b.Close()
	b.Close()
	b.Close()
	b.Close()
	b.Close()
	b.Close()
	ids["from"] = b.Open(KindFromClause)
	b.Terminal(tok(token.FROM, src, 9, 13))
	ids["tv"] = b.Open(KindTableviewName)
	b.Open(KindIdentifier)
	b.Terminal(tok(token.IDENT, src, 14, 16))
	b.Close()
	b.Terminal(tok(token.DOT, src, 16, 17))
	b.Open(KindIDExpression)
	b.Terminal(tok(token.IDENT, src, 17, 20))
	b.Close()
	b.Close()
	ids["alias"] = b.Open(KindTableAlias)
	b.Terminal(tok(token.IDENT, src, 21, 22))
	b.Close()
	b.Close()

	tree := b.Tree()
	require.Equal(t, ids["block"], tree.Root().ID())
	return tree, ids
}

func TestNodeNavigation(t *testing.T) {
	tree, ids := buildSample(t)
	root := tree.Root()

	assert.Equal(t, KindQueryBlock, root.Kind())
	assert.Equal(t, "SELECT a FROM hr.emp e", root.Text())
	assert.Equal(t, 3, root.ChildCount())
	assert.True(t, root.HasTerminal(token.SELECT))
	assert.Equal(t, token.SELECT, root.FirstToken())

	from := root.Child(KindFromClause)
	require.True(t, from.IsValid())
	assert.Equal(t, ids["from"], from.ID())
	assert.Equal(t, "FROM hr.emp e", from.Text())

	tv := from.Child(KindTableviewName)
	assert.Equal(t, "hr.emp", tv.Text())
	assert.Equal(t, "hr", tv.Child(KindIdentifier).Text())
	assert.Equal(t, "emp", tv.LastChild(KindIDExpression).Text())
	assert.Equal(t, from, tv.Parent())

	assert.Equal(t, "e", root.Find(KindTableAlias).Text())
	assert.Len(t, root.FindAll(KindIDExpression), 2)
	assert.Len(t, from.Terminals(), 1)
}

func TestIsChildOf(t *testing.T) {
	tree, ids := buildSample(t)

	part := tree.Node(ids["part"])
	assert.True(t, part.IsChildOf(KindSelectListElements))
	assert.True(t, part.IsChildOf(KindQueryBlock))
	assert.False(t, part.IsChildOf(KindFromClause))
	assert.Equal(t, ids["elem"], part.Ancestor(KindSelectListElements).ID())

	tv := tree.Node(ids["tv"])
	assert.False(t, tv.IsChildOf(KindSelectListElements))
	assert.False(t, tree.Root().IsChildOf(KindQueryBlock), "a node is not its own ancestor")
}

func TestZeroNode(t *testing.T) {
	var n Node

	assert.False(t, n.IsValid())
	assert.Equal(t, KindInvalid, n.Kind())
	assert.Equal(t, "", n.Text())
	assert.Nil(t, n.Children())
	assert.False(t, n.Child(KindIdentifier).IsValid())
	assert.False(t, n.Parent().IsValid())
	assert.False(t, n.IsChildOf(KindQueryBlock))
	assert.Equal(t, NoNode, n.ID())
	assert.Equal(t, token.ILLEGAL, n.FirstToken())
}

func TestWalkSkipsChildren(t *testing.T) {
	tree, _ := buildSample(t)

	var kinds []Kind
	tree.Root().Walk(func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != KindSelectedList && n.Kind() != KindFromClause
	})
	assert.Equal(t, []Kind{KindQueryBlock, KindTerminal, KindSelectedList, KindFromClause}, kinds)
}

func TestRetag(t *testing.T) {
	src := "x := 1"
	b := NewBuilder(src)
	id := b.Open(KindFunctionCall)
	b.Terminal(tok(token.IDENT, src, 0, 1))
	b.Retag(id, KindAssignmentStatement)
	b.Terminal(tok(token.ASSIGN, src, 2, 4))
	b.Terminal(tok(token.NUMBER, src, 5, 6))
	tree := b.Tree()

	assert.Equal(t, KindAssignmentStatement, tree.Root().Kind())
	assert.Equal(t, "x := 1", tree.Root().Text())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "general_element_part", KindGeneralElementPart.String())
	assert.Equal(t, "table_ref_aux_internal_one", KindTableRefAuxInternalOne.String())
	assert.Equal(t, "Kind(60000)", Kind(60000).String())
	assert.False(t, KindInvalid.IsValid())
	assert.True(t, KindCondition.IsValid())

	for k := KindTerminal; k < kindCount; k++ {
		assert.NotContains(t, k.String(), "Kind(", "kind %d has no name", k)
	}
}
