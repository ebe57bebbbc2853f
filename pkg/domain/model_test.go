package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (*Model, map[string]*Node) {
	t.Helper()

	m := NewModel("m", "Test", nil)
	nodes := map[string]*Node{
		"folder": NewNode("folder", "Folder", "Views"),
		"view":   NewNode("view", "ArchimateDiagramModel", "View"),
		"a":      NewNode("a", "DiagramModelArchimateObject", "A"),
		"b":      NewNode("b", "DiagramModelArchimateObject", "B"),
		"conn":   NewNode("conn", "DiagramModelConnection", ""),
	}
	nodes["conn"].Source = nodes["a"]
	nodes["conn"].Target = nodes["b"]

	require.NoError(t, nodes["a"].Append(nodes["conn"]))
	require.NoError(t, nodes["view"].Append(nodes["a"], nodes["b"]))
	require.NoError(t, nodes["folder"].Append(nodes["view"]))
	require.NoError(t, m.Root().Append(nodes["folder"]))
	return m, nodes
}

func TestModel_AppendIndexesSubtree(t *testing.T) {
	m, nodes := newTestModel(t)

	assert.Equal(t, 6, m.Len())
	assert.Same(t, nodes["conn"], m.Get("conn"))
	assert.Same(t, m, nodes["conn"].Model())
	assert.Same(t, nodes["a"], nodes["conn"].Parent())
}

func TestModel_AppendRejectsDuplicateIDs(t *testing.T) {
	m, nodes := newTestModel(t)

	err := nodes["folder"].Append(NewNode("a", "Folder", "clash"))
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Len(t, nodes["folder"].Children(), 1, "nothing is attached on failure")
	assert.Equal(t, 6, m.Len())
}

func TestModel_AppendMovesNode(t *testing.T) {
	_, nodes := newTestModel(t)

	require.NoError(t, nodes["a"].Append(nodes["b"]))
	assert.Same(t, nodes["a"], nodes["b"].Parent())
	assert.Len(t, nodes["view"].Children(), 1)
}

func TestModel_DetachRemovesDanglingConnections(t *testing.T) {
	m, nodes := newTestModel(t)

	require.NoError(t, m.Detach(nodes["b"]))

	assert.Nil(t, m.Get("b"))
	assert.Nil(t, m.Get("conn"), "connection targeting a detached object goes with it")
	assert.Empty(t, nodes["a"].Children())
	assert.NotNil(t, m.Get("a"))
}

func TestModel_DetachRoot(t *testing.T) {
	m, _ := newTestModel(t)
	assert.ErrorIs(t, m.Detach(m.Root()), ErrNotDeletable)
}

func TestModel_ReferencesTo(t *testing.T) {
	m, nodes := newTestModel(t)

	refs := m.ReferencesTo(nodes["b"])
	require.Len(t, refs, 1)
	assert.Same(t, nodes["conn"], refs[0])
	assert.Empty(t, m.ReferencesTo(nodes["folder"]))
}

func TestModel_CheckWritable(t *testing.T) {
	m, _ := newTestModel(t)
	assert.NoError(t, m.CheckWritable())

	m.SetReadOnly(true)
	assert.ErrorIs(t, m.CheckWritable(), ErrModelLocked)
}

func TestNode_WalkPreOrderAndStop(t *testing.T) {
	m, _ := newTestModel(t)

	var ids []string
	m.Root().Walk(func(n *Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	assert.Equal(t, []string{"folder", "view", "a", "conn", "b"}, ids)

	ids = nil
	m.Root().Walk(func(n *Node) bool {
		ids = append(ids, n.ID)
		return n.ID != "view"
	})
	assert.Equal(t, []string{"folder", "view"}, ids)
}

func TestNode_Resolve(t *testing.T) {
	concept := NewNode("c", "BusinessActor", "Actor")
	view := NewNode("v", "ArchimateDiagramModel", "View")
	obj := &Node{ID: "o", Type: "DiagramModelArchimateObject", Concept: concept}
	ref := &Node{ID: "r", Type: "DiagramModelReference", Ref: view}
	group := NewNode("g", "DiagramModelGroup", "Group")

	assert.Same(t, concept, obj.Resolve())
	assert.Same(t, view, ref.Resolve())
	assert.Same(t, group, group.Resolve())
	assert.Nil(t, (*Node)(nil).Resolve())
}

func TestTypeRegistry_Classify(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		node *Node
		want Category
	}{
		{NewNode("1", "BusinessActor", ""), CategoryElement},
		{NewNode("2", "ServingRelationship", ""), CategoryRelationship},
		{NewNode("3", "ArchimateDiagramModel", ""), CategoryDiagram},
		{NewNode("4", "DiagramModelGroup", ""), CategoryDiagramObject},
		{NewNode("5", "DiagramModelReference", ""), CategoryDiagramReference},
		{NewNode("6", "DiagramModelArchimateConnection", ""), CategoryDiagramConnection},
		{NewNode("7", "Folder", ""), CategoryFolder},
		{NewNode("8", "Mystery", ""), CategoryUnknown},
		{&Node{ID: "9", Type: "Mystery", Ref: NewNode("v", "ArchimateDiagramModel", "")}, CategoryDiagramReference},
		{nil, CategoryUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, reg.Classify(tt.node))
	}
}
