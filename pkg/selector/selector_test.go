package selector

import (
	"testing"

	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	folder, actor, role, assign, view, group, object, conn, ref, unknown *domain.Node
}

func newSample() sample {
	s := sample{
		folder:  domain.NewNode("f", "Folder", "Business"),
		actor:   domain.NewNode("a", "BusinessActor", "Customer"),
		role:    domain.NewNode("r", "BusinessRole", "Customer"),
		assign:  domain.NewNode("as", "AssignmentRelationship", ""),
		view:    domain.NewNode("v", "ArchimateDiagramModel", "Overview"),
		group:   domain.NewNode("g", "DiagramModelGroup", "Group"),
		object:  domain.NewNode("o", "DiagramModelArchimateObject", ""),
		conn:    domain.NewNode("c", "DiagramModelArchimateConnection", ""),
		ref:     domain.NewNode("x", "DiagramModelReference", ""),
		unknown: domain.NewNode("u", "Mystery", "Customer"),
	}
	s.object.Concept = s.actor
	s.conn.Concept = s.assign
	s.ref.Ref = s.view
	return s
}

func (s sample) all() []*domain.Node {
	return []*domain.Node{s.folder, s.actor, s.role, s.assign, s.view, s.group, s.object, s.conn, s.ref, s.unknown}
}

func accepted(f Filter, nodes []*domain.Node) []string {
	var ids []string
	for _, n := range nodes {
		if f.Accept(n) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func TestCompile(t *testing.T) {
	c := NewCompiler(nil)
	s := newSample()

	tests := []struct {
		selector string
		want     []string
		single   bool
	}{
		{"*", []string{"f", "a", "r", "as", "v", "g", "o", "c", "x"}, false},
		{"concepts", []string{"a", "r", "as"}, false},
		{"elements", []string{"a", "r"}, false},
		{"relations", []string{"as"}, false},
		{"relationships", []string{"as"}, false},
		{"views", []string{"v"}, false},
		{"#o", []string{"o"}, true},
		{".Customer", []string{"a", "r", "o"}, false},
		{".Overview", []string{"v", "x"}, false},
		{".Group", nil, false},
		{"BusinessActor.Customer", []string{"a", "o"}, false},
		{"BusinessRole", []string{"r"}, false},
		{"ArchimateDiagramModel", []string{"v", "x"}, false},
		{"AssignmentRelationship", []string{"as", "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			f := c.Compile(tt.selector)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, accepted(f, s.all()))
			assert.Equal(t, tt.single, f.Single())
		})
	}
}

func TestCompile_Rejects(t *testing.T) {
	c := NewCompiler(nil)

	for _, sel := range []string{
		"",
		"#",
		".",
		"garbage-type-name",
		"Mystery",
		"BusinessActor.",
		"BusinessActor.Customer.Extra",
		"a.b.c",
	} {
		assert.Nil(t, c.Compile(sel), "%q", sel)
	}
}

func TestCompile_ExplicitRegistry(t *testing.T) {
	reg := domain.NewTypeRegistry().Register(domain.CategoryElement, "Mystery")
	c := NewCompiler(reg)

	f := c.Compile("Mystery")
	require.NotNil(t, f)
	assert.True(t, f.Accept(domain.NewNode("u", "Mystery", "")))
	assert.Nil(t, c.Compile("BusinessActor"), "only the given registry is consulted")
}

func TestFilter_NilNode(t *testing.T) {
	f := NewCompiler(nil).Compile("*")
	require.NotNil(t, f)
	assert.False(t, f.Accept(nil))
}
