package proxy_test

import (
	"testing"

	"github.com/aretw0/archiscript/internal/testutils"
	"github.com/aretw0/archiscript/pkg/attr"
	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/aretw0/archiscript/pkg/proxy"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*domain.Model, *proxy.Factory, proxy.Proxy) {
	t.Helper()
	m := testutils.Fixture(t)
	f := proxy.NewFactory(m.Registry())
	return m, f, f.Wrap(m.Root())
}

func get(t *testing.T, m *domain.Model, f *proxy.Factory, id string) proxy.Proxy {
	t.Helper()
	n := m.Get(id)
	require.NotNil(t, n, "fixture node %s", id)
	return f.Wrap(n)
}

func TestWrap_Dispatch(t *testing.T) {
	m, f, root := setup(t)

	tests := []struct {
		id   string
		kind proxy.Kind
	}{
		{"model", proxy.KindGeneric},
		{"business", proxy.KindFolder},
		{"e-customer", proxy.KindElement},
		{"r-assign", proxy.KindRelationship},
		{"4056", proxy.KindDiagram},
		{"4104", proxy.KindDiagramObject},
		{"4096", proxy.KindDiagramObject},
		{"3710", proxy.KindDiagramObject},
		{"3657", proxy.KindDiagramReference},
		{"c-serve", proxy.KindDiagramConnection},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, get(t, m, f, tt.id).Kind(), tt.id)
	}

	assert.Equal(t, proxy.KindGeneric, root.Kind())
	assert.IsType(t, &proxy.DiagramReference{}, get(t, m, f, "3657"))
	assert.IsType(t, &proxy.Element{}, get(t, m, f, "e-customer"))
}

func TestWrap_UnknownTypeFallsBackToGeneric(t *testing.T) {
	m, f, _ := setup(t)
	odd := domain.NewNode("odd", "CustomWidget", "Odd")
	require.NoError(t, m.Get("business").Append(odd))

	p := f.Wrap(odd)
	assert.Equal(t, proxy.KindGeneric, p.Kind())
	assert.Equal(t, "business", p.Parent().ID())
}

func TestWrap_Nil(t *testing.T) {
	f := proxy.NewFactory(nil)
	p := f.Wrap(nil)

	assert.True(t, p.IsEmpty())
	assert.Equal(t, proxy.KindNone, p.Kind())
	assert.Equal(t, "", p.ID())
	assert.True(t, p.Parent().IsEmpty())
	assert.True(t, p.Parents().IsEmpty())
	assert.True(t, p.Children().IsEmpty())
	assert.True(t, p.Find().IsEmpty())
	assert.True(t, p.InRels().IsEmpty())
	assert.True(t, p.ViewRefs().IsEmpty())
	assert.True(t, p.ReferencedConcept().IsEmpty())
	assert.Nil(t, p.Attr("BOUNDS"))
	assert.ErrorIs(t, p.Delete(), domain.ErrNodeNotFound)
	assert.ErrorIs(t, p.SetAttr("FILL_COLOR", "#ffffff"), domain.ErrNodeNotFound)
}

func TestWrap_EqualByID(t *testing.T) {
	m, f, root := setup(t)

	root.Node().Walk(func(n *domain.Node) bool {
		a, b := f.Wrap(n), f.Wrap(m.Get(f.Wrap(n).ID()))
		assert.NotSame(t, a, b, "wrapping is pure")
		assert.True(t, a.Equal(b), n.ID)
		return true
	})

	other := proxy.NewFactory(nil)
	assert.True(t, other.Wrap(m.Get("4104")).Equal(f.Wrap(m.Get("4104"))))
	assert.False(t, get(t, m, f, "4104").Equal(get(t, m, f, "4120")))
	assert.False(t, get(t, m, f, "4104").Equal(nil))

	empty := f.Wrap(nil)
	assert.False(t, empty.Equal(f.Wrap(nil)), "empty proxies wrap no node")
	assert.False(t, empty.Equal(empty))
	assert.False(t, get(t, m, f, "4104").Equal(empty))
	assert.False(t, empty.Equal(get(t, m, f, "4104")))
}

func TestParents(t *testing.T) {
	m, f, root := setup(t)

	parents := get(t, m, f, "4104").Parents()
	assert.Equal(t, []string{"4096", "4056", "e64e9b49"}, parents.IDs(), "nearest first, root excluded")

	assert.True(t, get(t, m, f, "business").Parents().IsEmpty())
	assert.True(t, root.Parents().IsEmpty())
	assert.True(t, root.Parent().IsEmpty())
}

func TestChildren(t *testing.T) {
	m, f, _ := setup(t)

	diagram := get(t, m, f, "4056").Children()
	want := []string{"4096", "3707", "3657", "c-serve", "c-realize", "c-appserve"}
	if diff := cmp.Diff(want, diagram.IDs()); diff != "" {
		t.Errorf("diagram children mismatch (-want +got):\n%s", diff)
	}

	seenConnection := false
	for _, p := range diagram.All() {
		if p.Kind() == proxy.KindDiagramConnection {
			seenConnection = true
			continue
		}
		assert.False(t, seenConnection, "objects come before connections")
	}

	group := get(t, m, f, "3707").Children()
	assert.Equal(t, 6, group.Len())
	for _, p := range group.All() {
		assert.NotEqual(t, proxy.KindDiagramConnection, p.Kind())
	}

	assert.Equal(t, []string{"3708", "3709", "3710", "3711", "3712", "3713"}, group.IDs())
	assert.True(t, get(t, m, f, "4104").Children().IsEmpty(), "held connections are not children")
	assert.Equal(t, 5, get(t, m, f, "business").Children().Len())
}

func TestFind(t *testing.T) {
	_, _, root := setup(t)

	tests := []struct {
		selector string
		want     int
	}{
		{"*", 36},
		{"elements", 7},
		{"relations", 5},
		{"relationships", 5},
		{"concepts", 12},
		{"views", 2},
		{"BusinessActor", 3},
		{".Customer", 3},
		{"BusinessActor.Customer", 3},
		{".Overview", 2},
		{"Folder", 4},
		{"#4104", 1},
		{"#missing", 0},
		{"garbage-type-name", 0},
		{"", 0},
		{"BusinessActor.Customer.Extra", 0},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Equal(t, tt.want, root.Find(tt.selector).Len())
		})
	}

	assert.Equal(t, 36, root.Find().Len(), "Find() is Find(\"*\")")
	assert.Equal(t, []string{"3657", "4200"}, root.Find(".Overview").IDs(), "references resolve to their diagram")
}

func TestFind_Partition(t *testing.T) {
	_, _, root := setup(t)

	all := map[string]bool{}
	for _, id := range root.Find("*").IDs() {
		all[id] = true
	}

	seen := map[string]string{}
	for _, sel := range []string{"elements", "relations", "views"} {
		for _, id := range root.Find(sel).IDs() {
			assert.True(t, all[id], "%s from %s is in *", id, sel)
			prev, dup := seen[id]
			assert.False(t, dup, "%s matched by both %s and %s", id, prev, sel)
			seen[id] = sel
		}
	}
	assert.Len(t, seen, 14)
}

func TestFind_ScopedAndOrdered(t *testing.T) {
	m, f, root := setup(t)

	assert.Equal(t, []string{"c-serve"}, get(t, m, f, "4104").Find().IDs())
	assert.Equal(t, []string{"3711", "4201"}, get(t, m, f, "e64e9b49").Find("BusinessActor").IDs())
	assert.Equal(t, []string{"e-customer", "3711", "4201"}, root.Find(".Customer").IDs())

	single := root.Find("#3711")
	require.Equal(t, 1, single.Len())
	assert.Equal(t, "3711", single.First().ID())

	union := root.Find("views", "Folder")
	assert.Equal(t, []string{"business", "application", "relations", "e64e9b49", "4056", "4200"}, union.IDs())
}

func TestReferencedConcept(t *testing.T) {
	m, f, _ := setup(t)

	assert.Equal(t, "e-service", get(t, m, f, "4104").ReferencedConcept().ID())
	assert.Equal(t, "r-serve", get(t, m, f, "c-serve").ReferencedConcept().ID())
	assert.Equal(t, "4200", get(t, m, f, "3657").ReferencedConcept().ID())
	assert.Equal(t, "4096", get(t, m, f, "4096").ReferencedConcept().ID(), "groups stand for themselves")
	assert.Equal(t, "e-role", get(t, m, f, "e-role").ReferencedConcept().ID())
}

func TestDiagramObject(t *testing.T) {
	m, f, _ := setup(t)

	obj, ok := get(t, m, f, "4104").(*proxy.DiagramObject)
	require.True(t, ok)
	assert.Equal(t, "e-service", obj.Concept().ID())
	assert.Equal(t, "4056", obj.View().ID())

	b, ok := obj.Bounds()
	require.True(t, ok)
	assert.Equal(t, attr.Bounds{X: 20, Y: 25, Width: 101, Height: 60}, b)

	group, ok := get(t, m, f, "4096").(*proxy.DiagramObject)
	require.True(t, ok)
	assert.True(t, group.Concept().IsEmpty(), "groups draw no concept")

	ref, ok := get(t, m, f, "3657").(*proxy.DiagramReference)
	require.True(t, ok)
	assert.Equal(t, "4200", ref.Diagram().ID())
	assert.Equal(t, "4056", ref.View().ID())
}

func TestSetConcept(t *testing.T) {
	m, f, _ := setup(t)
	obj := get(t, m, f, "4104").(*proxy.DiagramObject)

	require.NoError(t, obj.SetConcept(get(t, m, f, "e-object")))
	assert.Equal(t, "e-object", obj.Concept().ID())
	assert.Equal(t, []string{"4104", "3712"}, get(t, m, f, "e-object").ObjectRefs().IDs())

	assert.ErrorIs(t, obj.SetConcept(get(t, m, f, "r-assign")), domain.ErrInvalidConcept)
	assert.ErrorIs(t, obj.SetConcept(nil), domain.ErrInvalidConcept)

	group := get(t, m, f, "4096").(*proxy.DiagramObject)
	assert.ErrorIs(t, group.SetConcept(get(t, m, f, "e-role")), domain.ErrInvalidConcept)

	m.SetReadOnly(true)
	assert.ErrorIs(t, obj.SetConcept(get(t, m, f, "e-role")), domain.ErrModelLocked)
	assert.Equal(t, "e-object", obj.Concept().ID())
}

func TestRels(t *testing.T) {
	m, f, _ := setup(t)

	obj := get(t, m, f, "4104")
	assert.Equal(t, []string{"c-realize"}, obj.InRels().IDs())
	assert.Equal(t, []string{"c-serve"}, obj.OutRels().IDs())

	process := get(t, m, f, "e-process")
	assert.Equal(t, []string{"r-appserve"}, process.InRels().IDs())
	assert.Equal(t, []string{"r-realize", "r-access"}, process.OutRels().IDs())

	rel := get(t, m, f, "r-assign")
	assert.Equal(t, "e-customer", rel.Source().ID())
	assert.Equal(t, "e-role", rel.Target().ID())
	assert.True(t, get(t, m, f, "business").Source().IsEmpty())
}

func TestObjectAndViewRefs(t *testing.T) {
	m, f, _ := setup(t)

	customer := get(t, m, f, "e-customer")
	assert.Equal(t, []string{"3711", "4201"}, customer.ObjectRefs().IDs())
	assert.Equal(t, []string{"4056", "4200"}, customer.ViewRefs().IDs())

	role := get(t, m, f, "e-role")
	assert.Equal(t, []string{"4120", "4202"}, role.ObjectRefs().IDs())

	overview := get(t, m, f, "4200")
	assert.Equal(t, []string{"3657"}, overview.ObjectRefs().IDs())
	assert.Equal(t, []string{"4056"}, overview.ViewRefs().IDs())

	assert.Equal(t, []string{"c-assign"}, get(t, m, f, "r-assign").ObjectRefs().IDs())
}

func TestAttr(t *testing.T) {
	m, f, _ := setup(t)

	group := get(t, m, f, "3707")
	assert.Nil(t, group.Attr("FONT_COLOR"))
	assert.Equal(t, testutils.FixtureFont, group.Attr("FONT"))
	assert.Nil(t, group.Attr("LINE_COLOR"))
	assert.Equal(t, 1, group.Attr("LINE_WIDTH"))
	assert.Equal(t, "#ffff80", group.Attr("FILL_COLOR"))
	assert.Equal(t, attr.Bounds{X: 20, Y: 20, Width: 440, Height: 500}, group.Attr("BOUNDS"))
	assert.Equal(t, 255, group.Attr("ALPHA"))
	assert.Equal(t, attr.TextAlignCenter, group.Attr("TEXT_ALIGNMENT"))
	assert.Nil(t, group.Attr("GRADIENT"), "unknown keys read as nil")

	assert.Equal(t, 2, get(t, m, f, "4112").Attr("LINE_WIDTH"))
	assert.Equal(t, 1, get(t, m, f, "c-serve").Attr("LINE_WIDTH"))
	assert.Nil(t, get(t, m, f, "c-serve").Attr("ALPHA"))
	assert.Nil(t, get(t, m, f, "e-customer").Attr("LINE_WIDTH"), "concepts have no line width")
}

func TestSetAttr(t *testing.T) {
	m, f, _ := setup(t)
	obj := get(t, m, f, "4104")

	require.NoError(t, obj.SetAttr("FILL_COLOR", "#ffff80"))
	assert.Equal(t, "#ffff80", obj.Attr("FILL_COLOR"))

	require.NoError(t, obj.SetAttr("fill_color", nil))
	assert.Nil(t, obj.Attr("FILL_COLOR"))

	require.NoError(t, obj.SetAttr("BOUNDS", attr.Bounds{X: 1, Y: 2, Width: 3, Height: 4}))
	assert.Equal(t, attr.Bounds{X: 1, Y: 2, Width: 3, Height: 4}, obj.Attr("BOUNDS"))

	assert.ErrorIs(t, obj.SetAttr("GRADIENT", 1), attr.ErrUnknownKey)
	assert.ErrorIs(t, obj.SetAttr("LINE_WIDTH", 9), attr.ErrInvalidValue)

	m.SetReadOnly(true)
	assert.ErrorIs(t, obj.SetAttr("FILL_COLOR", "#000000"), domain.ErrModelLocked)
	assert.Nil(t, obj.Attr("FILL_COLOR"))
}

func TestSetNameAndDocumentation(t *testing.T) {
	m, f, _ := setup(t)
	p := get(t, m, f, "e-customer")

	require.NoError(t, p.SetName("Client"))
	require.NoError(t, p.SetDocumentation("Renamed."))
	assert.Equal(t, "Client", p.Name())
	assert.Equal(t, "Renamed.", p.Documentation())

	m.SetReadOnly(true)
	assert.ErrorIs(t, p.SetName("Customer"), domain.ErrModelLocked)
	assert.Equal(t, "Client", p.Name())
}
