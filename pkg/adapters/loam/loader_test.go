package loam

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/archiscript/internal/compiler"
	"github.com/aretw0/archiscript/internal/testutils"
	"github.com/aretw0/archiscript/pkg/ports/tests"
)

func TestLoader_Contract(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t, loam.WithVersioning(false))
	ctx := context.Background()

	docs := []core.Document{
		{ID: "business.md", Content: "---\nid: business\ntype: Folder\nname: Business\n---\n"},
		{ID: "customer.md", Content: "---\nid: customer\ntype: BusinessActor\nname: Customer\nparent: business\n---\nSomeone we insure.\n"},
		{ID: "role.md", Content: "---\nid: role\ntype: BusinessRole\nname: Insurant\nparent: business\n---\n"},
		{ID: "assign.md", Content: "---\nid: assign\ntype: AssignmentRelationship\nsource: customer\ntarget: role\n---\n"},
	}
	for _, doc := range docs {
		require.NoError(t, repo.Save(ctx, doc))
	}

	loader := New(loam.NewTypedRepository[NodeMetadata](repo), WithModel("archisurance", "Archisurance"))
	tests.ModelLoaderContractTest(t, loader, []string{"assign", "business", "customer", "role"})

	rec, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "archisurance", rec.ID)

	m, err := compiler.NewAssembler(nil).Assemble(rec)
	require.NoError(t, err)
	assert.Equal(t, "Someone we insure.", m.Get("customer").Documentation)
	assert.Same(t, m.Get("role"), m.Get("assign").Target)
}

func TestLoader_ListNodes_NormalizesIDs(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t, loam.WithVersioning(false))

	files := map[string]string{
		"start.md": "---\nid: start.md\ntype: Folder\n---\nHello",
		"choice.json": `{
  "id": "choice.json",
  "type": "Folder"
}`,
		"implicit.md": "---\ntype: Folder\n---\nID is implied from filename",
		"v1.2.md":     "---\nid: v1.2\ntype: Folder\n---\n",
	}
	testutils.WriteDocs(t, tmpDir, files)

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	ids, err := loader.ListNodes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"choice", "implicit", "start", "v1.2"}, ids)
}

func TestLoader_ListNodes_DetectsCollisions(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t, loam.WithVersioning(false))

	files := map[string]string{
		"foo.md":   "---\nid: foo\ntype: Folder\n---\nExplicit ID",
		"foo.json": `{"id": "foo", "type": "Folder"}`,
	}
	testutils.WriteDocs(t, tmpDir, files)

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	_, err := loader.ListNodes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestLoader_Watch(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t, loam.WithVersioning(false))
	loader := New(loam.NewTypedRepository[NodeMetadata](repo))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := loader.Watch(ctx)
	require.NoError(t, err)

	// The watcher may still be settling, so keep touching the document
	// until its change comes through.
	write := func() {
		testutils.WriteDocs(t, tmpDir, map[string]string{
			"actor.md": "---\nid: actor\ntype: BusinessActor\n---\n",
		})
	}
	write()
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	timeout := time.After(5 * time.Second)
wait:
	for {
		select {
		case id, ok := <-ch:
			require.True(t, ok, "channel closed before any change")
			if id == "actor" {
				break wait
			}
		case <-tick.C:
			write()
		case <-timeout:
			t.Fatal("timeout waiting for watch event")
		}
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

func TestExport_RoundTrip(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t, loam.WithVersioning(false))
	ctx := context.Background()
	m := testutils.Fixture(t)

	require.NoError(t, Export(ctx, repo, m))

	loader := New(loam.NewTypedRepository[NodeMetadata](repo), WithModel(m.Root().ID, m.Root().Name))
	rec, err := loader.Load(ctx)
	require.NoError(t, err)

	again, err := compiler.NewAssembler(nil).Assemble(rec)
	require.NoError(t, err)

	assert.Equal(t, m.Len(), again.Len())
	assert.Equal(t, m.Get("e-customer").Documentation, again.Get("e-customer").Documentation)
	assert.Same(t, again.Get(testutils.FixtureOverview), again.Get("3657").Ref)
	assert.Same(t, again.Get("e-service"), again.Get("4104").Concept)

	font, _ := again.Get("3707").Attr("font")
	assert.Equal(t, testutils.FixtureFont, font)

	var want, got []string
	for _, n := range m.Get(testutils.FixtureLayered).Children() {
		want = append(want, n.ID)
	}
	for _, n := range again.Get(testutils.FixtureLayered).Children() {
		got = append(got, n.ID)
	}
	assert.Equal(t, want, got, "sibling order survives the round trip")
}

func TestExport_Canceled(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t, loam.WithVersioning(false))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, Export(ctx, repo, testutils.Fixture(t)), context.Canceled)
}
