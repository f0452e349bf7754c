package hierarchy

import (
	"testing"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, opts ...testutil.WorkItemOption) domain.WorkItem {
	return testutil.NewTestWorkItem(id, append([]testutil.WorkItemOption{testutil.WithID(id)}, opts...)...)
}

func names(items []domain.WorkItem) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestGroupItems_ParentsAndChildren(t *testing.T) {
	items := []domain.WorkItem{
		item("A"),
		item("A1", testutil.WithParentID("A")),
		item("B"),
		item("A2", testutil.WithParentID("A")),
	}

	g := GroupItems(items)

	require.Len(t, g.Groups, 2)
	assert.Equal(t, "A", g.Groups[0].Parent.ID)
	assert.Equal(t, []string{"A1", "A2"}, names(g.Groups[0].Children))
	assert.Equal(t, "B", g.Groups[1].Parent.ID)
	assert.Empty(t, g.Groups[1].Children)
	assert.Empty(t, g.Unresolved)
}

func TestGroupItems_ChildBeforeParent(t *testing.T) {
	g := GroupItems([]domain.WorkItem{
		item("c", testutil.WithParentID("p")),
		item("p"),
	})
	require.Len(t, g.Groups, 1)
	assert.Equal(t, []string{"c"}, names(g.Groups[0].Children))
}

func TestGroupItems_Unresolved(t *testing.T) {
	g := GroupItems([]domain.WorkItem{
		item("root"),
		item("child", testutil.WithParentID("root")),
		item("grandchild", testutil.WithParentID("child")),
		item("orphan", testutil.WithParentID("gone")),
	})

	require.Len(t, g.Groups, 1)
	assert.Equal(t, []string{"child"}, names(g.Groups[0].Children))
	require.Len(t, g.Unresolved, 2)
	assert.Equal(t, "grandchild", g.Unresolved[0].Item.ID)
	assert.Equal(t, ReasonParentNotRoot, g.Unresolved[0].Reason)
	assert.Equal(t, "orphan", g.Unresolved[1].Item.ID)
	assert.Equal(t, ReasonParentMissing, g.Unresolved[1].Reason)
}

func TestGroupItems_EmptyParentIDIsRoot(t *testing.T) {
	g := GroupItems([]domain.WorkItem{item("x", testutil.WithParentID(""))})
	require.Len(t, g.Groups, 1)
	assert.Equal(t, "x", g.Groups[0].Parent.ID)
}

func TestGroupItems_IdempotentOverFlatten(t *testing.T) {
	inputs := [][]domain.WorkItem{
		nil,
		{item("A"), item("A1", testutil.WithParentID("A")), item("B")},
		{item("c", testutil.WithParentID("p")), item("q"), item("p"), item("d", testutil.WithParentID("q"))},
		{item("r"), item("o", testutil.WithParentID("missing"))},
	}
	for _, in := range inputs {
		first := GroupItems(in).Groups
		second := GroupItems(Flatten(first)).Groups
		assert.Equal(t, first, second)
	}
}

func TestResolveDependencies(t *testing.T) {
	items := []domain.WorkItem{
		item("a"),
		item("b"),
		item("c", testutil.WithDependencies("b", "deleted", "a")),
	}
	resolved, missing := ResolveDependencies(items[2], Index(items))
	assert.Equal(t, []string{"b", "a"}, names(resolved))
	assert.Equal(t, []string{"deleted"}, missing)
}

func TestRootCandidates(t *testing.T) {
	items := []domain.WorkItem{
		item("a"),
		item("b"),
		item("a1", testutil.WithParentID("a")),
	}
	assert.Equal(t, []string{"b"}, names(RootCandidates(items, "a")))
	assert.Equal(t, []string{"a", "b"}, names(RootCandidates(items, "")))
}

func TestGroupItems_SingleParentWithChild(t *testing.T) {
	items := []domain.WorkItem{
		item("A", testutil.WithDates(testutil.Date(2024, 1, 1), testutil.Date(2024, 1, 10))),
		item("B", testutil.WithParentID("A"), testutil.WithDates(testutil.Date(2024, 1, 3), testutil.Date(2024, 1, 5))),
	}
	g := GroupItems(items)
	require.Len(t, g.Groups, 1)
	assert.Equal(t, "A", g.Groups[0].Parent.ID)
	assert.Equal(t, []string{"B"}, names(g.Groups[0].Children))
}
