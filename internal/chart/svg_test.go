package chart

import (
	"bytes"
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ganttboard/internal/config"
	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/testutil"
	"github.com/alexanderramin/ganttboard/internal/viewmodel"
)

func boardView(t *testing.T, items ...domain.WorkItem) viewmodel.View {
	t.Helper()
	o := viewmodel.New(testutil.NewMemStore(items...), viewmodel.WithProject(domain.ProjectSettings{Name: "R&D <Q1>"}))
	require.NoError(t, o.Refresh(context.Background()))
	return o.View()
}

func TestRenderSVG_WellFormed(t *testing.T) {
	v := boardView(t,
		testutil.NewTestWorkItem("Phase", testutil.WithID("p"), testutil.WithType(domain.ItemPhase),
			testutil.WithDates(testutil.Day(0), testutil.Day(20)), testutil.WithProgress(50)),
		testutil.NewTestWorkItem("Build & test", testutil.WithID("c"), testutil.WithParentID("p"),
			testutil.WithDates(testutil.Day(2), testutil.Day(9)), testutil.WithColor("#10B981")),
		testutil.NewTestWorkItem("Launch", testutil.WithID("m"), testutil.WithType(domain.ItemMilestone),
			testutil.WithDates(testutil.Day(20), testutil.Day(20))),
		testutil.NewTestWorkItem("Lost", testutil.WithID("o"), testutil.WithParentID("deleted")),
	)

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, v, config.Default().Chart))
	out := buf.String()

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error(), "svg must be well-formed XML")
			break
		}
	}

	assert.Contains(t, out, "R&amp;D &lt;Q1&gt;")
	assert.Contains(t, out, "Build &amp; test")
	assert.Contains(t, out, `fill="#10B981"`)
	assert.Contains(t, out, "<polygon", "milestones are diamonds")
	assert.Contains(t, out, `fill-opacity="0.25"`, "progress overlay")
	assert.Contains(t, out, string(v.Unresolved[0].Reason))
	assert.Contains(t, out, "4 of 4 items")
	assert.Equal(t, len(v.Buckets), strings.Count(out, `class="bucket"`))
}

func TestRenderSVG_EmptyBoard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, boardView(t), config.Default().Chart))
	assert.True(t, strings.HasSuffix(buf.String(), "</svg>\n"))
	assert.Contains(t, buf.String(), `width="1072"`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
