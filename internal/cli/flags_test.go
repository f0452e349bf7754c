package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/testutil"
)

func TestEnumListValue(t *testing.T) {
	v := newEnumList("status", domain.Statuses)

	require.NoError(t, v.Set("in-progress, Completed"))
	require.NoError(t, v.Set("in-progress"))
	assert.Equal(t, []domain.ItemStatus{domain.StatusInProgress, domain.StatusCompleted}, v.values)
	assert.Equal(t, "in-progress,completed", v.String())

	err := v.Set("done")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestScaleValue(t *testing.T) {
	var s scaleValue
	require.NoError(t, s.Set("W"))
	assert.Equal(t, domain.ScaleWeeks, s.scale)
	assert.True(t, s.set)
	assert.Error(t, s.Set("fortnights"))
}

func TestDateValue(t *testing.T) {
	var d dateValue
	assert.Equal(t, "", d.String())

	require.NoError(t, d.Set("2024-02-01"))
	assert.Equal(t, testutil.Date(2024, 2, 1), *d.t)
	assert.Equal(t, "2024-02-01", d.String())

	assert.True(t, domain.IsValidation(d.Set("Feb 1")))
}

func TestFilterFlags_Config(t *testing.T) {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	ff := addFilterFlags(cmd)
	cmd.SetArgs([]string{
		"--search", "mock",
		"--type", "task,phase",
		"--priority", "high",
		"--assignee", "Alice,Bea",
		"--from", "2024-02-01",
		"--where", "progress < 50",
	})
	require.NoError(t, cmd.Execute())

	cfg := ff.config()
	assert.Equal(t, "mock", cfg.Search)
	assert.Equal(t, []domain.ItemType{domain.ItemTask, domain.ItemPhase}, cfg.Types)
	assert.Equal(t, []domain.Priority{domain.PriorityHigh}, cfg.Priorities)
	assert.Equal(t, []string{"Alice", "Bea"}, cfg.Assignees)
	require.NotNil(t, cfg.DateRange.Start)
	assert.Equal(t, testutil.Date(2024, 2, 1), *cfg.DateRange.Start)
	assert.Nil(t, cfg.DateRange.End)
	assert.Equal(t, "progress < 50", cfg.Where)
	assert.Empty(t, cfg.Statuses)
}

func TestParsePercent(t *testing.T) {
	n, err := parsePercent(" 45% ")
	require.NoError(t, err)
	assert.Equal(t, 45, n)

	_, err = parsePercent("half")
	assert.True(t, domain.IsValidation(err))
}
