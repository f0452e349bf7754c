package timeline

import (
	"testing"

	"github.com/alexanderramin/ganttboard/internal/domain"
	"github.com/alexanderramin/ganttboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(startDay, endDay int) domain.WorkItem {
	return testutil.NewTestWorkItem("x", testutil.WithDates(testutil.Day(startDay), testutil.Day(endDay)))
}

func TestComputeAxis(t *testing.T) {
	tests := []struct {
		name      string
		items     []domain.WorkItem
		zoom      float64
		wantDays  int
		wantWidth float64
	}{
		{"empty snapshot", nil, 1, 0, 800},
		{"short range hits floor", []domain.WorkItem{span(0, 9)}, 1, 9, 800},
		{"long range", []domain.WorkItem{span(0, 30), span(10, 60)}, 1, 60, 1800},
		{"zoom scales width", []domain.WorkItem{span(0, 60)}, 2, 60, 3600},
		{"zoom out floors", []domain.WorkItem{span(0, 30)}, 0.5, 30, 800},
		{"unordered snapshot", []domain.WorkItem{span(20, 40), span(-10, 5)}, 1, 50, 1500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis := ComputeAxis(tt.items, domain.ScaleDays, tt.zoom)
			assert.Equal(t, tt.wantDays, axis.TotalDays)
			assert.InDelta(t, tt.wantWidth, axis.PixelWidth, 1e-9)
			assert.GreaterOrEqual(t, axis.PixelWidth, MinPixelWidth)
		})
	}
}

func TestComputeAxis_Range(t *testing.T) {
	axis := ComputeAxis([]domain.WorkItem{span(5, 8), span(2, 4), span(3, 12)}, domain.ScaleWeeks, 1.2)
	assert.Equal(t, testutil.Day(2), axis.VisibleStart)
	assert.Equal(t, testutil.Day(12), axis.VisibleEnd)
	assert.Equal(t, domain.ScaleWeeks, axis.Scale)
	assert.Equal(t, 1.2, axis.Zoom)
}

func TestComputeBarGeometry(t *testing.T) {
	axis := ComputeAxis([]domain.WorkItem{span(0, 60)}, domain.ScaleDays, 1) // 1800px, 30px/day

	tests := []struct {
		name      string
		item      domain.WorkItem
		wantLeft  float64
		wantWidth float64
	}{
		{"starts at origin", span(0, 10), 0, 300},
		{"offset", span(30, 40), 900, 300},
		{"same-day item gets floor width", span(5, 5), 150, 20},
		{"full span", span(0, 60), 0, 1800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ComputeBarGeometry(tt.item, axis)
			assert.InDelta(t, tt.wantLeft, bar.Left, 1e-9)
			assert.InDelta(t, tt.wantWidth, bar.Width, 1e-9)
		})
	}
}

func TestComputeBarGeometry_Floors(t *testing.T) {
	axis := ComputeAxis([]domain.WorkItem{span(0, 365)}, domain.ScaleMonths, 0.5)
	for _, it := range []domain.WorkItem{span(0, 0), span(100, 101), span(364, 365)} {
		bar := ComputeBarGeometry(it, axis)
		assert.GreaterOrEqual(t, bar.Left, 0.0)
		assert.GreaterOrEqual(t, bar.Width, MinBarWidth)
	}
}

func TestComputeBarGeometry_ItemBeforeAxisClampsLeft(t *testing.T) {
	axis := ComputeAxis([]domain.WorkItem{span(10, 40)}, domain.ScaleDays, 1)
	bar := ComputeBarGeometry(span(0, 12), axis)
	assert.Equal(t, 0.0, bar.Left)
}

func TestComputeBarGeometry_ZeroSpanAxis(t *testing.T) {
	item := span(3, 3)
	axis := ComputeAxis([]domain.WorkItem{item}, domain.ScaleDays, 1)
	require.Equal(t, 0, axis.TotalDays)

	bar := ComputeBarGeometry(item, axis)
	assert.Equal(t, Bar{Left: 0, Width: MinBarWidth}, bar)
}

func TestBuckets(t *testing.T) {
	// 2024-01-01 is a Monday.
	items := []domain.WorkItem{testutil.NewTestWorkItem("x",
		testutil.WithDates(testutil.Date(2024, 1, 1), testutil.Date(2024, 3, 10)))}

	tests := []struct {
		scale      domain.Scale
		wantCount  int
		firstLabel string
	}{
		{domain.ScaleDays, 70, "Jan 1"},
		{domain.ScaleWeeks, 11, "Week 1"},
		{domain.ScaleMonths, 3, "Jan 2024"},
	}
	for _, tt := range tests {
		t.Run(string(tt.scale), func(t *testing.T) {
			axis := ComputeAxis(items, tt.scale, 1)
			buckets := Buckets(axis)
			require.Len(t, buckets, tt.wantCount)
			assert.Equal(t, tt.firstLabel, buckets[0].Label)

			var sum float64
			for i, b := range buckets {
				sum += b.Width
				assert.InDelta(t, float64(i)*b.Width, b.Left, 1e-6)
			}
			assert.InDelta(t, axis.PixelWidth, sum, 1e-6)
		})
	}
}

func TestBuckets_WeeksAnchorOnSunday(t *testing.T) {
	axis := ComputeAxis([]domain.WorkItem{span(0, 20)}, domain.ScaleWeeks, 1)
	buckets := Buckets(axis)
	require.NotEmpty(t, buckets)
	assert.Equal(t, testutil.Date(2023, 12, 31), buckets[0].Start)
	assert.Equal(t, "Week 2", buckets[1].Label)
}

func TestBuckets_EmptyAxis(t *testing.T) {
	assert.Empty(t, Buckets(ComputeAxis(nil, domain.ScaleDays, 1)))
}

func TestZoom(t *testing.T) {
	z := domain.DefaultZoom
	for range 3 {
		z = ZoomIn(z)
	}
	assert.InDelta(t, 1.728, z, 1e-9)

	for range 20 {
		z = ZoomIn(z)
	}
	assert.Equal(t, domain.MaxZoom, z)

	for range 20 {
		z = ZoomOut(z)
	}
	assert.Equal(t, domain.MinZoom, z)
}

func TestClampZoom(t *testing.T) {
	assert.Equal(t, 3.0, ClampZoom(10))
	assert.Equal(t, 0.5, ClampZoom(0.1))
	assert.Equal(t, 1.0, ClampZoom(0))
	assert.Equal(t, 1.5, ClampZoom(1.5))
}

func TestParseScale(t *testing.T) {
	for in, want := range map[string]domain.Scale{
		"days": domain.ScaleDays, "Week": domain.ScaleWeeks, " m ": domain.ScaleMonths,
	} {
		got, err := ParseScale(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseScale("years")
	assert.True(t, domain.IsValidation(err))
}
