// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/budget-engine/pkg/types"
)

func marker(page int, category types.MarkerCategory, number int, name string) types.SectionMarker {
	return types.SectionMarker{PageIndex: page, Category: category, Number: number, Name: name}
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name          string
		pageCount     int
		markers       []types.SectionMarker
		appendixStart int
		want          []types.Segment
	}{
		{
			name:          "no markers yields one overview segment",
			pageCount:     12,
			markers:       nil,
			appendixStart: -1,
			want: []types.Segment{
				{Label: OverviewLabel, Category: types.SegmentOverview, StartPage: 0, EndPage: 11, OrderIndex: 0},
			},
		},
		{
			name:      "markers at 5 40 87 of 120 pages",
			pageCount: 120,
			markers: []types.SectionMarker{
				marker(5, types.MarkerRevenue, 1, "市税"),
				marker(40, types.MarkerRevenue, 2, "地方譲与税"),
				marker(87, types.MarkerExpenditure, 1, "議会費"),
			},
			appendixStart: -1,
			want: []types.Segment{
				{Label: OverviewLabel, Category: types.SegmentOverview, StartPage: 0, EndPage: 4, OrderIndex: 0},
				{Label: "revenue_01_市税", Category: types.SegmentRevenue, StartPage: 5, EndPage: 39, OrderIndex: 1},
				{Label: "revenue_02_地方譲与税", Category: types.SegmentRevenue, StartPage: 40, EndPage: 86, OrderIndex: 2},
				{Label: "expenditure_01_議会費", Category: types.SegmentExpenditure, StartPage: 87, EndPage: 119, OrderIndex: 3},
			},
		},
		{
			name:      "marker on page zero omits the overview",
			pageCount: 10,
			markers: []types.SectionMarker{
				marker(0, types.MarkerRevenue, 1, "市税"),
			},
			appendixStart: -1,
			want: []types.Segment{
				{Label: "revenue_01_市税", Category: types.SegmentRevenue, StartPage: 0, EndPage: 9, OrderIndex: 0},
			},
		},
		{
			name:      "explicit appendix start claims trailing pages",
			pageCount: 20,
			markers: []types.SectionMarker{
				marker(2, types.MarkerRevenue, 1, "市税"),
				marker(8, types.MarkerExpenditure, 1, "議会費"),
			},
			appendixStart: 15,
			want: []types.Segment{
				{Label: OverviewLabel, Category: types.SegmentOverview, StartPage: 0, EndPage: 1, OrderIndex: 0},
				{Label: "revenue_01_市税", Category: types.SegmentRevenue, StartPage: 2, EndPage: 7, OrderIndex: 1},
				{Label: "expenditure_01_議会費", Category: types.SegmentExpenditure, StartPage: 8, EndPage: 14, OrderIndex: 2},
				{Label: AppendixLabel, Category: types.SegmentAppendix, StartPage: 15, EndPage: 19, OrderIndex: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assemble(tt.pageCount, tt.markers, tt.appendixStart)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, Validate(got, tt.pageCount))
		})
	}
}

// Assembled segments must partition [0, N-1] exactly for arbitrary marker
// placements: no gaps, no overlaps, full coverage.
func TestAssemblePartitionInvariants(t *testing.T) {
	cases := [][]int{
		{0},
		{3},
		{0, 1, 2},
		{1, 7, 30, 31, 90},
		{50, 99},
	}
	const pageCount = 100

	for _, pages := range cases {
		markers := make([]types.SectionMarker, len(pages))
		for i, p := range pages {
			markers[i] = marker(p, types.MarkerRevenue, i+1, "section")
		}

		segments, err := Assemble(pageCount, markers, -1)
		require.NoError(t, err)
		require.NoError(t, Validate(segments, pageCount))

		covered := 0
		for i, s := range segments {
			assert.Equal(t, i, s.OrderIndex)
			assert.LessOrEqual(t, s.StartPage, s.EndPage)
			covered += s.PageCount()
		}
		assert.Equal(t, pageCount, covered)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	markers := []types.SectionMarker{
		marker(5, types.MarkerRevenue, 1, "市税"),
		marker(12, types.MarkerExpenditure, 1, "議会費"),
	}

	first, err := Assemble(40, markers, -1)
	require.NoError(t, err)
	second, err := Assemble(40, markers, -1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssembleRejectsOutOfOrderMarkers(t *testing.T) {
	markers := []types.SectionMarker{
		marker(10, types.MarkerRevenue, 1, "市税"),
		marker(10, types.MarkerRevenue, 2, "地方譲与税"),
	}

	_, err := Assemble(20, markers, -1)
	require.Error(t, err)
}

func TestAssembleRejectsBadAppendixStart(t *testing.T) {
	markers := []types.SectionMarker{marker(5, types.MarkerRevenue, 1, "市税")}

	_, err := Assemble(20, markers, 5) // appendix would swallow the last section
	require.Error(t, err)

	_, err = Assemble(20, markers, 25) // beyond the document
	require.Error(t, err)
}

func TestSectionLabelSanitizesName(t *testing.T) {
	m := marker(3, types.MarkerRevenue, 7, "国庫支出金/委託金")
	assert.Equal(t, "revenue_07_国庫支出金・委託金", SectionLabel(m))

	m.Name = ""
	assert.Equal(t, "revenue_07_unnamed", SectionLabel(m))
}

func TestValidateRejectsGapsAndOverlaps(t *testing.T) {
	gap := []types.Segment{
		{Label: "a", StartPage: 0, EndPage: 3, OrderIndex: 0},
		{Label: "b", StartPage: 5, EndPage: 9, OrderIndex: 1},
	}
	assert.Error(t, Validate(gap, 10))

	overlap := []types.Segment{
		{Label: "a", StartPage: 0, EndPage: 5, OrderIndex: 0},
		{Label: "b", StartPage: 4, EndPage: 9, OrderIndex: 1},
	}
	assert.Error(t, Validate(overlap, 10))

	short := []types.Segment{
		{Label: "a", StartPage: 0, EndPage: 5, OrderIndex: 0},
	}
	assert.Error(t, Validate(short, 10))

	assert.Error(t, Validate(nil, 10))
}
