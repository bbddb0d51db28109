// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/budget-engine/pkg/types"
)

func testReport() *types.RunReport {
	started := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	return &types.RunReport{
		Source:     "budget.pdf",
		OutputDir:  "sections",
		Pages:      120,
		Workers:    4,
		StartedAt:  started,
		FinishedAt: started.Add(30 * time.Second),
		Results: []types.ExportResult{
			{
				Segment: types.Segment{Label: "00_overview", Category: types.SegmentOverview, StartPage: 0, EndPage: 4, OrderIndex: 0},
				Status:  types.ExportOK,
			},
			{
				Segment: types.Segment{Label: "revenue_01_市税", Category: types.SegmentRevenue, StartPage: 5, EndPage: 39, OrderIndex: 1},
				Status:  types.ExportOK,
			},
			{
				Segment: types.Segment{Label: "expenditure_01_議会費", Category: types.SegmentExpenditure, StartPage: 40, EndPage: 119, OrderIndex: 2},
				Status:  types.ExportFailed,
				Error:   "exporting segment expenditure_01_議会費: rendering pages 41-120: broken xref",
			},
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.CatalogConfig{StateDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndShow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, testReport())
	require.NoError(t, err)
	require.Positive(t, id)

	run, segments, err := s.Show(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "budget.pdf", run.Source)
	assert.Equal(t, 120, run.Pages)
	assert.Equal(t, 3, run.Segments)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, "failed", run.Status)
	assert.Equal(t, time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC), run.StartedAt)

	require.Len(t, segments, 3)
	assert.Equal(t, "00_overview", segments[0].Label)
	assert.Equal(t, "ok", segments[0].Status)
	assert.Equal(t, "expenditure_01_議会費", segments[2].Label)
	assert.Equal(t, "failed", segments[2].Status)
	assert.Contains(t, segments[2].Error, "broken xref")
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Record(ctx, testReport())
	require.NoError(t, err)
	second, err := s.Record(ctx, testReport())
	require.NoError(t, err)

	runs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
}

func TestShowUnknownRun(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.Show(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListEmptyCatalog(t *testing.T) {
	s := newTestStore(t)

	runs, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSchemaIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewStore(types.CatalogConfig{StateDir: dir})
	require.NoError(t, err)
	_, err = s1.Record(context.Background(), testReport())
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening must keep existing rows.
	s2, err := NewStore(types.CatalogConfig{StateDir: dir})
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
