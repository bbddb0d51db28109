// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/budget-engine/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doc(pages ...string) *types.Document {
	d := &types.Document{Path: "test.pdf", Pages: make([]types.Page, len(pages))}
	for i, text := range pages {
		d.Pages[i] = types.Page{Index: i, Text: text}
	}
	return d
}

func TestKanRuleMatch(t *testing.T) {
	rule := NewKanRule(types.DetectConfig{})

	tests := []struct {
		name string
		text string
		want []Candidate
	}{
		{
			name: "ascii number with revenue context",
			text: "歳入\n1款 市税",
			want: []Candidate{{Number: 1, Name: "市税", Line: 1, Category: types.MarkerRevenue}},
		},
		{
			name: "fullwidth two-digit number",
			text: "歳入\n２１款 市債",
			want: []Candidate{{Number: 21, Name: "市債", Line: 1, Category: types.MarkerRevenue}},
		},
		{
			name: "name truncated at fullwidth space",
			text: "歳出\n2款 総務費　予算額 1,000",
			want: []Candidate{{Number: 2, Name: "総務費", Line: 1, Category: types.MarkerExpenditure}},
		},
		{
			name: "both keywords leave category undecided",
			text: "歳入歳出予算総括表\n3款 民生費",
			want: []Candidate{{Number: 3, Name: "民生費", Line: 1, Category: types.MarkerOther}},
		},
		{
			name: "no heading",
			text: "前年度繰越金の内訳",
			want: nil,
		},
		{
			name: "heading as the last line of the page",
			text: "説明資料\nその他\n4款 衛生費",
			want: []Candidate{{Number: 4, Name: "衛生費", Line: 2, Category: types.MarkerOther}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rule.Match(tt.text))
		})
	}
}

func TestDetectOrderedMarkers(t *testing.T) {
	d := doc(
		"総括説明",                // page 0: overview, no heading
		"歳入\n1款 市税",          // page 1
		"歳入\n1款 市税（続き）",   // page 2: continuation header, same section
		"歳入\n2款 地方譲与税",     // page 3
		"歳出\n1款 議会費",        // page 4
	)

	markers, err := Detect(d, NewKanRule(types.DetectConfig{}), 0, discardLogger())
	require.NoError(t, err)

	want := []types.SectionMarker{
		{PageIndex: 1, Category: types.MarkerRevenue, Number: 1, Name: "市税"},
		{PageIndex: 3, Category: types.MarkerRevenue, Number: 2, Name: "地方譲与税"},
		{PageIndex: 4, Category: types.MarkerExpenditure, Number: 1, Name: "議会費"},
	}
	assert.Equal(t, want, markers)

	// Page indexes strictly increase in scan order.
	for i := 1; i < len(markers); i++ {
		assert.Greater(t, markers[i].PageIndex, markers[i-1].PageIndex)
	}
}

func TestDetectNumberResetHeuristic(t *testing.T) {
	// No 歳入/歳出 keywords anywhere: the category must come from the
	// number-reset heuristic alone.
	d := doc(
		"1款 市税",
		"20款 諸収入",
		"1款 議会費", // drop from 20 back to 1 flips to expenditure
		"2款 総務費",
	)

	markers, err := Detect(d, NewKanRule(types.DetectConfig{}), 0, discardLogger())
	require.NoError(t, err)
	require.Len(t, markers, 4)

	assert.Equal(t, types.MarkerRevenue, markers[0].Category)
	assert.Equal(t, types.MarkerRevenue, markers[1].Category)
	assert.Equal(t, types.MarkerExpenditure, markers[2].Category)
	assert.Equal(t, types.MarkerExpenditure, markers[3].Category)
}

func TestDetectCustomResetThreshold(t *testing.T) {
	// A slim budget book whose revenue part tops out at section 10.
	d := doc(
		"1款 市税",
		"10款 諸収入",
		"1款 議会費",
	)

	markers, err := Detect(d, NewKanRule(types.DetectConfig{}), 10, discardLogger())
	require.NoError(t, err)
	require.Len(t, markers, 3)
	assert.Equal(t, types.MarkerExpenditure, markers[2].Category)

	// At the default threshold the drop from 10 does not flip the category,
	// so page 2 re-claims revenue section 1.
	_, err = Detect(d, NewKanRule(types.DetectConfig{}), 0, discardLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrBoundaryOrdering))
}

func TestDetectDuplicateSection(t *testing.T) {
	d := doc(
		"歳入\n3款 地方交付税",
		"歳入\n4款 分担金",
		"歳入\n3款 地方交付税", // claimed again after section 4: not a continuation
	)

	markers, err := Detect(d, NewKanRule(types.DetectConfig{}), 0, discardLogger())
	require.Error(t, err)
	assert.Nil(t, markers)
	assert.True(t, errors.Is(err, types.ErrBoundaryOrdering))

	var ordering *types.BoundaryOrderingError
	require.ErrorAs(t, err, &ordering)
	assert.Equal(t, types.MarkerRevenue, ordering.Category)
	assert.Equal(t, 3, ordering.Number)
	assert.Equal(t, 2, ordering.Page)
}

func TestDetectNonMonotonicNumber(t *testing.T) {
	d := doc(
		"歳入\n5款 株式等譲渡所得割交付金",
		"歳入\n2款 地方譲与税",
	)

	_, err := Detect(d, NewKanRule(types.DetectConfig{}), 0, discardLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrBoundaryOrdering))
}

func TestDetectNoMarkers(t *testing.T) {
	d := doc("総括", "説明資料", "附属資料")

	markers, err := Detect(d, NewKanRule(types.DetectConfig{}), 0, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, markers)
}

func TestDetectDeterministic(t *testing.T) {
	d := doc(
		"総括",
		"歳入\n1款 市税",
		"歳入\n2款 地方譲与税",
		"歳出\n1款 議会費",
	)
	rule := NewKanRule(types.DetectConfig{})

	first, err := Detect(d, rule, 0, discardLogger())
	require.NoError(t, err)
	second, err := Detect(d, rule, 0, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
