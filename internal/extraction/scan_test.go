package extraction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONArray(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		completion string
		want       string
		wantKind   Kind
	}{
		{
			name:       "bare array",
			completion: `[{"title":"a"}]`,
			want:       `[{"title":"a"}]`,
		},
		{
			name:       "surrounding prose",
			completion: "Here are your tasks:\n[{\"title\":\"a\"}]\nLet me know!",
			want:       `[{"title":"a"}]`,
		},
		{
			name:       "nested arrays",
			completion: `x [[1,[2]],[3]] y [4]`,
			want:       `[[1,[2]],[3]]`,
		},
		{
			name:       "empty array",
			completion: "Nothing to do: []",
			want:       `[]`,
		},
		{
			name:       "second array ignored",
			completion: `[1] and [2]`,
			want:       `[1]`,
		},
		{
			name:       "unmatched bracket after first array",
			completion: "noise [ {\"a\":1} ] trailing [unused",
			want:       `[ {"a":1} ]`,
		},
		{
			name:       "unclosed outer array",
			completion: "prefix [ [1,2]",
			wantKind:   KindUnbalancedBrackets,
		},
		{
			name:       "empty slot",
			completion: "[1, , 2]",
			wantKind:   KindInvalidJSON,
		},
		{
			name:       "no array",
			completion: "I could not find any tasks.",
			wantKind:   KindNoArrayFound,
		},
		{
			name:       "unbalanced",
			completion: `[{"title":"a"}`,
			wantKind:   KindUnbalancedBrackets,
		},
		{
			name:       "balanced but invalid",
			completion: `[{title: a}]`,
			wantKind:   KindInvalidJSON,
		},
		{
			name:       "bracket inside string literal",
			completion: `[{"title":"fix ] bug"}]`,
			wantKind:   KindInvalidJSON,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ExtractJSONArray(tc.completion)
			if tc.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tc.wantKind, KindOf(err))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractJSONArrayInvalidJSONDetails(t *testing.T) {
	t.Parallel()

	_, err := ExtractJSONArray(`prefix [1,,2] suffix`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidJSON))

	var extractionErr *Error
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, `[1,,2]`, extractionErr.Fragment)
	assert.NotEmpty(t, extractionErr.Diagnostic)
	assert.Contains(t, err.Error(), "extracted: [1,,2]")
}

func TestExtractJSONArrayNoArrayKeepsCompletion(t *testing.T) {
	t.Parallel()

	_, err := ExtractJSONArray("sorry")
	var extractionErr *Error
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "sorry", extractionErr.Fragment)
	assert.True(t, errors.Is(err, ErrNoArrayFound))
}
