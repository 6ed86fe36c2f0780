package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	ranked := Rank("radus", []string{"Center", "Radius", "Rounded"})
	require.Len(t, ranked, 3)
	assert.Equal(t, "Radius", ranked.Best().Name)
	assert.False(t, ranked.IsAmbiguous())

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}

	assert.Nil(t, Rank("x", nil).Best())
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name  string
		input string
		known []string
		want  string
	}{
		{name: "typo", input: "equl", known: []string{"equal"}, want: "equal"},
		{name: "case and separators", input: "stroke_width", known: []string{"StrokeWidth", "Stroke"}, want: "StrokeWidth"},
		{name: "too far", input: "clone", known: []string{"equal"}, want: ""},
		{name: "tie", input: "abcd", known: []string{"abce", "abcf"}, want: ""},
		{name: "nothing known", input: "equal", known: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.input, tt.known))
		})
	}
}

func TestHint(t *testing.T) {
	assert.Equal(t, ` (did you mean "derive"?)`, Hint("derve", []string{"derive", "error"}))
	assert.Empty(t, Hint("zzz", []string{"derive", "error"}))
}
