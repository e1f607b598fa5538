package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsValid(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())

	for _, typ := range AllTypes {
		assert.True(t, s.Enabled(typ), "%s enabled by default", typ)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"unknown type", func(s *Settings) { s.Criteria[0].Type = "colour-similarity" }},
		{"negative weight", func(s *Settings) { s.Criteria[1].Weight = -0.5 }},
		{"infinite weight", func(s *Settings) { s.Criteria[0].Weight = math.Inf(1) }},
		{"nan weight", func(s *Settings) { s.Criteria[0].Weight = math.NaN() }},
		{"threshold above one", func(s *Settings) { s.Criteria[2].Threshold = 1.5 }},
		{"nan threshold", func(s *Settings) { s.Criteria[2].Threshold = math.NaN() }},
		{"negative max results", func(s *Settings) { s.MaxResults = -1 }},
		{"min score above one", func(s *Settings) { s.MinSimilarityScore = 2 }},
		{"nan min score", func(s *Settings) { s.MinSimilarityScore = math.NaN() }},
		{"unknown sort key", func(s *Settings) { s.SortBy = "popularity" }},
		{"unknown sort order", func(s *Settings) { s.SortOrder = "sideways" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, errInvalidSettings)
		})
	}
}

func TestSettingsCriterion(t *testing.T) {
	s := Settings{Criteria: []Criterion{
		{Type: TypeTag, Enabled: false, Weight: 1},
		{Type: TypeTag, Enabled: true, Weight: 2},
	}}

	c, ok := s.Criterion(TypeTag)
	require.True(t, ok)
	assert.Equal(t, 1.0, c.Weight, "first criterion wins")
	assert.False(t, s.Enabled(TypeTag))

	_, ok = s.Criterion(TypeDomain)
	assert.False(t, ok)
	assert.False(t, s.Enabled(TypeDomain))
}
