package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJumpMatchesAbbreviations(t *testing.T) {
	results := Jump(frameworkBookmarks(), "rhg", 0)
	require.Len(t, results, 1)
	assert.Equal(t, "hooks", results[0].Bookmark.ID)
	assert.Len(t, results[0].MatchedIndexes, 3)
}

func TestJumpLimit(t *testing.T) {
	results := Jump(frameworkBookmarks(), "r", 1)
	assert.Len(t, results, 1)
}

func TestJumpBlankQuery(t *testing.T) {
	assert.Nil(t, Jump(frameworkBookmarks(), "  ", 5))
}
