package related

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
	"github.com/aryannaik/bookmark-relevance/internal/similarity"
)

func tags(ids ...string) []bookmark.Tag {
	out := make([]bookmark.Tag, len(ids))
	for i, id := range ids {
		out[i] = bookmark.Tag{ID: id, Name: id}
	}
	return out
}

func frameworks() []bookmark.Bookmark {
	return []bookmark.Bookmark{
		{ID: "1", Title: "React Hooks Guide", Tags: tags("react", "frontend")},
		{ID: "2", Title: "Vue Composition API", Tags: tags("vue", "frontend")},
		{ID: "3", Title: "React Router Tutorial", Tags: tags("react", "routing")},
	}
}

func tagOnly() similarity.Settings {
	return similarity.Settings{
		Criteria: []similarity.Criterion{
			{Type: similarity.TypeTag, Enabled: true, Weight: 1, Threshold: 0.1},
		},
		MaxResults:         10,
		MinSimilarityScore: 0.1,
		SortBy:             similarity.SortBySimilarity,
		SortOrder:          similarity.SortDesc,
	}
}

func titles(items []Bookmark) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Bookmark.Title
	}
	return out
}

func TestFindRelatedSharedTag(t *testing.T) {
	all := frameworks()
	r := NewRanker(tagOnly(), zerolog.Nop())

	got, err := r.FindRelated(context.Background(), all[0], all, Filter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []string{"React Router Tutorial", "Vue Composition API"}, titles(got))
	for _, rb := range got {
		assert.Equal(t, similarity.TypeTag, rb.RelationshipType)
		assert.InDelta(t, 1.0/3.0, rb.SimilarityScore, 1e-12)
		assert.Equal(t, "Shares 33% of tags (33% overall similarity)", rb.RelationshipReason)
	}
}

func TestFindRelatedExcludesTarget(t *testing.T) {
	all := frameworks()
	s := tagOnly()
	s.MinSimilarityScore = 0
	r := NewRanker(s, zerolog.Nop())

	got, err := r.FindRelated(context.Background(), all[0], all, Filter{})
	require.NoError(t, err)
	for _, rb := range got {
		assert.NotEqual(t, "1", rb.Bookmark.ID)
	}
}

func TestFindRelatedMinScore(t *testing.T) {
	all := frameworks()
	all[1].Tags = tags("vue")
	r := NewRanker(tagOnly(), zerolog.Nop())

	got, err := r.FindRelated(context.Background(), all[0], all, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"React Router Tutorial"}, titles(got))
}

func TestFindRelatedFilters(t *testing.T) {
	work := &bookmark.Folder{ID: "work", Name: "Work"}
	home := &bookmark.Folder{ID: "home", Name: "Home"}

	target := bookmark.Bookmark{ID: "t", Title: "Target", Tags: tags("go")}
	candidates := []bookmark.Bookmark{
		target,
		{ID: "a", Title: "A", Tags: tags("go"), Favorite: true, Folder: work},
		{ID: "b", Title: "B", Tags: tags("go", "old"), Folder: home},
		{ID: "c", Title: "C", Tags: tags("go", "new")},
		{ID: "d", Title: "D", Tags: tags("go", "new"), Favorite: true, Folder: home},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"A", "B", "C", "D"}},
		{"favorites only", Filter{FavoritesOnly: true}, []string{"A", "D"}},
		{"exclude folder", Filter{ExcludeFolderIDs: []string{"home"}}, []string{"A", "C"}},
		{"include folder", Filter{IncludeFolderIDs: []string{"home"}}, []string{"B", "D"}},
		{"exclude tag", Filter{ExcludeTagIDs: []string{"new"}}, []string{"A", "B"}},
		{"include tag", Filter{IncludeTagIDs: []string{"new", "old"}}, []string{"B", "C", "D"}},
		{"combined", Filter{FavoritesOnly: true, IncludeTagIDs: []string{"new"}}, []string{"D"}},
	}

	s := tagOnly()
	s.MinSimilarityScore = 0
	s.SortBy = similarity.SortByTitle
	s.SortOrder = similarity.SortAsc
	r := NewRanker(s, zerolog.Nop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.FindRelated(context.Background(), target, candidates, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestFindRelatedManualAndFolderTypes(t *testing.T) {
	docs := &bookmark.Folder{ID: "docs", Name: "Docs"}
	target := bookmark.Bookmark{ID: "t", Title: "Target", Tags: tags("go", "web"), Folder: docs}
	candidates := []bookmark.Bookmark{
		{ID: "linked", Title: "Linked", Tags: tags("go")},
		{ID: "sibling", Title: "Sibling", Tags: tags("go"), Folder: docs},
		{ID: "twin", Title: "Twin", Tags: tags("go", "web"), Folder: docs},
	}

	s := similarity.DefaultSettings()
	s.Criteria = []similarity.Criterion{
		{Type: similarity.TypeTag, Enabled: true, Weight: 1, Threshold: 0.1},
		{Type: similarity.TypeFolder, Enabled: true, Weight: 0.1, Threshold: 1},
		{Type: similarity.TypeManual, Enabled: true, Weight: 1},
	}
	r := NewRanker(s, zerolog.Nop())

	got, err := r.FindRelated(context.Background(), target, candidates, Filter{ManualLinks: []string{"linked"}})
	require.NoError(t, err)
	require.Len(t, got, 3)

	byID := map[string]Bookmark{}
	for _, rb := range got {
		byID[rb.Bookmark.ID] = rb
	}
	assert.Equal(t, similarity.TypeManual, byID["linked"].RelationshipType)
	assert.Equal(t, similarity.TypeFolder, byID["sibling"].RelationshipType)
	assert.Equal(t, similarity.TypeTag, byID["twin"].RelationshipType, "perfect tag match beats folder")
	assert.Equal(t, "In the same folder (50% overall similarity)", byID["sibling"].RelationshipReason)

	t.Run("allowed types", func(t *testing.T) {
		got, err := r.FindRelated(context.Background(), target, candidates, Filter{
			ManualLinks:       []string{"linked"},
			RelationshipTypes: []similarity.RelationshipType{similarity.TypeManual, similarity.TypeTag},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Twin", "Linked"}, titles(got))
	})

	t.Run("manual criterion disabled", func(t *testing.T) {
		s := s
		s.Criteria = s.Criteria[:2]
		got, err := NewRanker(s, zerolog.Nop()).FindRelated(context.Background(), target, candidates, Filter{ManualLinks: []string{"linked"}})
		require.NoError(t, err)
		for _, rb := range got {
			assert.NotEqual(t, similarity.TypeManual, rb.RelationshipType)
		}
	})
}

func TestFindRelatedSortKeys(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	target := bookmark.Bookmark{ID: "t", Tags: tags("x"), CreatedAt: day}
	candidates := []bookmark.Bookmark{
		{ID: "1", Title: "banana", Tags: tags("x"), VisitCount: 5, CreatedAt: day.AddDate(0, 0, -3)},
		{ID: "2", Title: "Apple", Tags: tags("x"), VisitCount: 9, CreatedAt: day.AddDate(0, 0, -1)},
		{ID: "3", Title: "cherry", Tags: tags("x"), VisitCount: 1, CreatedAt: day.AddDate(0, 0, -2)},
	}

	tests := []struct {
		key   similarity.SortKey
		order similarity.SortOrder
		want  []string
	}{
		{similarity.SortByTitle, similarity.SortAsc, []string{"Apple", "banana", "cherry"}},
		{similarity.SortByTitle, similarity.SortDesc, []string{"cherry", "banana", "Apple"}},
		{similarity.SortByVisits, similarity.SortDesc, []string{"Apple", "banana", "cherry"}},
		{similarity.SortByVisits, similarity.SortAsc, []string{"cherry", "banana", "Apple"}},
		{similarity.SortByRecency, similarity.SortDesc, []string{"Apple", "cherry", "banana"}},
		{similarity.SortByRecency, similarity.SortAsc, []string{"banana", "cherry", "Apple"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.key, tt.order), func(t *testing.T) {
			s := tagOnly()
			s.SortBy, s.SortOrder = tt.key, tt.order
			got, err := NewRanker(s, zerolog.Nop()).FindRelated(context.Background(), target, candidates, Filter{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestFindRelatedMaxResults(t *testing.T) {
	target := bookmark.Bookmark{ID: "t", Tags: tags("x")}
	var candidates []bookmark.Bookmark
	for i := 0; i < 20; i++ {
		candidates = append(candidates, bookmark.Bookmark{ID: fmt.Sprint(i), Title: fmt.Sprint(i), Tags: tags("x")})
	}

	s := tagOnly()
	s.MaxResults = 5
	got, err := NewRanker(s, zerolog.Nop()).FindRelated(context.Background(), target, candidates, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, titles(got), "ties keep collection order")

	s.MaxResults = 0
	got, err = NewRanker(s, zerolog.Nop()).FindRelated(context.Background(), target, candidates, Filter{})
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func largeCollection(n int) []bookmark.Bookmark {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pool := []string{"go", "rust", "web", "db", "ml", "ops"}
	out := make([]bookmark.Bookmark, n)
	for i := range out {
		out[i] = bookmark.Bookmark{
			ID:         fmt.Sprintf("b%d", i),
			Title:      fmt.Sprintf("Bookmark %d about %s", i, pool[i%len(pool)]),
			URL:        fmt.Sprintf("https://site%d.example.com/%d", i%7, i),
			CreatedAt:  base.AddDate(0, 0, i%120),
			VisitCount: i % 13,
			Tags:       tags(pool[i%len(pool)], pool[(i/2)%len(pool)]),
		}
	}
	return out
}

func TestFindRelatedParallelMatchesSequential(t *testing.T) {
	all := largeCollection(1200)
	s := similarity.DefaultSettings()
	s.MaxResults = 0

	seq := NewRanker(s, zerolog.Nop())
	seq.workers = 1
	par := NewRanker(s, zerolog.Nop())
	par.workers = 8

	want, err := seq.FindRelated(context.Background(), all[0], all, Filter{})
	require.NoError(t, err)
	got, err := par.FindRelated(context.Background(), all[0], all, Filter{})
	require.NoError(t, err)

	require.NotEmpty(t, want)
	assert.Equal(t, want, got)
}

func TestFindRelatedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, n := range []int{10, 1200} {
		all := largeCollection(n)
		r := NewRanker(similarity.DefaultSettings(), zerolog.Nop())
		r.workers = 4

		_, err := r.FindRelated(ctx, all[0], all, Filter{})
		require.Error(t, err, "n=%d", n)
		assert.ErrorIs(t, err, context.Canceled)
	}
}
