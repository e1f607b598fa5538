package related

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
	"github.com/aryannaik/bookmark-relevance/internal/similarity"
)

// parallelThreshold is the candidate count above which analysis fans out
// across workers.
const parallelThreshold = 256

// Ranker scores candidates against a target with fixed settings.
type Ranker struct {
	settings similarity.Settings
	workers  int
	log      zerolog.Logger
}

func NewRanker(settings similarity.Settings, log zerolog.Logger) *Ranker {
	return &Ranker{
		settings: settings,
		workers:  runtime.GOMAXPROCS(0),
		log:      log.With().Str("component", "related").Logger(),
	}
}

// Settings returns the settings the ranker was built with.
func (r *Ranker) Settings() similarity.Settings {
	return r.settings
}

// FindRelated returns candidates related to target, best first by the
// configured sort. The target itself never appears in the result. The only
// error is cancellation of ctx.
func (r *Ranker) FindRelated(ctx context.Context, target bookmark.Bookmark, candidates []bookmark.Bookmark, filter Filter) ([]Bookmark, error) {
	cf := compile(filter)

	pool := make([]bookmark.Bookmark, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == target.ID {
			continue
		}
		if cf.keep(c) {
			pool = append(pool, c)
		}
	}

	analyses, err := r.analyzeAll(ctx, target, pool)
	if err != nil {
		return nil, err
	}

	out := make([]Bookmark, 0, len(pool))
	for i, c := range pool {
		a := analyses[i]
		if a.Overall < r.settings.MinSimilarityScore {
			continue
		}
		t := r.relationshipType(target, c, a, cf)
		if !cf.allows(t) {
			continue
		}
		out = append(out, Bookmark{
			Bookmark:           c,
			SimilarityScore:    a.Overall,
			RelationshipType:   t,
			RelationshipReason: similarity.Reason(t, a),
			Analysis:           a,
		})
	}

	sortRelated(out, r.settings.SortBy, r.settings.SortOrder)

	if limit := r.settings.MaxResults; limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	r.log.Debug().
		Str("target", target.ID).
		Int("candidates", len(candidates)).
		Int("scored", len(pool)).
		Int("returned", len(out)).
		Msg("related bookmarks ranked")

	return out, nil
}

func (r *Ranker) analyzeAll(ctx context.Context, target bookmark.Bookmark, pool []bookmark.Bookmark) ([]similarity.Analysis, error) {
	analyses := make([]similarity.Analysis, len(pool))

	if len(pool) <= parallelThreshold || r.workers < 2 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analyze candidates: %w", err)
		}
		for i, c := range pool {
			analyses[i] = similarity.Analyze(target, c, r.settings)
		}
		return analyses, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	chunk := (len(pool) + r.workers - 1) / r.workers
	for start := 0; start < len(pool); start += chunk {
		start := start
		end := min(start+chunk, len(pool))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				analyses[i] = similarity.Analyze(target, pool[i], r.settings)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze candidates: %w", err)
	}
	return analyses, nil
}

// relationshipType picks the label for a scored candidate. A manual link
// wins outright. A shared folder wins when the strongest computed dimension
// stays below the folder criterion's threshold. Otherwise the primary
// computed dimension is used.
func (r *Ranker) relationshipType(target, candidate bookmark.Bookmark, a similarity.Analysis, cf compiledFilter) similarity.RelationshipType {
	if cf.manual[candidate.ID] && r.settings.Enabled(similarity.TypeManual) {
		return similarity.TypeManual
	}

	primary := similarity.Primary(a)
	if folder := target.FolderID(); folder != "" && folder == candidate.FolderID() {
		if c, ok := r.settings.Criterion(similarity.TypeFolder); ok && c.Enabled {
			if best, _ := a.Score(primary); best < c.Threshold {
				return similarity.TypeFolder
			}
		}
	}
	return primary
}

// sortRelated orders items by key in the given direction. Equal keys fall
// back to the stronger unweighted signal, then to collection order.
func sortRelated(items []Bookmark, key similarity.SortKey, order similarity.SortOrder) {
	var compare func(a, b Bookmark) int
	switch key {
	case similarity.SortByRecency:
		compare = func(a, b Bookmark) int {
			return a.Bookmark.ReferenceTime().Compare(b.Bookmark.ReferenceTime())
		}
	case similarity.SortByVisits:
		compare = func(a, b Bookmark) int { return cmp.Compare(a.Bookmark.VisitCount, b.Bookmark.VisitCount) }
	case similarity.SortByTitle:
		compare = func(a, b Bookmark) int {
			return cmp.Compare(strings.ToLower(a.Bookmark.Title), strings.ToLower(b.Bookmark.Title))
		}
	default:
		compare = func(a, b Bookmark) int { return cmp.Compare(a.SimilarityScore, b.SimilarityScore) }
	}

	sort.SliceStable(items, func(i, j int) bool {
		c := compare(items[i], items[j])
		if order != similarity.SortAsc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return strength(items[i].Analysis) > strength(items[j].Analysis)
	})
}

func strength(a similarity.Analysis) float64 {
	var sum float64
	for _, t := range similarity.Dimensions {
		s, _ := a.Score(t)
		sum += s
	}
	return sum
}
