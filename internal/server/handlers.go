package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/aryannaik/bookmark-relevance/internal/fuzzy"
	"github.com/aryannaik/bookmark-relevance/internal/index"
	"github.com/aryannaik/bookmark-relevance/internal/related"
	"github.com/aryannaik/bookmark-relevance/internal/search"
	"github.com/aryannaik/bookmark-relevance/internal/similarity"
	"github.com/aryannaik/bookmark-relevance/internal/snapshot"
)

const (
	defaultJumpLimit = 10
	maxBodyBytes     = 1 << 20
)

type Handlers struct {
	store      *snapshot.Store
	searcher   *search.Searcher
	ranker     *related.Ranker
	cache      *index.Cache
	metrics    *Metrics
	refreshFn  func()
	refreshing atomic.Bool
	log        zerolog.Logger
}

func NewHandlers(store *snapshot.Store, searcher *search.Searcher, ranker *related.Ranker, cache *index.Cache, metrics *Metrics, refreshFn func(), log zerolog.Logger) *Handlers {
	return &Handlers{
		store:     store,
		searcher:  searcher,
		ranker:    ranker,
		cache:     cache,
		metrics:   metrics,
		refreshFn: refreshFn,
		log:       log.With().Str("component", "api").Logger(),
	}
}

func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var filters search.Filters
	if r.Method == http.MethodPost {
		if err := decodeBody(w, r, &filters); err != nil {
			h.fail(w, "search", start, http.StatusBadRequest, err)
			return
		}
	} else {
		f, err := parseSearchFilters(r.URL.Query())
		if err != nil {
			h.fail(w, "search", start, http.StatusBadRequest, err)
			return
		}
		filters = f
	}

	res := h.searcher.Search(h.store.All(), filters)
	h.metrics.searchResults.Observe(float64(res.Total))
	h.respond(w, "search", start, http.StatusOK, res)
}

func (h *Handlers) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query().Get("q")

	h.respond(w, "suggest", start, http.StatusOK, map[string]any{
		"query":       query,
		"suggestions": search.Suggest(h.store.All(), query),
	})
}

func (h *Handlers) HandleJump(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		h.fail(w, "jump", start, http.StatusBadRequest, errors.New("missing query parameter 'q'"))
		return
	}

	limit := defaultJumpLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	results := fuzzy.Jump(h.store.All(), query, limit)
	h.respond(w, "jump", start, http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
		"total":   len(results),
	})
}

func (h *Handlers) HandleRelated(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id := r.URL.Query().Get("id")
	if id == "" {
		h.fail(w, "related", start, http.StatusBadRequest, errors.New("missing query parameter 'id'"))
		return
	}

	var filter related.Filter
	if r.Method == http.MethodPost {
		if err := decodeBody(w, r, &filter); err != nil {
			h.fail(w, "related", start, http.StatusBadRequest, err)
			return
		}
	} else {
		filter = parseRelatedFilter(r.URL.Query())
	}
	for _, t := range filter.RelationshipTypes {
		if !t.Valid() {
			h.fail(w, "related", start, http.StatusBadRequest, fmt.Errorf("unknown relationship type %q", t))
			return
		}
	}

	target, err := h.store.Get(id)
	if errors.Is(err, snapshot.ErrNotFound) {
		h.fail(w, "related", start, http.StatusNotFound, err)
		return
	}
	if err != nil {
		h.fail(w, "related", start, http.StatusInternalServerError, err)
		return
	}

	results, err := h.ranker.FindRelated(r.Context(), target, h.store.All(), filter)
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("related failed")
		h.fail(w, "related", start, http.StatusInternalServerError, errors.New("related lookup failed"))
		return
	}

	h.metrics.relatedResults.Observe(float64(len(results)))
	h.respond(w, "related", start, http.StatusOK, map[string]any{
		"sourceId": id,
		"results":  results,
		"total":    len(results),
	})
}

type statusResponse struct {
	Bookmarks  int              `json:"bookmarks"`
	FetchedAt  string           `json:"fetchedAt"`
	Index      index.CacheStats `json:"index"`
	Refreshing bool             `json:"refreshing"`
}

func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	fetchedAt := ""
	if t := h.store.FetchedAt(); !t.IsZero() {
		fetchedAt = t.UTC().Format(time.RFC3339)
	}

	count := h.store.Count()
	h.metrics.SetSnapshotSize(count)

	h.respond(w, "status", start, http.StatusOK, statusResponse{
		Bookmarks:  count,
		FetchedAt:  fetchedAt,
		Index:      h.cache.Stats(),
		Refreshing: h.refreshing.Load(),
	})
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !h.refreshing.CompareAndSwap(false, true) {
		h.respond(w, "refresh", start, http.StatusConflict, map[string]string{"status": "refresh already running"})
		return
	}

	go func() {
		defer h.refreshing.Store(false)
		h.refreshFn()
	}()

	h.respond(w, "refresh", start, http.StatusAccepted, map[string]string{"status": "refresh started"})
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) respond(w http.ResponseWriter, endpoint string, start time.Time, status int, v any) {
	writeJSON(w, status, v)
	h.metrics.observe(endpoint, status, start)
}

func (h *Handlers) fail(w http.ResponseWriter, endpoint string, start time.Time, status int, err error) {
	h.respond(w, endpoint, start, status, map[string]string{"error": err.Error()})
}

func parseSearchFilters(q url.Values) (search.Filters, error) {
	f := search.Filters{
		Query:    q.Get("q"),
		FolderID: q.Get("folder"),
		TagIDs:   listParam(q, "tag"),
	}

	var err error
	if f.Favorite, err = boolParam(q, "favorite"); err != nil {
		return search.Filters{}, err
	}
	if f.Archived, err = boolParam(q, "archived"); err != nil {
		return search.Filters{}, err
	}
	if f.HasDescription, err = boolParam(q, "hasDescription"); err != nil {
		return search.Filters{}, err
	}

	from, err := timeParam(q, "from", false)
	if err != nil {
		return search.Filters{}, err
	}
	to, err := timeParam(q, "to", true)
	if err != nil {
		return search.Filters{}, err
	}
	if !from.IsZero() || !to.IsZero() {
		f.DateRange = &search.DateRange{From: from, To: to}
	}

	return f, nil
}

func parseRelatedFilter(q url.Values) related.Filter {
	f := related.Filter{
		ExcludeFolderIDs: listParam(q, "excludeFolder"),
		IncludeFolderIDs: listParam(q, "includeFolder"),
		ExcludeTagIDs:    listParam(q, "excludeTag"),
		IncludeTagIDs:    listParam(q, "includeTag"),
		ManualLinks:      listParam(q, "link"),
	}
	f.FavoritesOnly, _ = strconv.ParseBool(q.Get("favoritesOnly"))
	for _, t := range listParam(q, "type") {
		f.RelationshipTypes = append(f.RelationshipTypes, similarity.RelationshipType(t))
	}
	return f
}

// listParam collects repeated and comma separated values of key.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func boolParam(q url.Values, key string) (*bool, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, s)
	}
	return &v, nil
}

// timeParam accepts RFC 3339 timestamps or plain dates. A plain date used
// as an upper bound covers the whole day.
func timeParam(q url.Values, key string, endOfDay bool) (time.Time, error) {
	s := q.Get(key)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %q", key, s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	// Chunked requests report an unknown length; an empty one decodes to EOF.
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
