package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
	"github.com/aryannaik/bookmark-relevance/internal/config"
	"github.com/aryannaik/bookmark-relevance/internal/fuzzy"
	"github.com/aryannaik/bookmark-relevance/internal/index"
	"github.com/aryannaik/bookmark-relevance/internal/logging"
	"github.com/aryannaik/bookmark-relevance/internal/related"
	"github.com/aryannaik/bookmark-relevance/internal/search"
	"github.com/aryannaik/bookmark-relevance/internal/server"
	"github.com/aryannaik/bookmark-relevance/internal/snapshot"
)

func main() {
	refreshFlag := flag.Bool("refresh", false, "Discard the cached snapshot and fetch everything again")
	fetchOnlyFlag := flag.Bool("fetch-only", false, "Fetch the snapshot and exit (don't start server)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("load config")
	}

	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("configure logging")
	}

	store := snapshot.NewStore(cfg.DataDir)
	client := bookmark.NewClient(cfg.BookmarksAPIURL, log)
	metrics := server.NewMetrics()

	// Serve the last snapshot while the provider is fetched
	if err := store.LoadFromDisk(); err != nil {
		log.Warn().Err(err).Msg("could not load cached snapshot")
	}

	if *refreshFlag {
		store.Clear()
		log.Info().Msg("cleared cached snapshot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runRefresh(ctx, client, store, metrics, log)

	if *fetchOnlyFlag {
		log.Info().Msg("fetch-only mode: exiting")
		return
	}

	cache := index.NewCache(log)
	searcher := search.NewSearcher(cache, fuzzy.NewMatcher(fuzzy.DefaultOptions()), log)
	ranker := related.NewRanker(cfg.Settings, log)

	refreshFn := func() {
		log.Info().Msg("refresh triggered")
		runRefresh(ctx, client, store, metrics, log)
	}

	handlers := server.NewHandlers(store, searcher, ranker, cache, metrics, refreshFn, log)
	srv := server.New(cfg.Port, handlers, cfg.CORSOrigins, log)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	ticker := time.NewTicker(cfg.RefreshInterval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Info().Msg("periodic refresh starting")
				runRefresh(ctx, client, store, metrics, log)
			}
		}
	}()

	<-ctx.Done()
	ticker.Stop()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("goodbye")
}

// runRefresh replaces the snapshot with the provider's current bookmarks.
// On failure the previous snapshot keeps serving.
func runRefresh(ctx context.Context, client *bookmark.Client, store *snapshot.Store, metrics *server.Metrics, log zerolog.Logger) {
	log.Info().Msg("fetching bookmarks from provider")

	bookmarks, err := client.FetchAll(ctx)
	if err != nil {
		log.Error().Err(err).Int("serving", store.Count()).Msg("fetch bookmarks")
		return
	}

	store.Replace(bookmarks)
	metrics.SetSnapshotSize(len(bookmarks))
	log.Info().Int("bookmarks", len(bookmarks)).Msg("snapshot updated")

	if err := store.SaveToDisk(); err != nil {
		log.Error().Err(err).Msg("save snapshot")
	}
}
