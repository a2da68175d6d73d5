package crawler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/JakeFAU/chess-schema-crawler/internal/pgn"
	"github.com/JakeFAU/chess-schema-crawler/internal/progress"
	"github.com/JakeFAU/chess-schema-crawler/internal/schema"
	"go.uber.org/zap"
)

// Engine walks the public API sequentially: leaderboards, the sample
// archive, then each targeted user's recent monthly archives. Every game it
// sees is flattened into the aggregator's unions.
type Engine struct {
	cfg     Config
	runID   string
	fetch   Fetcher
	agg     Aggregator
	pauser  Pauser
	clock   Clock
	emitter progress.Emitter
	logger  *zap.Logger
}

// NewEngine creates an Engine. The emitter may be nil, in which case no
// progress events are produced.
func NewEngine(
	cfg Config,
	runID string,
	fetch Fetcher,
	agg Aggregator,
	pauser Pauser,
	clock Clock,
	emitter progress.Emitter,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:     cfg,
		runID:   runID,
		fetch:   fetch,
		agg:     agg,
		pauser:  pauser,
		clock:   clock,
		emitter: emitter,
		logger:  logger,
	}
}

// Run executes the crawl. A sample-archive failure or context cancellation
// aborts the run; every other fetch failure degrades the run and is counted
// in Stats.
func (e *Engine) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	runStart := e.clock.Now()
	e.emit(ctx, progress.Event{Stage: progress.StageRunStart})

	usernames := e.discoverUsernames(ctx)
	usernames[e.cfg.SeedUsername] = struct{}{}
	targets := orderUsernames(usernames, e.cfg.MaxUsers)
	stats.UsernamesTargeted = len(targets)

	if e.cfg.IncludeSample {
		if err := e.processSample(ctx, &stats); err != nil {
			e.emit(ctx, progress.Event{
				Stage: progress.StageRunError,
				URL:   e.cfg.Endpoints.SampleArchive,
				Note:  err.Error(),
			})
			return stats, err
		}
	}

	for _, username := range targets {
		if err := ctx.Err(); err != nil {
			e.emit(ctx, progress.Event{Stage: progress.StageRunError, Note: err.Error()})
			return stats, err
		}
		e.processUser(ctx, username, &stats)
	}

	keys, tags := e.agg.Counts()
	e.emit(ctx, progress.Event{
		Stage: progress.StageRunDone,
		Count: stats.GamesProcessed,
		Keys:  keys,
		Tags:  tags,
		Dur:   e.clock.Now().Sub(runStart),
	})
	e.logger.Info("Crawl complete",
		zap.Int("usernames_targeted", stats.UsernamesTargeted),
		zap.Int("users_processed", stats.UsersProcessed),
		zap.Int("users_skipped", stats.UsersSkipped),
		zap.Int("archives_processed", stats.ArchivesProcessed),
		zap.Int("archives_skipped", stats.ArchivesSkipped),
		zap.Int("games_processed", stats.GamesProcessed),
		zap.Int("json_keys", keys),
		zap.Int("pgn_tags", tags),
	)
	return stats, nil
}

// discoverUsernames gathers seed usernames from the leaderboards. Discovery
// is best-effort: any failure degrades to an empty set and the run proceeds
// with the seed user alone.
func (e *Engine) discoverUsernames(ctx context.Context) map[string]struct{} {
	url := e.cfg.Endpoints.Leaderboards
	start := e.clock.Now()
	doc, err := e.fetch.FetchJSON(ctx, url)
	if err != nil {
		e.logger.Warn("Leaderboard discovery failed; continuing with seed only",
			zap.String("url", url),
			zap.Error(err),
		)
		return make(map[string]struct{})
	}
	found := collectUsernames(doc)
	e.emit(ctx, progress.Event{
		Stage: progress.StageDiscoverDone,
		URL:   url,
		Count: len(found),
		Dur:   e.clock.Now().Sub(start),
	})
	e.logger.Info("Leaderboard discovery complete", zap.Int("usernames", len(found)))
	return found
}

// processSample ingests the fixed sample archive. A failure here aborts the
// whole run; every other fetch stage degrades instead.
func (e *Engine) processSample(ctx context.Context, stats *Stats) error {
	url := e.cfg.Endpoints.SampleArchive
	start := e.clock.Now()
	doc, err := e.fetch.FetchJSON(ctx, url)
	if err != nil {
		return fmt.Errorf("sample archive %s: %w", url, err)
	}
	games := gameObjects(doc)
	for _, game := range games {
		e.ingestGame(game)
	}
	stats.SampleGames = len(games)
	stats.GamesProcessed += len(games)
	e.emit(ctx, progress.Event{
		Stage: progress.StageSampleDone,
		URL:   url,
		Count: len(games),
		Dur:   e.clock.Now().Sub(start),
	})
	e.pauser.Pause(ctx, e.cfg.RequestSleep)
	return nil
}

// processUser walks one user's recent monthly archives. If the archive
// index cannot be fetched the user is skipped and the walk moves on.
func (e *Engine) processUser(ctx context.Context, username string, stats *Stats) {
	indexURL := e.cfg.ArchivesURL(username)
	start := e.clock.Now()
	doc, err := e.fetch.FetchJSON(ctx, indexURL)
	if err != nil {
		stats.UsersSkipped++
		e.logger.Warn("Cannot fetch archives; skipping user",
			zap.String("username", username),
			zap.String("url", indexURL),
			zap.Error(err),
		)
		e.emit(ctx, progress.Event{
			Stage:    progress.StageUserSkip,
			Username: username,
			URL:      indexURL,
			Note:     err.Error(),
		})
		return
	}

	games := 0
	for _, archiveURL := range recentArchives(doc, e.cfg.MaxMonthsPerUser) {
		games += e.processArchive(ctx, archiveURL, stats)
		e.pauser.Pause(ctx, e.cfg.RequestSleep)
	}

	stats.UsersProcessed++
	stats.GamesProcessed += games
	e.emit(ctx, progress.Event{
		Stage:    progress.StageUserDone,
		Username: username,
		Count:    games,
		Dur:      e.clock.Now().Sub(start),
	})
}

// processArchive ingests one monthly archive and returns how many games it
// contributed. A failed archive counts as zero games, never as a run error.
func (e *Engine) processArchive(ctx context.Context, url string, stats *Stats) int {
	doc, err := e.fetch.FetchJSON(ctx, url)
	if err != nil {
		stats.ArchivesSkipped++
		e.logger.Warn("Cannot fetch archive; continuing",
			zap.String("url", url),
			zap.Error(err),
		)
		e.emit(ctx, progress.Event{
			Stage: progress.StageArchiveSkip,
			URL:   url,
			Note:  err.Error(),
		})
		return 0
	}
	games := gameObjects(doc)
	for _, game := range games {
		e.ingestGame(game)
	}
	stats.ArchivesProcessed++
	e.emit(ctx, progress.Event{
		Stage: progress.StageArchiveDone,
		URL:   url,
		Count: len(games),
	})
	return len(games)
}

// ingestGame feeds one game record into both unions. A missing or
// non-string pgn field contributes no tags.
func (e *Engine) ingestGame(game map[string]any) {
	e.agg.AddKeyPaths(schema.Flatten(game))
	text, _ := game["pgn"].(string)
	e.agg.AddTagNames(pgn.ExtractTags(text))
}

func (e *Engine) emit(ctx context.Context, evt progress.Event) {
	if e.emitter == nil {
		return
	}
	evt.RunID = e.runID
	evt.TS = e.clock.Now()
	e.emitter.Emit(ctx, evt)
}

// recentArchives extracts archive URLs from a decoded archive-index
// document: string entries prefixed "http", sorted lexicographically, last
// limit entries. Monthly archive URLs end in /YYYY/MM, so the sorted tail
// is the most recent months.
func recentArchives(doc any, limit int) []string {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := obj["archives"].([]any)
	if !ok {
		return nil
	}
	urls := make([]string, 0, len(raw))
	for _, entry := range raw {
		if s, ok := entry.(string); ok && strings.HasPrefix(s, "http") {
			urls = append(urls, s)
		}
	}
	sort.Strings(urls)
	if limit > 0 && len(urls) > limit {
		urls = urls[len(urls)-limit:]
	}
	return urls
}

// gameObjects extracts the object elements of a month document's games
// array, dropping anything else.
func gameObjects(doc any) []map[string]any {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := obj["games"].([]any)
	if !ok {
		return nil
	}
	games := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if game, ok := entry.(map[string]any); ok {
			games = append(games, game)
		}
	}
	return games
}
