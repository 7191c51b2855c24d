// internal/service/ingest/refresher.go

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"trendxl/internal/domain/content"
	"trendxl/internal/domain/insight"
)

// Store extends content.Store with profile enumeration, which the refresh
// loop needs to know whose data to pull
type Store interface {
	content.Store
	ListProfiles(ctx context.Context) ([]string, error)
}

// ResultStore defines storage for finished analysis results
type ResultStore interface {
	SaveResult(ctx context.Context, result insight.AnalysisResult) error
}

// RefresherConfig contains configuration for the ingestion refresher
type RefresherConfig struct {
	RefreshInterval    time.Duration
	SearchDepth        int
	MaxResultsPerQuery int
	EventsTopic        string
}

// Refresher periodically pulls fresh content for every tracked profile,
// labels it, runs the analysis engine and persists the result
type Refresher struct {
	provider       content.Provider
	labeler        content.Labeler
	store          Store
	results        ResultStore
	engine         insight.Engine
	eventBus       *nats.Conn
	config         RefresherConfig
	resultHandlers []func(insight.AnalysisResult) error
	mu             sync.RWMutex
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
}

// NewRefresher creates a new ingestion refresher
func NewRefresher(
	provider content.Provider,
	labeler content.Labeler,
	store Store,
	results ResultStore,
	engine insight.Engine,
	eventBus *nats.Conn,
	config RefresherConfig,
) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())

	return &Refresher{
		provider:       provider,
		labeler:        labeler,
		store:          store,
		results:        results,
		engine:         engine,
		eventBus:       eventBus,
		config:         config,
		resultHandlers: []func(insight.AnalysisResult) error{},
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start begins the periodic refresh loop
func (r *Refresher) Start(ctx context.Context) error {
	if r.config.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}

	r.wg.Add(1)
	go r.refreshLoop(ctx)

	return nil
}

// RegisterResultHandler registers a callback for completed analyses
func (r *Refresher) RegisterResultHandler(handler func(insight.AnalysisResult) error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resultHandlers = append(r.resultHandlers, handler)
}

// refreshLoop drives the ticker
func (r *Refresher) refreshLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.refreshAll(ctx)
		}
	}
}

// refreshAll refreshes every tracked profile, continuing past individual
// failures
func (r *Refresher) refreshAll(ctx context.Context) {
	usernames, err := r.store.ListProfiles(ctx)
	if err != nil {
		log.Printf("Error listing profiles for refresh: %v", err)
		return
	}

	for _, username := range usernames {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.RefreshProfile(ctx, username); err != nil {
			log.Printf("Error refreshing @%s: %v", username, err)
		}
	}
}

// RefreshProfile runs the full pipeline for one creator: discover content by
// the profile's keywords and hashtags, label it, persist it, analyze it and
// store the result. Also used directly by the API for on-demand refreshes.
func (r *Refresher) RefreshProfile(ctx context.Context, username string) (*insight.AnalysisResult, error) {
	profile, analysis, err := r.store.GetProfile(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading profile @%s: %w", username, err)
	}

	if analysis == nil {
		analysis, err = r.analyzeProfile(ctx, *profile)
		if err != nil {
			return nil, err
		}
	}

	records, err := r.discover(ctx, *analysis)
	if err != nil {
		return nil, err
	}

	labeled, err := r.labeler.LabelRecords(ctx, records, *analysis)
	if err != nil {
		// Unlabeled records still carry statistics the engine can use
		log.Printf("Error labeling records for @%s: %v", username, err)
		labeled = records
	}

	if len(labeled) > 0 {
		if err := r.store.SaveRecords(ctx, username, labeled); err != nil {
			return nil, fmt.Errorf("saving records for @%s: %w", username, err)
		}
	}

	result := r.engine.Analyze(labeled, insight.Context{
		Owner:         username,
		PrimaryNiche:  analysis.Niche,
		FollowerCount: profile.FollowerCount,
	})

	if err := r.results.SaveResult(ctx, result); err != nil {
		return nil, fmt.Errorf("saving analysis result for @%s: %w", username, err)
	}

	if err := r.publishResultEvent(result); err != nil {
		log.Printf("Error publishing analysis event for @%s: %v", username, err)
	}

	r.callResultHandlers(result)

	return &result, nil
}

// analyzeProfile derives and persists a profile analysis when none is stored
func (r *Refresher) analyzeProfile(ctx context.Context, profile content.Profile) (*content.ProfileAnalysis, error) {
	depth := r.config.SearchDepth
	if depth <= 0 {
		depth = 2
	}

	posts, err := r.provider.GetUserPosts(ctx, profile.Username, depth)
	if err != nil {
		log.Printf("Error fetching posts for @%s, analyzing profile without them: %v", profile.Username, err)
		posts = nil
	}

	analysis, err := r.labeler.AnalyzeProfile(ctx, profile, posts)
	if err != nil {
		return nil, fmt.Errorf("analyzing profile @%s: %w", profile.Username, err)
	}

	if err := r.store.SaveProfile(ctx, profile, analysis); err != nil {
		return nil, fmt.Errorf("saving profile analysis for @%s: %w", profile.Username, err)
	}

	return analysis, nil
}

// discover searches the provider by the profile's keywords and hashtags,
// deduplicating by record id. A single failed query is logged and skipped.
func (r *Refresher) discover(ctx context.Context, analysis content.ProfileAnalysis) ([]content.Record, error) {
	seen := make(map[string]bool)
	var records []content.Record

	add := func(found []content.Record) {
		for _, rec := range found {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			records = append(records, rec)
		}
	}

	for _, keyword := range analysis.Keywords {
		found, err := r.provider.SearchKeyword(ctx, keyword, r.config.MaxResultsPerQuery)
		if err != nil {
			log.Printf("Error searching keyword %q: %v", keyword, err)
			continue
		}
		add(found)
	}

	for _, hashtag := range analysis.Hashtags {
		found, err := r.provider.SearchHashtag(ctx, hashtag, r.config.MaxResultsPerQuery)
		if err != nil {
			log.Printf("Error searching hashtag %q: %v", hashtag, err)
			continue
		}
		add(found)
	}

	return records, nil
}

// publishResultEvent publishes a completed analysis to the event bus
func (r *Refresher) publishResultEvent(result insight.AnalysisResult) error {
	if r.eventBus == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling analysis event: %w", err)
	}

	topic := fmt.Sprintf("%s.completed", r.config.EventsTopic)
	return r.eventBus.Publish(topic, data)
}

// callResultHandlers calls all registered result handlers
func (r *Refresher) callResultHandlers(result insight.AnalysisResult) {
	r.mu.RLock()
	handlers := make([]func(insight.AnalysisResult) error, len(r.resultHandlers))
	copy(handlers, r.resultHandlers)
	r.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(result); err != nil {
			log.Printf("Error in analysis result handler: %v", err)
		}
	}
}

// Stop gracefully stops the refresh loop
func (r *Refresher) Stop(ctx context.Context) error {
	r.cancel()

	c := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(c)
	}()

	select {
	case <-c:
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}
