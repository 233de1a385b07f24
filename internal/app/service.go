// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/maven/internal/adapters/embedding"
	"github.com/okian/maven/internal/adapters/extraction"
	"github.com/okian/maven/internal/adapters/pool"
	"github.com/okian/maven/internal/adapters/roster"
	"github.com/okian/maven/internal/domain/model"
	"github.com/okian/maven/internal/domain/ranking"
	"github.com/okian/maven/internal/domain/similarity"
	"github.com/okian/maven/internal/domain/tagmatch"
	"github.com/okian/maven/internal/domain/team"
	"github.com/okian/maven/internal/domain/types"
	"github.com/okian/maven/pkg/logger"
	"github.com/okian/maven/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultWorkerMultiplier = 2
	defaultMaxResults       = 20
	defaultMaxSessions      = 1000
	defaultEmbedTimeout     = 5 * time.Second
)

// Service implements the API dependencies for the matching system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       roster.Store
	extractor   extraction.Extractor
	embedder    embedding.Provider
	scorer      *similarity.Scorer
	matcher     *tagmatch.Matcher
	scoringPool *pool.Pool
	sessions    *sessionRegistry

	// Configuration
	workerCount  int
	maxResults   int
	maxSessions  int
	embedTimeout time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRoster sets the profile store.
func WithRoster(store roster.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithExtractor sets the semantic extraction client.
func WithExtractor(e extraction.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithEmbedder sets the embedding provider.
func WithEmbedder(p embedding.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.embedder = p
		}
	}
}

// WithWorkerCount sets the number of concurrent scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithMaxResults caps the individual list returned per match (0 = all).
func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxResults = n
		}
	}
}

// WithMaxSessions bounds the number of live team sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithEmbedTimeout bounds a single embedding provider call.
func WithEmbedTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.embedTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU() * defaultWorkerMultiplier,
		maxResults:   defaultMaxResults,
		maxSessions:  defaultMaxSessions,
		embedTimeout: defaultEmbedTimeout,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		return fmt.Errorf("%w: roster store", ErrMissingDependency)
	}
	if s.extractor == nil {
		return fmt.Errorf("%w: extractor", ErrMissingDependency)
	}

	s.logger.Info(ctx, "starting matching service...")

	s.scorer = similarity.New(
		&embeddingSource{store: s.store, provider: s.embedder},
		similarity.WithFetchTimeout(s.embedTimeout),
	)
	s.matcher = tagmatch.New()
	s.scoringPool = pool.New(pool.WithWorkers(s.workerCount))
	s.sessions = newSessionRegistry(s.maxSessions)

	rosterSize := s.store.Snapshot(ctx).Len()
	metrics.UpdateRosterSize(rosterSize)
	metrics.UpdateWorkerCount(s.workerCount)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("rosterSize", rosterSize),
		logger.Int("maxSessions", s.maxSessions),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping matching service...")
	s.sessions.clear()
	s.started = false
	s.logger.Info(context.Background(), "matching service stopped")
}

// Match analyzes a problem statement and returns the ranked individual list
// together with the assembled team and its session id.
func (s *Service) Match(ctx context.Context, problem string) (types.MatchResult, error) {
	extractStart := time.Now()
	extracted, err := s.extractor.Extract(ctx, problem)
	elapsedMs := float64(time.Since(extractStart).Milliseconds())
	metrics.RecordExtractionLatency(elapsedMs)
	if err != nil {
		// Request-fatal: no partial matching without tags.
		metrics.RecordExtractionError()
		metrics.RecordErrorByComponent("extraction", "extraction_failed")
		metrics.RecordErrorLatency("extraction", "extraction_failed", elapsedMs)
		return types.MatchResult{}, fmt.Errorf("match: %w", err)
	}

	snap := s.store.Snapshot(ctx)
	q := &model.ProblemQuery{
		Text:          problem,
		RequiredTags:  extracted.RequiredTags,
		DomainWeights: extracted.DomainWeights,
		TagDomains:    extracted.TagDomains,
		Explanation:   extracted.Explanation,
	}

	degraded := s.embedProblem(ctx, q)
	records := s.scoreRoster(ctx, q, snap)

	scored := make([]model.ScoreRecord, 0, len(records))
	candidates := make([]team.Candidate, 0, len(records))
	for i, rec := range records {
		if rec == nil {
			continue
		}
		scored = append(scored, *rec)
		candidates = append(candidates, team.Candidate{
			Profile:  snap.Experts()[i],
			Semantic: rec.Semantic,
		})
	}
	ranking.Sort(scored)

	assignment := team.Assemble(q.RequiredTags, candidates)
	sess := team.NewSession(uuid.NewString(), assignment, snap.Profiles())
	s.sessions.put(sess)

	metrics.RecordMatchProcessed()
	s.logger.Info(ctx, "match completed",
		logger.String("session", sess.ID()),
		logger.Strings("tags", q.RequiredTags),
		logger.Int("scored", len(scored)),
		logger.Int("team", len(assignment.Members())),
		logger.Bool("semanticDegraded", degraded),
	)

	return types.MatchResult{
		SessionID:        sess.ID(),
		Tags:             q.RequiredTags,
		DomainWeights:    q.DomainWeights,
		Explanation:      q.Explanation,
		SemanticDegraded: degraded,
		Individual:       s.rankedView(scored, snap),
		Team:             toTeamMembers(assignment.Members()),
		NotFoundTags:     assignment.NotFound(),
	}, nil
}

// embedProblem fills in the query embedding. A provider failure degrades the
// request to weighted-only scoring instead of aborting it; extraction is the
// only fatal stage. Returns true when degraded.
func (s *Service) embedProblem(ctx context.Context, q *model.ProblemQuery) bool {
	if s.embedder == nil {
		return true
	}
	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()
	vec, err := s.embedder.Embed(embedCtx, q.Text)
	if err != nil {
		metrics.RecordEmbeddingError()
		metrics.RecordErrorByComponent("embedding", "embedding_unavailable")
		s.logger.Warn(ctx, "problem embedding unavailable; ranking on tag overlap only", logger.Error(err))
		return true
	}
	q.Embedding = vec
	return false
}

// scoreRoster computes a ScoreRecord per expert concurrently. A nil slot
// marks an expert excluded because their embedding was unavailable.
func (s *Service) scoreRoster(ctx context.Context, q *model.ProblemQuery, snap *roster.Snapshot) []*model.ScoreRecord {
	experts := snap.Experts()
	records := make([]*model.ScoreRecord, len(experts))

	start := time.Now()
	s.scoringPool.Map(ctx, len(experts), func(ctx context.Context, i int) {
		p := experts[i]

		semantic, err := s.scorer.ScoreSemantic(ctx, q.Embedding, p.ID)
		if err != nil {
			metrics.RecordExpertExcluded()
			metrics.RecordErrorByComponent("similarity", "expert_excluded")
			s.logger.Warn(ctx, "expert excluded from ranking",
				logger.String("expert", p.ID),
				logger.Error(err),
			)
			return
		}

		weighted, matching := s.matcher.Score(q, p.Tags)
		relevance := ranking.DepartmentRelevance(p.Department, q.DomainWeights)
		records[i] = &model.ScoreRecord{
			ExpertID:     p.ID,
			Semantic:     semantic,
			Weighted:     weighted,
			Rank:         ranking.Fuse(semantic, weighted, relevance),
			MatchingTags: matching,
		}
		metrics.RecordExpertScored()
	})
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))

	return records
}

// rankedView renders sorted score records into the API shape, capped by the
// configured result limit.
func (s *Service) rankedView(scored []model.ScoreRecord, snap *roster.Snapshot) []types.RankedExpert {
	limit := len(scored)
	if s.maxResults > 0 && s.maxResults < limit {
		limit = s.maxResults
	}

	out := make([]types.RankedExpert, 0, limit)
	for i := 0; i < limit; i++ {
		rec := scored[i]
		p, _ := snap.Get(rec.ExpertID)
		out = append(out, types.RankedExpert{
			Rank:         i + 1,
			ID:           rec.ExpertID,
			Department:   p.Department,
			Position:     p.Position,
			ProfileURL:   p.ProfileURL,
			ScholarURL:   p.ScholarURL(),
			Semantic:     rec.Semantic,
			Weighted:     rec.Weighted,
			Score:        rec.Rank,
			MatchingTags: rec.MatchingTags,
		})
	}
	return out
}

// Team returns the current assignment of a live session.
func (s *Service) Team(ctx context.Context, sessionID string) (types.TeamView, error) {
	sess, ok := s.sessions.get(sessionID)
	if !ok {
		return types.TeamView{}, fmt.Errorf("team: %w: %s", ErrSessionNotFound, sessionID)
	}
	members, notFound := sess.View()
	return types.TeamView{
		SessionID:    sessionID,
		Members:      toTeamMembers(members),
		NotFoundTags: notFound,
	}, nil
}

// Reassign applies a tag move on a live session and returns the updated team.
func (s *Service) Reassign(ctx context.Context, sessionID string, tags []string, from, to string) (types.ReassignResult, error) {
	sess, ok := s.sessions.get(sessionID)
	if !ok {
		return types.ReassignResult{}, fmt.Errorf("reassign: %w: %s", ErrSessionNotFound, sessionID)
	}

	res, err := sess.Reassign(tags, from, to)
	if err != nil {
		return types.ReassignResult{}, fmt.Errorf("reassign: %w", err)
	}

	if res.Applied {
		metrics.RecordReassignmentApplied()
		s.logger.Info(ctx, "reassignment applied",
			logger.String("session", sessionID),
			logger.Strings("moved", res.Moved),
			logger.String("from", from),
			logger.String("to", to),
		)
	} else {
		metrics.RecordReassignmentRejected()
		s.logger.Debug(ctx, "reassignment rejected",
			logger.String("session", sessionID),
			logger.String("reason", res.Reason),
		)
	}

	members, notFound := sess.View()
	return types.ReassignResult{
		Applied:      res.Applied,
		Moved:        res.Moved,
		Reason:       res.Reason,
		Members:      toTeamMembers(members),
		NotFoundTags: notFound,
	}, nil
}

// AllTags returns every unique declared roster tag, sorted.
func (s *Service) AllTags(ctx context.Context) ([]string, error) {
	return s.store.Snapshot(ctx).AllTags(), nil
}

// InvalidateExpert drops the cached embedding for an expert. This is the
// hook for external "profile changed" signals.
func (s *Service) InvalidateExpert(ctx context.Context, expertID string) error {
	if _, err := s.store.Get(ctx, expertID); err != nil {
		return fmt.Errorf("invalidate: %w", err)
	}
	s.scorer.Invalidate(expertID)
	s.logger.Debug(ctx, "embedding invalidated", logger.String("expert", expertID))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"maxResults":  s.maxResults,
		"maxSessions": s.maxSessions,
	}

	if s.started {
		rosterSize := s.store.Snapshot(context.Background()).Len()
		activeSessions := s.sessions.len()

		stats["rosterSize"] = rosterSize
		stats["activeSessions"] = activeSessions
		stats["embeddingCacheSize"] = s.scorer.CacheSize()

		metrics.UpdateRosterSize(rosterSize)
		metrics.UpdateActiveSessions(activeSessions)
	}

	return stats
}

// toTeamMembers converts domain members into the API shape.
func toTeamMembers(members []team.Member) []types.TeamMember {
	out := make([]types.TeamMember, len(members))
	for i, m := range members {
		out[i] = types.TeamMember{
			ID:         m.ID,
			Department: m.Department,
			Position:   m.Position,
			ProfileURL: m.ProfileURL,
			ScholarURL: m.ScholarURL,
			Tags:       m.Tags,
		}
	}
	return out
}

// embeddingSource resolves expert embeddings for the similarity scorer:
// precomputed profile vectors first, the external provider otherwise.
type embeddingSource struct {
	store    roster.Store
	provider embedding.Provider
}

func (s *embeddingSource) EmbeddingFor(ctx context.Context, expertID string) ([]float64, error) {
	p, err := s.store.Get(ctx, expertID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", similarity.ErrUnknownExpert, expertID)
	}

	if len(p.Embedding) > 0 {
		return p.Embedding, nil
	}

	if s.provider == nil {
		return nil, fmt.Errorf("%w: no provider configured", similarity.ErrEmbeddingUnavailable)
	}

	// Embed the declared expertise; the profile store owns richer text but
	// only exposes tags to the engine.
	vec, err := s.provider.Embed(ctx, strings.Join(p.Tags, ", "))
	if err != nil {
		metrics.RecordEmbeddingError()
		return nil, fmt.Errorf("%w: %v", similarity.ErrEmbeddingUnavailable, err)
	}
	return vec, nil
}
