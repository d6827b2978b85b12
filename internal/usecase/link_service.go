package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/statlink/internal/domain/matching"
	"github.com/riskibarqy/statlink/internal/domain/player"
	"github.com/riskibarqy/statlink/internal/domain/store"
	"github.com/riskibarqy/statlink/internal/platform/id"
	"github.com/riskibarqy/statlink/internal/platform/logging"
	"github.com/riskibarqy/statlink/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

const maxReviewCandidates = 200

type LinkInput struct {
	MaxWorkers int
	// DryRun resolves without writing links or publishing events.
	DryRun bool
}

// ReviewCandidate is an unresolved secondary player with its closest primary
// player, kept for manual review.
type ReviewCandidate struct {
	SecondaryPlayerID int64   `json:"secondary_player_id"`
	SecondaryName     string  `json:"secondary_name"`
	BestPlayerID      int64   `json:"best_player_id,omitempty"`
	BestName          string  `json:"best_name,omitempty"`
	BestScore         float64 `json:"best_score"`
}

type LinkSummary struct {
	RunID         string            `json:"run_id"`
	DryRun        bool              `json:"dry_run"`
	WorkerCount   int               `json:"worker_count"`
	Considered    int               `json:"considered"`
	Linked        int               `json:"linked"`
	AlreadyLinked int               `json:"already_linked"`
	Unresolved    int               `json:"unresolved"`
	Errored       int               `json:"errored"`
	ByMatchType   map[string]int    `json:"by_match_type"`
	DurationMs    int64             `json:"duration_ms"`
	Review        []ReviewCandidate `json:"review,omitempty"`
}

// PlayerLinkedEvent is published after a link commits.
type PlayerLinkedEvent struct {
	RunID             string    `json:"run_id"`
	SecondaryPlayerID int64     `json:"secondary_player_id"`
	SecondaryName     string    `json:"secondary_name"`
	PlayerID          int64     `json:"player_id"`
	PlayerName        string    `json:"player_name"`
	MatchType         string    `json:"match_type"`
	Score             float64   `json:"score"`
	LinkedAt          time.Time `json:"linked_at"`
}

type LinkEventPublisher interface {
	PublishPlayerLinked(ctx context.Context, event PlayerLinkedEvent) error
}

// LinkService attaches unlinked secondary players to primary players by name.
type LinkService struct {
	uow            store.UnitOfWork
	resolver       *matching.Resolver
	publisher      LinkEventPublisher
	ids            id.Generator
	defaultWorkers int
	flight         resilience.SingleFlight[LinkSummary]
	logger         *logging.Logger
}

func NewLinkService(
	uow store.UnitOfWork,
	resolver *matching.Resolver,
	publisher LinkEventPublisher,
	ids id.Generator,
	defaultWorkers int,
	logger *logging.Logger,
) (*LinkService, error) {
	if resolver == nil || resolver.Kind() != matching.KindPlayer {
		return nil, fmt.Errorf("%w: a player resolver is required", ErrInvalidInput)
	}
	if ids == nil {
		ids = id.NewPrefixedGenerator("link")
	}
	if defaultWorkers <= 0 {
		defaultWorkers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &LinkService{
		uow:            uow,
		resolver:       resolver,
		publisher:      publisher,
		ids:            ids,
		defaultWorkers: defaultWorkers,
		logger:         logger,
	}, nil
}

// LinkSecondaryPlayers links every currently unlinked secondary player that
// resolves to a primary player. Overlapping calls with the same DryRun flag
// share one run. Running it again on its own output changes nothing.
func (s *LinkService) LinkSecondaryPlayers(ctx context.Context, input LinkInput) (LinkSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LinkService.LinkSecondaryPlayers",
		attribute.Bool("statlink.dry_run", input.DryRun))
	defer span.End()

	key := "link"
	if input.DryRun {
		key = "link:dry-run"
	}
	summary, err, shared := s.flight.Do(key, func() (LinkSummary, error) {
		return s.link(ctx, input)
	})
	if err != nil {
		return LinkSummary{}, err
	}
	if shared {
		s.logger.InfoContext(ctx, "joined in-flight link run", "dry_run", input.DryRun)
	}
	return summary, nil
}

type linkTally struct {
	linked, already, unresolved, errored atomic.Int32

	mu     sync.Mutex
	byType map[string]int
	review []ReviewCandidate
}

func (t *linkTally) matched(kind matching.MatchType) {
	t.mu.Lock()
	t.byType[string(kind)]++
	t.mu.Unlock()
}

func (t *linkTally) addReview(c ReviewCandidate) {
	t.mu.Lock()
	if len(t.review) < maxReviewCandidates {
		t.review = append(t.review, c)
	}
	t.mu.Unlock()
}

func (s *LinkService) link(ctx context.Context, input LinkInput) (LinkSummary, error) {
	start := time.Now()
	runID, err := s.ids.NewID()
	if err != nil {
		return LinkSummary{}, fmt.Errorf("generate link run id: %w", err)
	}

	reader := s.uow.Reader()
	unlinked, err := reader.SecondaryPlayers.ListUnlinked(ctx)
	if err != nil {
		return LinkSummary{}, fmt.Errorf("%w: list unlinked secondary players: %v", ErrDependencyUnavailable, err)
	}
	players, err := reader.Players.List(ctx)
	if err != nil {
		return LinkSummary{}, fmt.Errorf("%w: list players: %v", ErrDependencyUnavailable, err)
	}

	candidates := make([]matching.Candidate, 0, len(players))
	for _, p := range players {
		candidates = append(candidates, matching.Candidate{ID: p.ID, Name: p.Name})
	}
	idx := s.resolver.NewIndex(candidates)

	workers := input.MaxWorkers
	if workers <= 0 {
		workers = s.defaultWorkers
	}
	if workers > len(unlinked) {
		workers = len(unlinked)
	}
	if workers < 1 {
		workers = 1
	}

	summary := LinkSummary{
		RunID:       runID,
		DryRun:      input.DryRun,
		WorkerCount: workers,
		Considered:  len(unlinked),
		ByMatchType: map[string]int{},
	}
	if len(unlinked) == 0 {
		summary.DurationMs = time.Since(start).Milliseconds()
		return summary, nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return LinkSummary{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	tally := &linkTally{byType: map[string]int{}}
	var wg sync.WaitGroup
	for _, sec := range unlinked {
		sec := sec
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			s.linkOne(ctx, runID, input.DryRun, sec, idx, tally)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return LinkSummary{}, fmt.Errorf("submit link task to worker pool: %w", err)
		}
	}
	wg.Wait()

	summary.Linked = int(tally.linked.Load())
	summary.AlreadyLinked = int(tally.already.Load())
	summary.Unresolved = int(tally.unresolved.Load())
	summary.Errored = int(tally.errored.Load())
	summary.ByMatchType = tally.byType
	summary.Review = tally.review
	sort.Slice(summary.Review, func(i, j int) bool {
		return summary.Review[i].SecondaryPlayerID < summary.Review[j].SecondaryPlayerID
	})
	summary.DurationMs = time.Since(start).Milliseconds()

	s.logger.InfoContext(ctx, "link run finished",
		"run_id", runID,
		"dry_run", input.DryRun,
		"considered", summary.Considered,
		"linked", summary.Linked,
		"already_linked", summary.AlreadyLinked,
		"unresolved", summary.Unresolved,
		"errored", summary.Errored,
		"duration_ms", summary.DurationMs,
	)
	return summary, nil
}

func (s *LinkService) linkOne(
	ctx context.Context,
	runID string,
	dryRun bool,
	sec player.Secondary,
	idx *matching.Index,
	tally *linkTally,
) {
	res := s.resolver.Resolve(sec.Name, idx)
	if !res.Matched() {
		tally.unresolved.Add(1)
		tally.addReview(ReviewCandidate{
			SecondaryPlayerID: sec.ID,
			SecondaryName:     sec.Name,
			BestPlayerID:      res.Best.ID,
			BestName:          res.Best.Name,
			BestScore:         res.Score,
		})
		s.logger.InfoContext(ctx, "secondary player unresolved",
			"run_id", runID,
			"secondary_player_id", sec.ID,
			"name", sec.Name,
			"best_name", res.Best.Name,
			"best_score", res.Score,
		)
		return
	}

	if dryRun {
		tally.linked.Add(1)
		tally.matched(res.Type)
		return
	}

	var linked bool
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		linked, err = tx.SecondaryPlayers.SetLink(ctx, sec.ID, res.Candidate.ID)
		return err
	})
	if err != nil {
		tally.errored.Add(1)
		s.logger.WarnContext(ctx, "link secondary player failed",
			"run_id", runID,
			"secondary_player_id", sec.ID,
			"player_id", res.Candidate.ID,
			"error", err,
		)
		return
	}
	if !linked {
		tally.already.Add(1)
		return
	}

	tally.linked.Add(1)
	tally.matched(res.Type)
	s.publish(ctx, PlayerLinkedEvent{
		RunID:             runID,
		SecondaryPlayerID: sec.ID,
		SecondaryName:     sec.Name,
		PlayerID:          res.Candidate.ID,
		PlayerName:        res.Candidate.Name,
		MatchType:         string(res.Type),
		Score:             res.Score,
		LinkedAt:          time.Now().UTC(),
	})
}

func (s *LinkService) publish(ctx context.Context, event PlayerLinkedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPlayerLinked(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish player linked event failed",
			"run_id", event.RunID,
			"secondary_player_id", event.SecondaryPlayerID,
			"error", err,
		)
	}
}
