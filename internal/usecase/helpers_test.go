package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/riskibarqy/statlink/internal/domain/matching"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/domain/source"
	"github.com/riskibarqy/statlink/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/statlink/internal/platform/logging"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []PlayerLinkedEvent
	err    error
}

func (p *recordingPublisher) PublishPlayerLinked(_ context.Context, event PlayerLinkedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type testEnv struct {
	store     *memory.Store
	upserts   *UpsertService
	ingestion *IngestionService
	links     *LinkService
	datasets  *DatasetService
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T, aliases matching.AliasTable) testEnv {
	t.Helper()

	registry, err := matching.NewRegistry(aliases)
	if err != nil {
		t.Fatalf("build alias registry: %v", err)
	}
	teamResolver, err := matching.NewResolver(matching.KindTeam, 0.80, registry, matching.BlockRatio{})
	if err != nil {
		t.Fatalf("team resolver: %v", err)
	}
	playerResolver, err := matching.NewResolver(matching.KindPlayer, 0.85, registry, matching.BlockRatio{})
	if err != nil {
		t.Fatalf("player resolver: %v", err)
	}

	logger := logging.NewNop()
	st := memory.NewStore()
	upserts, err := NewUpsertService(teamResolver, logger)
	if err != nil {
		t.Fatalf("upsert service: %v", err)
	}
	publisher := &recordingPublisher{}
	links, err := NewLinkService(st, playerResolver, publisher, nil, 4, logger)
	if err != nil {
		t.Fatalf("link service: %v", err)
	}

	return testEnv{
		store:     st,
		upserts:   upserts,
		ingestion: NewIngestionService(st, upserts, 2, logger),
		links:     links,
		datasets:  NewDatasetService(st, nil, logger),
		publisher: publisher,
	}
}

func primaryRecord(id int64, name, teamTitle string, goals int) source.Fields {
	return source.Fields{
		"id":          id,
		"player_name": name,
		"team_title":  teamTitle,
		"games":       "30",
		"time":        "2,700",
		"goals":       goals,
		"xG":          "12.5",
	}
}

func secondaryRecord(id int64, name, teamName string, tackles any) source.Fields {
	return source.Fields{
		"playerId": id,
		"name":     name,
		"teamName": teamName,
		"apps":     "28(2)",
		"mins":     2520,
		"tackles":  tackles,
		"aerial":   "17/30",
	}
}

func playerFilter(name string) playerstats.DatasetFilter {
	return playerstats.DatasetFilter{PlayerName: name}
}
