package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/statlink/internal/app"
	"github.com/riskibarqy/statlink/internal/config"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/infrastructure/dataset"
	"github.com/riskibarqy/statlink/internal/infrastructure/sourcefeed"
	"github.com/riskibarqy/statlink/internal/platform/logging"
	"github.com/riskibarqy/statlink/internal/usecase"
)

type options struct {
	ingest  string
	dryRun  bool
	workers int
	out     string
	league  string
	season  int
	player  string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewConsole(os.Stderr, cfg.LogLevel)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, opts, logger)
	stop()
	if err != nil {
		logger.Error("linker failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("linker", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.ingest, "ingest", "", "file path or http(s) URL of a {\"primary\": [...], \"secondary\": [...]} feed to ingest first")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "resolve matches without writing links")
	fs.IntVar(&opts.workers, "workers", 0, "link worker count (0 uses LINK_MAX_WORKERS)")
	fs.StringVar(&opts.out, "out", "", "write the merged dataset as CSV to this path (- for stdout)")
	fs.StringVar(&opts.league, "league", "", "dataset league code filter")
	fs.IntVar(&opts.season, "season", 0, "dataset season year filter")
	fs.StringVar(&opts.player, "player", "", "dataset player name filter")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.workers < 0 {
		fmt.Fprintln(output, "-workers must be >= 0")
		return options{}, fmt.Errorf("invalid -workers %d", opts.workers)
	}
	return opts, nil
}

func run(ctx context.Context, cfg config.Config, opts options, logger *logging.Logger) error {
	services, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Warn("close services failed", "error", err)
		}
	}()

	if opts.ingest != "" {
		feed := sourcefeed.NewClient(sourcefeed.ClientConfig{
			Timeout:        cfg.FeedTimeout,
			Retries:        cfg.FeedRetries,
			Token:          cfg.FeedToken,
			CircuitBreaker: cfg.FeedCircuit,
		}, logger)
		if err := ingestFeed(ctx, feed, services.Ingestion, opts.ingest, logger); err != nil {
			return err
		}
	}

	summary, err := services.Links.LinkSecondaryPlayers(ctx, usecase.LinkInput{
		MaxWorkers: opts.workers,
		DryRun:     opts.dryRun,
	})
	if err != nil {
		return err
	}
	logger.Info("link run finished",
		"run_id", summary.RunID,
		"dry_run", summary.DryRun,
		"considered", summary.Considered,
		"linked", summary.Linked,
		"already_linked", summary.AlreadyLinked,
		"unresolved", summary.Unresolved,
		"errored", summary.Errored,
		"duration_ms", summary.DurationMs,
		"by_match_type", summary.ByMatchType,
	)
	for _, c := range summary.Review {
		logger.Info("needs review",
			"secondary_player_id", c.SecondaryPlayerID,
			"secondary_name", c.SecondaryName,
			"best_player_id", c.BestPlayerID,
			"best_name", c.BestName,
			"best_score", c.BestScore,
		)
	}

	if opts.out == "" {
		return nil
	}
	return exportDataset(ctx, services.Datasets, opts, logger)
}

func ingestFeed(ctx context.Context, feed *sourcefeed.Client, ingestion *usecase.IngestionService, location string, logger *logging.Logger) error {
	batches, err := feed.Load(ctx, location)
	if err != nil {
		return err
	}

	summaries, err := ingestion.IngestBatches(ctx, batches.Primary, batches.Secondary)
	for _, s := range summaries {
		logger.Info("batch ingested",
			"source", s.Source,
			"league", s.League,
			"season", s.Season,
			"ingested", s.Ingested,
			"errored", s.Errored,
			"teams_errored", s.Teams.Errored,
		)
	}
	if err != nil {
		return fmt.Errorf("ingest %s: %w", location, err)
	}
	return nil
}

func exportDataset(ctx context.Context, datasets *usecase.DatasetService, opts options, logger *logging.Logger) error {
	rows, err := datasets.Build(ctx, playerstats.DatasetFilter{
		LeagueCode: opts.league,
		SeasonYear: opts.season,
		PlayerName: opts.player,
	})
	if err != nil {
		return err
	}

	if opts.out == "-" {
		return dataset.WriteCSV(os.Stdout, rows)
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.out, err)
	}
	if err := dataset.WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", opts.out, err)
	}
	logger.Info("dataset written", "path", opts.out, "rows", len(rows))
	return nil
}
