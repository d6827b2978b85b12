package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/infrastructure/dataset"
	"github.com/riskibarqy/statlink/internal/platform/logging"
	"github.com/riskibarqy/statlink/internal/usecase"
)

const maxRequestBodyBytes = 32 << 20

type Handler struct {
	ingestion *usecase.IngestionService
	links     *usecase.LinkService
	datasets  *usecase.DatasetService
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(
	ingestion *usecase.IngestionService,
	links *usecase.LinkService,
	datasets *usecase.DatasetService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ingestion: ingestion,
		links:     links,
		datasets:  datasets,
		logger:    logger,
		validator: validator.New(),
	}
}

type ingestBatchesRequest struct {
	Primary   []usecase.PrimaryBatch   `json:"primary" validate:"dive"`
	Secondary []usecase.SecondaryBatch `json:"secondary" validate:"dive"`
}

type linkPlayersRequest struct {
	MaxWorkers int  `json:"max_workers" validate:"gte=0,lte=256"`
	DryRun     bool `json:"dry_run"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) IngestPrimary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestPrimary")
	defer span.End()

	var req usecase.PrimaryBatch
	if err := h.decodeAndValidate(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.ingestion.IngestPrimary(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest primary batch failed", "league", req.League, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) IngestSecondary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestSecondary")
	defer span.End()

	var req usecase.SecondaryBatch
	if err := h.decodeAndValidate(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.ingestion.IngestSecondary(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest secondary batch failed", "league", req.League, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, summary)
}

// IngestBatches answers 200 with every summary even when some batches failed
// setup; the failures are listed next to the summaries.
func (h *Handler) IngestBatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestBatches")
	defer span.End()

	var req ingestBatchesRequest
	if err := h.decodeAndValidate(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	summaries, err := h.ingestion.IngestBatches(ctx, req.Primary, req.Secondary)
	if err != nil && len(summaries) == 0 {
		writeError(ctx, w, err)
		return
	}

	resp := struct {
		Summaries []usecase.BatchSummary `json:"summaries"`
		Failures  []string               `json:"failures,omitempty"`
	}{Summaries: summaries}
	if err != nil {
		h.logger.WarnContext(ctx, "some ingestion batches failed", "error", err)
		resp.Failures = splitJoined(err)
	}
	writeSuccess(ctx, w, http.StatusOK, resp)
}

func (h *Handler) RunLinkPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLinkPlayers")
	defer span.End()

	var req linkPlayersRequest
	if err := h.decodeAndValidate(ctx, w, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.links.LinkSecondaryPlayers(ctx, usecase.LinkInput{
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "link players job failed", "dry_run", req.DryRun, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, summary)
}

// GetDataset serves the merged dataset as JSON, or as CSV when format=csv or
// the client accepts text/csv.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDataset")
	defer span.End()

	filter, err := datasetFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.datasets.Build(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "build dataset failed", "league", filter.LeagueCode, "season", filter.SeasonYear, "error", err)
		writeError(ctx, w, err)
		return
	}

	if !wantsCSV(r) {
		writeSuccess(ctx, w, http.StatusOK, dataset.FromRows(rows))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+datasetFileName(filter)+`"`)
	w.WriteHeader(http.StatusOK)
	if err := dataset.WriteCSV(w, rows); err != nil {
		h.logger.WarnContext(ctx, "write dataset csv failed", "rows", len(rows), "error", err)
	}
}

func (h *Handler) decodeAndValidate(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
		}
	}

	if err := h.validator.StructCtx(ctx, dst); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func datasetFilterFromQuery(r *http.Request) (playerstats.DatasetFilter, error) {
	q := r.URL.Query()
	filter := playerstats.DatasetFilter{
		LeagueCode: strings.TrimSpace(q.Get("league")),
		PlayerName: strings.TrimSpace(q.Get("player")),
	}
	if raw := strings.TrimSpace(q.Get("season")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return playerstats.DatasetFilter{}, fmt.Errorf("%w: season must be a year, got %q", usecase.ErrInvalidInput, raw)
		}
		filter.SeasonYear = year
	}
	return filter, nil
}

func wantsCSV(r *http.Request) bool {
	if format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))); format != "" {
		return format == "csv"
	}
	return strings.Contains(r.Header.Get("Accept"), "text/csv")
}

func datasetFileName(filter playerstats.DatasetFilter) string {
	parts := []string{"dataset"}
	if filter.LeagueCode != "" {
		parts = append(parts, strings.Map(fileNameRune, strings.ToLower(filter.LeagueCode)))
	}
	if filter.SeasonYear > 0 {
		parts = append(parts, strconv.Itoa(filter.SeasonYear))
	}
	return strings.Join(parts, "-") + ".csv"
}

func fileNameRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		return r
	default:
		return '_'
	}
}

func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		out := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
