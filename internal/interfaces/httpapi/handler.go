package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/courtdata/statpipe/internal/domain/dataset"
	"github.com/courtdata/statpipe/internal/platform/logging"
	"github.com/courtdata/statpipe/internal/qa"
	"github.com/courtdata/statpipe/internal/usecase"
)

type Handler struct {
	batchService *usecase.BatchService
	registry     *usecase.RunRegistry
	defaults     usecase.RunOptions
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(
	batchService *usecase.BatchService,
	registry *usecase.RunRegistry,
	defaults usecase.RunOptions,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		batchService: batchService,
		registry:     registry,
		defaults:     defaults,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRuns")
	defer span.End()

	records := h.registry.List()
	items := make([]runSummaryDTO, 0, len(records))
	for _, record := range records {
		items = append(items, runToSummaryDTO(record))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRun")
	defer span.End()

	league := strings.TrimSpace(r.PathValue("league"))
	season := strings.TrimSpace(r.PathValue("season"))
	record, ok := h.registry.Get(league, season)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no run recorded for league %q season %q", usecase.ErrNotFound, league, season))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runToDetailDTO(record))
}

func (h *Handler) GetRunReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRunReport")
	defer span.End()

	league := strings.TrimSpace(r.PathValue("league"))
	season := strings.TrimSpace(r.PathValue("season"))
	record, ok := h.registry.Get(league, season)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no run recorded for league %q season %q", usecase.ErrNotFound, league, season))
		return
	}
	if record.Result.Report == nil {
		writeError(ctx, w, fmt.Errorf("%w: run for league %q season %q produced no report", usecase.ErrNotFound, league, season))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, record.Result.Report)
}

func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerRun")
	defer span.End()

	var req triggerRunRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err))
		return
	}

	options := h.defaults
	if req.PerMode != "" {
		perMode, err := dataset.ParsePerMode(req.PerMode)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
			return
		}
		options.PerMode = perMode
	}
	if req.SplitTraded != nil {
		options.SplitTraded = *req.SplitTraded
	}

	result, err := h.batchService.RunOne(ctx, usecase.RunInput{
		League:  req.League,
		Season:  req.Season,
		Options: options,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "triggered run failed",
			"league", req.League, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	record, ok := h.registry.Get(req.League, req.Season)
	if !ok {
		record = usecase.RunRecord{Result: result}
	}
	writeSuccess(ctx, w, http.StatusOK, runToDetailDTO(record))
}

type triggerRunRequest struct {
	League      string `json:"league" validate:"required,max=32"`
	Season      string `json:"season" validate:"required,max=16"`
	PerMode     string `json:"perMode"`
	SplitTraded *bool  `json:"splitTraded"`
}

type runSummaryDTO struct {
	RunID      string `json:"runId"`
	League     string `json:"league"`
	Season     string `json:"season"`
	Stage      string `json:"stage"`
	Healthy    *bool  `json:"healthy,omitempty"`
	Datasets   int    `json:"datasets"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt"`
	DurationMs int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

type runDetailDTO struct {
	runSummaryDTO

	FailedStage  string            `json:"failedStage,omitempty"`
	DatasetRows  map[string]int    `json:"datasetRows"`
	SkippedKinds map[string]string `json:"skippedKinds,omitempty"`
	CheckCount   int               `json:"checkCount"`
	FailureCount int               `json:"failureCount"`
	WarningCount int               `json:"warningCount"`
}

func runToSummaryDTO(record usecase.RunRecord) runSummaryDTO {
	result := record.Result

	out := runSummaryDTO{
		RunID:      record.RunID,
		League:     result.League,
		Season:     result.Season,
		Stage:      string(result.Stage),
		Datasets:   len(result.Tables),
		StartedAt:  result.StartedAt.UTC().Format(timeLayout),
		FinishedAt: result.FinishedAt.UTC().Format(timeLayout),
		DurationMs: result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	}
	if result.Report != nil {
		healthy := result.Report.Healthy()
		out.Healthy = &healthy
	}
	if result.Err != nil {
		out.Error = result.Err.Error()
	}
	return out
}

func runToDetailDTO(record usecase.RunRecord) runDetailDTO {
	result := record.Result

	out := runDetailDTO{
		runSummaryDTO: runToSummaryDTO(record),
		FailedStage:   string(result.FailedStage),
		DatasetRows:   make(map[string]int, len(result.Tables)),
	}
	if result.Stage != usecase.StageFailed {
		out.FailedStage = ""
	}
	for kind, table := range result.Tables {
		out.DatasetRows[string(kind)] = table.Len()
	}
	if len(result.Skipped) > 0 {
		out.SkippedKinds = make(map[string]string, len(result.Skipped))
		for kind, reason := range result.Skipped {
			out.SkippedKinds[string(kind)] = reason
		}
	}
	if result.Report != nil {
		out.CheckCount = len(result.Report.Results)
		out.FailureCount = countFailed(result.Report)
		out.WarningCount = countWarned(result.Report)
	}
	return out
}

func countFailed(report *qa.Report) int { return len(report.Failures()) }
func countWarned(report *qa.Report) int { return len(report.Warnings()) }

const timeLayout = "2006-01-02T15:04:05.000Z07:00"
