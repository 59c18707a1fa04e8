package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/betfaro/betstats/internal/platform/logging"
	"github.com/betfaro/betstats/internal/usecase"
)

// AnalysisService answers free-text betting queries.
type AnalysisService interface {
	AnalyzeQuery(ctx context.Context, text string) (*usecase.AnalysisReport, error)
}

// DailyPicksService builds the unattended daily-picks aggregate.
type DailyPicksService interface {
	DailyPicks(ctx context.Context, rangeType string, forceRefresh bool) (usecase.DailyPicksResult, error)
}

// SnapshotReader serves previously persisted daily-picks builds.
type SnapshotReader interface {
	LatestDailyPicks(ctx context.Context, pickRange string) (usecase.DailyPicksResult, error)
}

type Handler struct {
	analysisService   AnalysisService
	dailyPicksService DailyPicksService
	snapshots         SnapshotReader
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	analysisService AnalysisService,
	dailyPicksService DailyPicksService,
	snapshots SnapshotReader,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		analysisService:   analysisService,
		dailyPicksService: dailyPicksService,
		snapshots:         snapshots,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeQueryRequest struct {
	Query string `json:"query" validate:"required,max=300"`
}

type analyzeQueryResponse struct {
	Report *usecase.AnalysisReport `json:"report"`
	Text   string                  `json:"text"`
}

func (h *Handler) AnalyzeQuery(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AnalyzeQuery")
	defer span.End()

	var req analyzeQueryRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.analysisService.AnalyzeQuery(ctx, req.Query)
	if err != nil {
		h.logger.WarnContext(ctx, "analyze query failed", "query", req.Query, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, analyzeQueryResponse{
		Report: report,
		Text:   report.Format(),
	})
}

func (h *Handler) GetDailyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDailyPicks")
	defer span.End()

	rangeType := strings.TrimSpace(r.URL.Query().Get("range"))
	refresh := isTruthy(r.URL.Query().Get("refresh"))

	result, err := h.dailyPicksService.DailyPicks(ctx, rangeType, refresh)
	if err != nil {
		h.logger.WarnContext(ctx, "daily picks failed", "range", rangeType, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) GetLatestDailyPicksSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLatestDailyPicksSnapshot")
	defer span.End()

	if h.snapshots == nil {
		writeError(ctx, w, fmt.Errorf("%w: snapshot store is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	rangeType := strings.TrimSpace(r.URL.Query().Get("range"))
	if rangeType == "" {
		rangeType = usecase.RangeBoth
	}

	result, err := h.snapshots.LatestDailyPicks(ctx, rangeType)
	if err != nil {
		h.logger.WarnContext(ctx, "load picks snapshot failed", "range", rangeType, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
