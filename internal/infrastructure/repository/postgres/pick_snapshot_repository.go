package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	qb "github.com/betfaro/betstats/internal/platform/querybuilder"
	"github.com/betfaro/betstats/internal/usecase"
)

// PickSnapshotRepository persists daily-picks builds for audit and reuse.
// One row is kept per range and day; rebuilds within the same day overwrite
// the previous snapshot.
type PickSnapshotRepository struct {
	db *sqlx.DB
}

func NewPickSnapshotRepository(db *sqlx.DB) *PickSnapshotRepository {
	return &PickSnapshotRepository{db: db}
}

func (r *PickSnapshotRepository) SaveDailyPicks(ctx context.Context, result usecase.DailyPicksResult) error {
	pickRange := strings.TrimSpace(result.Range)
	if pickRange == "" {
		return fmt.Errorf("pick range is required")
	}

	generatedAt := result.GeneratedAt.UTC()
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	payload, err := sonic.MarshalString(result)
	if err != nil {
		return fmt.Errorf("marshal daily picks payload: %w", err)
	}

	model := dailyPickSnapshotModel{
		PickRange:        pickRange,
		SnapshotDay:      generatedAt.Truncate(24 * time.Hour),
		GeneratedAt:      generatedAt,
		FixturesScanned:  result.FixturesScanned,
		FixturesAnalyzed: result.FixturesAnalyzed,
		Payload:          payload,
	}

	query, args, err := qb.InsertModel("daily_pick_snapshots", model, `ON CONFLICT (pick_range, snapshot_day)
DO UPDATE SET
    generated_at = EXCLUDED.generated_at,
    fixtures_scanned = EXCLUDED.fixtures_scanned,
    fixtures_analyzed = EXCLUDED.fixtures_analyzed,
    payload = EXCLUDED.payload`)
	if err != nil {
		return fmt.Errorf("build upsert daily picks query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert daily picks range=%s day=%s: %w", pickRange, model.SnapshotDay.Format("2006-01-02"), err)
	}

	return nil
}

// LatestDailyPicks returns the most recent snapshot for the range.
func (r *PickSnapshotRepository) LatestDailyPicks(ctx context.Context, pickRange string) (usecase.DailyPicksResult, error) {
	pickRange = strings.TrimSpace(pickRange)
	if pickRange == "" {
		return usecase.DailyPicksResult{}, fmt.Errorf("%w: pick range is required", usecase.ErrInvalidInput)
	}

	query, args, err := qb.Select("payload").
		From("daily_pick_snapshots").
		Where(qb.Eq("pick_range", pickRange)).
		OrderBy("generated_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return usecase.DailyPicksResult{}, fmt.Errorf("build latest daily picks query: %w", err)
	}

	var payload string
	if err := r.db.GetContext(ctx, &payload, query, args...); err != nil {
		if isNotFound(err) {
			return usecase.DailyPicksResult{}, fmt.Errorf("%w: no snapshot for range %s", usecase.ErrNotFound, pickRange)
		}
		return usecase.DailyPicksResult{}, fmt.Errorf("load latest daily picks range=%s: %w", pickRange, err)
	}

	var result usecase.DailyPicksResult
	if err := sonic.UnmarshalString(payload, &result); err != nil {
		return usecase.DailyPicksResult{}, fmt.Errorf("decode daily picks payload: %w", err)
	}
	return result, nil
}
