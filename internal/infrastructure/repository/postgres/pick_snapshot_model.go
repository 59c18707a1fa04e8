package postgres

import "time"

// dailyPickSnapshotModel is one persisted daily-picks build. The full result
// is stored as a jsonb payload next to a few queryable columns.
type dailyPickSnapshotModel struct {
	PickRange        string    `db:"pick_range"`
	SnapshotDay      time.Time `db:"snapshot_day"`
	GeneratedAt      time.Time `db:"generated_at"`
	FixturesScanned  int       `db:"fixtures_scanned"`
	FixturesAnalyzed int       `db:"fixtures_analyzed"`
	Payload          string    `db:"payload"`
}
