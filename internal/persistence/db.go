// Package persistence provides SQLite-based storage for terrain edits and
// engine statistics. The navigation graph itself is never persisted; it is
// rebuilt from the live terrain on every start.
package persistence

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexpath/internal/nav"
	"github.com/talgya/hexpath/internal/world"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS terrain_overrides (
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		terrain INTEGER NOT NULL,
		PRIMARY KEY (q, r)
	);

	CREATE TABLE IF NOT EXISTS engine_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		vertices INTEGER NOT NULL,
		cache_size INTEGER NOT NULL,
		queue_size INTEGER NOT NULL,
		computed INTEGER NOT NULL,
		hits INTEGER NOT NULL,
		misses INTEGER NOT NULL,
		evictions INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_engine_stats_tick ON engine_stats(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// TerrainOverride records a manual terrain edit applied on top of the
// generated map.
type TerrainOverride struct {
	Q       int           `db:"q"`
	R       int           `db:"r"`
	Terrain world.Terrain `db:"terrain"`
}

// SaveTerrainOverride upserts one terrain edit.
func (db *DB) SaveTerrainOverride(coord world.HexCoord, t world.Terrain) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO terrain_overrides (q, r, terrain) VALUES (?, ?, ?)",
		coord.Q, coord.R, t,
	)
	return err
}

// LoadTerrainOverrides returns every recorded terrain edit.
func (db *DB) LoadTerrainOverrides() ([]TerrainOverride, error) {
	var overrides []TerrainOverride
	err := db.conn.Select(&overrides, "SELECT q, r, terrain FROM terrain_overrides ORDER BY q, r")
	return overrides, err
}

// ApplyTerrainOverrides replays saved edits onto a freshly generated map.
// Edits outside the map bounds are skipped.
func (db *DB) ApplyTerrainOverrides(m *world.Map) (int, error) {
	overrides, err := db.LoadTerrainOverrides()
	if err != nil {
		return 0, err
	}
	applied := 0
	for _, o := range overrides {
		if m.SetTerrain(world.HexCoord{Q: o.Q, R: o.R}, o.Terrain) {
			applied++
		}
	}
	if applied > 0 {
		slog.Info("terrain overrides applied", "count", applied)
	}
	return applied, nil
}

// StatsRow is one persisted engine statistics sample.
type StatsRow struct {
	Tick      uint64 `db:"tick" json:"tick"`
	Vertices  int    `db:"vertices" json:"vertices"`
	CacheSize int    `db:"cache_size" json:"cache_size"`
	QueueSize int    `db:"queue_size" json:"queue_size"`
	Computed  uint64 `db:"computed" json:"computed"`
	Hits      uint64 `db:"hits" json:"hits"`
	Misses    uint64 `db:"misses" json:"misses"`
	Evictions uint64 `db:"evictions" json:"evictions"`
}

// SaveStats appends one statistics sample.
func (db *DB) SaveStats(tick uint64, stats nav.Stats) error {
	_, err := db.conn.Exec(
		`INSERT INTO engine_stats
		(tick, vertices, cache_size, queue_size, computed, hits, misses, evictions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tick, stats.Vertices, stats.CacheSize, stats.QueueSize,
		stats.Computed, stats.Hits, stats.Misses, stats.Evictions,
	)
	if err != nil {
		return fmt.Errorf("insert stats at tick %d: %w", tick, err)
	}
	return nil
}

// LoadStatsHistory returns samples within [fromTick, toTick], most recent
// first, capped at limit rows.
func (db *DB) LoadStatsHistory(fromTick, toTick uint64, limit int) ([]StatsRow, error) {
	var rows []StatsRow
	err := db.conn.Select(&rows,
		`SELECT tick, vertices, cache_size, queue_size, computed, hits, misses, evictions
		FROM engine_stats WHERE tick >= ? AND tick <= ?
		ORDER BY tick DESC LIMIT ?`,
		fromTick, toTick, limit,
	)
	return rows, err
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}
