// Command pathsim runs the hex pathfinding engine against a generated
// world: a tick loop drives synthetic path load through the throttler
// while the HTTP API exposes diagnostics and terrain editing.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/hexpath/internal/api"
	"github.com/talgya/hexpath/internal/nav"
	"github.com/talgya/hexpath/internal/persistence"
	"github.com/talgya/hexpath/internal/sim"
	"github.com/talgya/hexpath/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	seed := envInt64("PATHSIM_SEED", 42)
	dbPath := envString("PATHSIM_DB", "data/pathsim.db")
	apiPort := int(envInt64("PATHSIM_PORT", 8080))
	requesters := int(envInt64("PATHSIM_REQUESTERS", 120))
	adminKey := os.Getenv("PATHSIM_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("PATHSIM_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	runID := uuid.NewString()
	if err := db.SaveMeta("run_id", runID); err != nil {
		slog.Error("failed to record run id", "error", err)
	}
	if err := db.SaveMeta("seed", strconv.FormatInt(seed, 10)); err != nil {
		slog.Error("failed to record seed", "error", err)
	}

	// ── World Map (always regenerated — deterministic from seed) ──────
	slog.Info("generating world map...")
	cfg := world.DefaultGenConfig()
	cfg.Seed = seed
	worldMap := world.Generate(cfg)

	// Replay persisted terrain edits on top of the generated map.
	if _, err := db.ApplyTerrainOverrides(worldMap); err != nil {
		slog.Error("failed to apply terrain overrides", "error", err)
	}

	passable := 0
	for t, c := range world.TerrainCounts(worldMap) {
		if t.Passable() {
			passable += c
		}
		slog.Info("terrain", "type", world.TerrainName(t), "count", c)
	}

	// ── Engine ────────────────────────────────────────────────────────
	engine := nav.NewEngine()
	engine.OnGraphRebuilt = func(vertices int) {
		slog.Info("graph rebuilt", "vertices", vertices)
	}
	engine.OnCacheInvalidated = func(coord world.HexCoord, dropped int) {
		slog.Info("cache invalidated", "q", coord.Q, "r", coord.R, "dropped", dropped)
	}
	engine.OnRequestQueued = func(from, to world.HexCoord) {
		slog.Debug("request queued",
			"from_q", from.Q, "from_r", from.R, "to_q", to.Q, "to_r", to.R)
	}
	engine.Initialize(worldMap)

	// ── Synthetic load ────────────────────────────────────────────────
	load := sim.NewLoad(engine, worldMap, requesters, seed+1)
	if load == nil {
		slog.Error("not enough passable terrain for requesters")
		os.Exit(1)
	}

	slog.Info("engine ready",
		"run_id", runID,
		"hexes", humanize.Comma(int64(worldMap.HexCount())),
		"passable", humanize.Comma(int64(passable)),
		"requesters", load.Size(),
	)

	// ── Tick loop ─────────────────────────────────────────────────────
	loop := sim.NewLoop()
	loop.OnTick = func(tick uint64) {
		engine.AdvanceTick()
		load.Tick()
	}
	loop.OnReport = func(tick uint64) {
		stats := engine.Snapshot()
		if err := db.SaveStats(tick, stats); err != nil {
			slog.Error("stats save failed", "error", err)
		}
		slog.Info("engine report",
			"tick", tick,
			"cache_size", stats.CacheSize,
			"queue_size", stats.QueueSize,
			"computed", humanize.Comma(int64(stats.Computed)),
			"hits", humanize.Comma(int64(stats.Hits)),
			"misses", humanize.Comma(int64(stats.Misses)),
			"evictions", humanize.Comma(int64(stats.Evictions)),
			"served", humanize.Comma(int64(load.Served())),
		)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Engine:   engine,
		Map:      worldMap,
		Loop:     loop,
		Load:     load,
		DB:       db,
		Port:     apiPort,
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		loop.Stop()
	}()

	loop.Run()

	// Final stats sample on shutdown.
	if err := db.SaveStats(loop.Tick, engine.Snapshot()); err != nil {
		slog.Error("final stats save failed", "error", err)
	}
	slog.Info("shutdown complete", "tick", loop.Tick)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
