// Package api provides the HTTP API for querying the pathfinding engine.
// GET endpoints are public (read-only diagnostics).
// POST endpoints require a bearer token (terrain edits, speed control).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/talgya/hexpath/internal/nav"
	"github.com/talgya/hexpath/internal/persistence"
	"github.com/talgya/hexpath/internal/sim"
	"github.com/talgya/hexpath/internal/world"
)

// Server serves engine diagnostics and terrain controls over HTTP.
type Server struct {
	Engine   *nav.Engine
	Map      *world.Map
	Loop     *sim.Loop
	Load     *sim.Load
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// Serializes terrain edits against each other.
	editMu sync.Mutex
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	// Path queries can trigger solver work; cap them per client.
	pathLimiter := NewRateLimiter(600, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/path", RateLimitMiddleware(pathLimiter, s.handlePath))
	mux.HandleFunc("/api/v1/passable", s.handlePassable)
	mux.HandleFunc("/api/v1/map", s.handleBulkMap)
	mux.HandleFunc("/api/v1/map/", s.handleHexDetail)
	mux.HandleFunc("/api/v1/stats/history", s.handleStatsHistory)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/terrain", s.adminOnly(s.handleTerrain))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no PATHSIM_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Engine.Snapshot()
	status := map[string]any{
		"tick":        s.Loop.Tick,
		"speed":       s.Loop.Speed,
		"running":     s.Loop.Running,
		"initialized": s.Engine.IsInitialized(),
		"hexes":       s.Map.HexCount(),
		"engine":      stats,
	}
	if s.Load != nil {
		status["load"] = map[string]any{
			"requesters": s.Load.Size(),
			"served":     s.Load.Served(),
			"abandoned":  s.Load.Abandoned(),
		}
	}
	writeJSON(w, status)
}

// handlePath answers GET /api/v1/path?from_q=&from_r=&to_q=&to_r=.
// An empty path with queued=true means the request was throttled and will
// resolve on a later tick; retry.
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	from, ok1 := coordParam(r, "from_q", "from_r")
	to, ok2 := coordParam(r, "to_q", "to_r")
	if !ok1 || !ok2 {
		http.Error(w, "usage: /api/v1/path?from_q=&from_r=&to_q=&to_r=", http.StatusBadRequest)
		return
	}

	queueBefore := s.Engine.QueueSize()
	path := s.Engine.RequestPath(from, to)
	queued := len(path) == 0 && s.Engine.QueueSize() > queueBefore

	writeJSON(w, map[string]any{
		"from":   from,
		"to":     to,
		"found":  len(path) > 0,
		"queued": queued,
		"length": len(path),
		"path":   path,
	})
}

func (s *Server) handlePassable(w http.ResponseWriter, r *http.Request) {
	coord, ok := coordParam(r, "q", "r")
	if !ok {
		http.Error(w, "usage: /api/v1/passable?q=&r=", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{
		"coord":    coord,
		"passable": s.Engine.IsPassable(coord),
	})
}

// handleBulkMap returns all hexes for a map renderer.
func (s *Server) handleBulkMap(w http.ResponseWriter, r *http.Request) {
	type hexEntry struct {
		Q         int     `json:"q"`
		R         int     `json:"r"`
		Terrain   uint8   `json:"terrain"`
		Elevation float64 `json:"elevation"`
		Passable  bool    `json:"passable"`
	}

	hexes := make([]hexEntry, 0, s.Map.HexCount())
	for _, h := range s.Map.Hexes {
		hexes = append(hexes, hexEntry{
			Q:         h.Coord.Q,
			R:         h.Coord.R,
			Terrain:   uint8(h.Terrain),
			Elevation: h.Elevation,
			Passable:  h.Terrain.Passable(),
		})
	}

	writeJSON(w, map[string]any{
		"radius": s.Map.Radius,
		"hexes":  hexes,
	})
}

// handleHexDetail answers GET /api/v1/map/:q/:r.
func (s *Server) handleHexDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	// /api/v1/map/:q/:r → parts[0]="" [1]="api" [2]="v1" [3]="map" [4]=q [5]=r
	if len(parts) < 6 {
		http.Error(w, "usage: /api/v1/map/:q/:r", http.StatusBadRequest)
		return
	}
	q, err1 := strconv.Atoi(parts[4])
	rr, err2 := strconv.Atoi(parts[5])
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}

	coord := world.HexCoord{Q: q, R: rr}
	hex := s.Map.Get(coord)
	if hex == nil {
		http.Error(w, "hex not found", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{
		"coord":     coord,
		"terrain":   world.TerrainName(hex.Terrain),
		"elevation": hex.Elevation,
		"passable":  s.Engine.IsPassable(coord),
	})
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	fromTick := uint64(0)
	toTick := uint64(1<<63 - 1) // Max int64 — avoids uint64 high-bit SQLite driver issue.
	limit := 30

	if f := r.URL.Query().Get("from"); f != "" {
		if v, err := strconv.ParseUint(f, 10, 64); err == nil {
			fromTick = v
		}
	}
	if t := r.URL.Query().Get("to"); t != "" {
		if v, err := strconv.ParseUint(t, 10, 64); err == nil {
			toTick = v
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}

	rows, err := s.DB.LoadStatsHistory(fromTick, toTick, limit)
	if err != nil {
		slog.Error("stats history query failed", "error", err)
		writeJSON(w, []persistence.StatsRow{})
		return
	}
	if rows == nil {
		rows = []persistence.StatsRow{}
	}
	writeJSON(w, rows)
}

// handleTerrain applies a terrain edit: the map changes, the engine gets
// the incremental update (targeted cache invalidation), and the edit is
// persisted so it survives restarts.
func (s *Server) handleTerrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Q       int   `json:"q"`
		R       int   `json:"r"`
		Terrain uint8 `json:"terrain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Terrain > uint8(world.TerrainOcean) {
		http.Error(w, "unknown terrain type", http.StatusBadRequest)
		return
	}

	coord := world.HexCoord{Q: req.Q, R: req.R}
	terrain := world.Terrain(req.Terrain)

	s.editMu.Lock()
	defer s.editMu.Unlock()

	if !s.Map.SetTerrain(coord, terrain) {
		http.Error(w, "hex not found", http.StatusNotFound)
		return
	}
	s.Engine.UpdateHex(coord)

	if s.DB != nil {
		if err := s.DB.SaveTerrainOverride(coord, terrain); err != nil {
			slog.Error("terrain override save failed", "error", err, "coord", coord)
		}
	}

	slog.Info("terrain edited", "q", coord.Q, "r", coord.R, "terrain", world.TerrainName(terrain))
	writeJSON(w, map[string]any{
		"coord":    coord,
		"terrain":  world.TerrainName(terrain),
		"passable": s.Engine.IsPassable(coord),
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Loop.Speed = req.Speed
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Loop.Speed})
}

func coordParam(r *http.Request, qKey, rKey string) (world.HexCoord, bool) {
	qStr := r.URL.Query().Get(qKey)
	rStr := r.URL.Query().Get(rKey)
	if qStr == "" || rStr == "" {
		return world.HexCoord{}, false
	}
	q, err1 := strconv.Atoi(qStr)
	rr, err2 := strconv.Atoi(rStr)
	if err1 != nil || err2 != nil {
		return world.HexCoord{}, false
	}
	return world.HexCoord{Q: q, R: rr}, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
