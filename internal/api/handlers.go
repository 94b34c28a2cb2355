package api

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"ember-arena/internal/game"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps request bodies; every command fits in far less.
const maxBodyBytes = 16 << 10

var errBadBody = errors.New("invalid request")

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.GetSnapshot()
	if snap == nil {
		writeJSON(w, game.GameSnapshot{Combatants: []game.CombatantSnapshot{}})
		return
	}
	writeJSON(w, snap.Clone())
}

func (h *routerHandlers) handleGetCombatant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		writeError(w, "Invalid combatant id", http.StatusBadRequest)
		return
	}
	snap := h.engine.GetSnapshot()
	if snap == nil {
		writeError(w, "Combatant not found", http.StatusNotFound)
		return
	}
	c, ok := snap.Find(game.CombatantID(id))
	if !ok {
		writeError(w, "Combatant not found", http.StatusNotFound)
		return
	}
	writeJSON(w, c)
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"engine":   h.engine.Stats(),
		"eventLog": h.engine.GetEventLogStats(),
	})
}

func (h *routerHandlers) handleGetAttacks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, game.GetAllWeapons())
}

type profileSummary struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	MaxHealth   float64 `json:"maxHealth"`
	Phases      int     `json:"phases"`
	Boss        bool    `json:"boss"`
	CanFly      bool    `json:"canFly"`
}

func (h *routerHandlers) handleGetProfiles(w http.ResponseWriter, r *http.Request) {
	names := game.ProfileNames()
	out := make([]profileSummary, 0, len(names))
	for _, n := range names {
		p, _ := game.GetProfile(n)
		out = append(out, profileSummary{
			Name:        p.Name,
			DisplayName: p.DisplayName,
			MaxHealth:   p.MaxHealth,
			Phases:      len(p.Phases),
			Boss:        p.Boss,
			CanFly:      p.CanFly,
		})
	}
	writeJSON(w, out)
}

type spawnPlayerRequest struct {
	game.Loadout
	X       float64 `json:"x"`
	Z       float64 `json:"z"`
	Control *bool   `json:"control"` // Defaults to true
}

func (h *routerHandlers) handleSpawnPlayer(w http.ResponseWriter, r *http.Request) {
	var req spawnPlayerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "Name is required", http.StatusBadRequest)
		return
	}
	if !finite(req.X, req.Z) {
		writeError(w, "Position must be finite", http.StatusBadRequest)
		return
	}

	lo := game.DefaultLoadout(req.Name)
	overlay(&lo.MaxHealth, req.MaxHealth)
	overlay(&lo.MaxStamina, req.MaxStamina)
	overlay(&lo.MaxMana, req.MaxMana)
	overlay(&lo.Strength, req.Strength)
	overlay(&lo.Defense, req.Defense)
	if req.WeaponID != "" {
		lo.WeaponID = req.WeaponID
	}

	id, ok := h.engine.QueueSpawnPlayer(lo, game.Vec3{X: req.X, Z: req.Z})
	if !ok {
		writeError(w, "Command inbox full", http.StatusServiceUnavailable)
		return
	}
	if req.Control == nil || *req.Control {
		h.engine.SetControlled(id)
	}

	log.Printf("🧍 Player %q queued as #%d", lo.Name, id)
	writeJSON(w, map[string]interface{}{"id": id, "loadout": lo})
}

type spawnEnemyRequest struct {
	Profile string  `json:"profile"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

func (h *routerHandlers) handleSpawnEnemy(w http.ResponseWriter, r *http.Request) {
	var req spawnEnemyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if _, ok := game.GetProfile(req.Profile); !ok {
		writeError(w, "Unknown profile", http.StatusBadRequest)
		return
	}
	if !finite(req.X, req.Y, req.Z) {
		writeError(w, "Position must be finite", http.StatusBadRequest)
		return
	}

	id, err := h.engine.QueueSpawnEnemy(req.Profile, game.Vec3{X: req.X, Y: req.Y, Z: req.Z})
	if err != nil {
		writeError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]interface{}{"id": id, "profile": req.Profile})
}

type intentRequest struct {
	ID     game.CombatantID `json:"id"`
	Intent game.Intent      `json:"intent"`
}

func (h *routerHandlers) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.ID == 0 {
		writeError(w, "Combatant id is required", http.StatusBadRequest)
		return
	}
	if !finite(req.Intent.Move.X, req.Intent.Move.Y, req.Intent.Move.Z) {
		writeError(w, "Move must be finite", http.StatusBadRequest)
		return
	}
	if !h.engine.SubmitIntent(req.ID, req.Intent) {
		writeError(w, "Command inbox full", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]bool{"queued": true})
}

func (h *routerHandlers) handleHeal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     game.CombatantID `json:"id"`
		Amount float64          `json:"amount"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	amount := req.Amount
	if amount <= 0 || !finite(amount) {
		amount = 50
	}
	writeJSON(w, map[string]bool{"success": h.engine.Heal(req.ID, amount)})
}

// Helper functions (package-level for reuse)

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadBody
	}
	return nil
}

func overlay(dst *float64, v float64) {
	if v > 0 && finite(v) {
		*dst = v
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
