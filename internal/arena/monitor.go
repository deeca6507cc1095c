package arena

import (
	"time"

	"prospector/internal/game"
)

// RunTurnClock drives the per-second turn timer until stop closes. Each
// tick broadcasts the remaining time for every playing game, warns the
// current player when the clock runs short, and forces the stalled
// player out when it reaches zero.
func (r *Registry) RunTurnClock(stop <-chan struct{}) {
	ticker := time.NewTicker(r.cfg.TimerTick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.tickTurnClocks()
		}
	}
}

func (r *Registry) tickTurnClocks() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, g := range r.games {
		if g.State() != game.StatePlaying {
			continue
		}
		left, ok := g.TimeLeft()
		if !ok {
			continue
		}
		current := g.CurrentPlayer()
		if current == nil {
			continue
		}

		secs := int(left.Seconds())
		r.broadcaster.Broadcast(id, "turn_timer", map[string]interface{}{
			"game_id":   id,
			"time_left": secs,
			"player_id": current.ID,
		})

		if left > 0 && left < r.cfg.WarningThreshold {
			r.broadcaster.SendToPlayer(id, current.ID, "turn_warning", map[string]interface{}{
				"game_id":   id,
				"time_left": secs,
				"player_id": current.ID,
			})
		}

		if left <= 0 {
			if g.CheckInactivity() {
				r.log.Info().
					Str("game_id", id).
					Str("player_id", current.ID).
					Msg("turn clock expired, player removed")
				delete(r.players, current.ID)
				r.settleLocked(g)
				r.broadcaster.Broadcast(id, "state", buildView(g))
				if len(g.Players()) == 0 {
					delete(r.games, id)
				}
			}
		}
	}
}

// RunInactivityMonitor sweeps for current-turn players who have gone
// quiet entirely, on a coarser tick than the turn clock. The two
// monitors overlap on purpose: both existed in the original server and
// both are kept as independent checks (see DESIGN.md).
func (r *Registry) RunInactivityMonitor(stop <-chan struct{}) {
	ticker := time.NewTicker(r.cfg.InactivityTick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.sweepInactive()
		}
	}
}

func (r *Registry) sweepInactive() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, g := range r.games {
		if g.State() != game.StatePlaying {
			continue
		}
		current := g.CurrentPlayer()
		if current == nil {
			continue
		}
		if now.Sub(current.LastActive) <= r.cfg.InactivityWindow {
			continue
		}

		r.log.Info().
			Str("game_id", id).
			Str("player_id", current.ID).
			Msg("player inactive, removing from game")
		g.RemovePlayer(current.ID)
		delete(r.players, current.ID)
		g.EndGame()
		r.settleLocked(g)
		r.broadcaster.Broadcast(id, "state", buildView(g))
		if len(g.Players()) == 0 {
			delete(r.games, id)
		}
	}
}
