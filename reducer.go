package main

import "math"

// SessionState is the score/lives/combo state of one run. It is
// mutated only by the reducer methods below, always from inside the
// tick, and reset wholesale on restart.
type SessionState struct {
	Score       int
	Coins       int
	Lives       int
	Level       int
	Combo       int
	BestCombo   int
	Shield      int     // remaining shield charges
	DoublerLeft float64 // seconds of doubled score remaining
	GameOver    bool
}

// NewSessionState returns the starting state for a config
func NewSessionState(cfg *SimConfig) SessionState {
	return SessionState{
		Lives: cfg.StartLives,
		Level: 1,
	}
}

// comboMultiplier returns the score multiplier for the current streak
func (st *SessionState) comboMultiplier(cfg *SimConfig) float64 {
	return 1.0 + float64(st.Combo)*cfg.ComboStepBonus
}

// Apply consumes one tick's item events in order. Once lives hit zero
// the run is over and the rest of the batch is ignored; nothing mutates
// a finished run until an explicit reset.
func (st *SessionState) Apply(events []ItemEvent, cfg *SimConfig) {
	for _, ev := range events {
		if st.GameOver {
			return
		}
		if ev.Caught {
			st.applyCatch(ev.Item.Kind, cfg)
		} else {
			st.applyMiss(ev.Item.Kind)
		}
	}
}

func (st *SessionState) applyCatch(kind ItemKind, cfg *SimConfig) {
	def := GetKindDef(kind)

	switch def.Effect {
	case EffectHazard:
		if st.Shield > 0 {
			st.Shield--
		} else {
			st.Lives--
		}
		st.Combo = 0
		if st.Lives <= 0 {
			st.Lives = 0
			st.GameOver = true
		}
		return
	case EffectHeal:
		if st.Lives < cfg.MaxLives {
			st.Lives++
		}
		return
	case EffectShield:
		if st.Shield < cfg.MaxShield {
			st.Shield++
		}
		return
	case EffectDoubler:
		st.DoublerLeft += cfg.DoublerDuration
		return
	}

	mult := st.comboMultiplier(cfg)
	if st.DoublerLeft > 0 {
		mult *= 2
	}
	st.Score += int(math.Round(float64(def.Value) * mult))
	st.Coins += def.Coins
	st.Combo++
	if st.Combo > st.BestCombo {
		st.BestCombo = st.Combo
	}
}

func (st *SessionState) applyMiss(kind ItemKind) {
	// Letting a bomb fall through is the point of dodging; only a
	// dropped scoring item breaks the streak.
	if kind.IsScoring() {
		st.Combo = 0
	}
}

// AdvanceLevel raises the level by at most one step. It runs at the top
// of each tick, so a score jump past several thresholds still climbs
// one level per tick. Returns true when the level changed.
func (st *SessionState) AdvanceLevel(cfg *SimConfig) bool {
	if st.GameOver {
		return false
	}
	if st.Score >= st.Level*cfg.LevelThreshold {
		st.Level++
		return true
	}
	return false
}

// TickTimers counts down active power-up timers
func (st *SessionState) TickTimers(dt float64) {
	if st.DoublerLeft > 0 {
		st.DoublerLeft -= dt
		if st.DoublerLeft < 0 {
			st.DoublerLeft = 0
		}
	}
}
