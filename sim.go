package main

// Simulation is one run of the catch loop: spawner, active item set,
// cart and session state under a single owner. It has no locking of
// its own; the Game wrapper serializes all access on its tick.
//
// Advancing is driven by fixed dt steps of sim time, so a given seed
// and input sequence replays to the identical state.
type Simulation struct {
	cfg     SimConfig
	seed    int64
	spawner *Spawner
	items   []*FallingItem
	cart    Cart
	state   SessionState
	now     float64 // accumulated sim seconds, frozen while paused
	tick    uint64
	paused  bool
}

// NewSimulation creates a run with a sanitized config and a seeded RNG
func NewSimulation(cfg SimConfig, seed int64) *Simulation {
	cfg.sanitize()
	return &Simulation{
		cfg:     cfg,
		seed:    seed,
		spawner: NewSpawner(&cfg, seed),
		cart:    NewCart(&cfg),
		state:   NewSessionState(&cfg),
	}
}

// Tick advances the run by dt seconds of sim time and returns the
// tick's terminal item events plus whether the level went up. A paused
// or finished run does not move: no spawns, no motion, no reduction.
func (s *Simulation) Tick(dt float64) ([]ItemEvent, bool) {
	if s.paused || s.state.GameOver {
		return nil, false
	}
	s.tick++
	s.now += dt

	// Level-up from the previous tick's score, one step at most
	leveled := s.state.AdvanceLevel(&s.cfg)
	s.state.TickTimers(dt)

	if it := s.spawner.SpawnDue(s.now, s.state.Level); it != nil {
		s.items = append(s.items, it)
	}

	var events []ItemEvent
	s.items, events = EvaluateItems(s.items, s.now, &s.cart, &s.cfg)
	s.state.Apply(events, &s.cfg)
	return events, leveled
}

// Pause freezes the sim clock. Idempotent: pausing a paused run is a no-op.
func (s *Simulation) Pause() {
	s.paused = true
}

// Resume unfreezes the sim clock without catching up missed time.
// Idempotent like Pause.
func (s *Simulation) Resume() {
	s.paused = false
}

// Paused reports whether the run is paused
func (s *Simulation) Paused() bool {
	return s.paused
}

// Over reports whether the run has ended
func (s *Simulation) Over() bool {
	return s.state.GameOver
}

// State returns a copy of the session state
func (s *Simulation) State() SessionState {
	return s.state
}

// MoveCartTo sets the cart's left edge from an absolute drag position
func (s *Simulation) MoveCartTo(x float64) {
	s.cart.MoveTo(x, s.cfg.FieldWidth)
}

// MoveCartBy shifts the cart by a pointer delta
func (s *Simulation) MoveCartBy(dx float64) {
	s.cart.MoveBy(dx, s.cfg.FieldWidth)
}

// StepCart moves the cart one discrete step; dir < 0 is left, > 0 right
func (s *Simulation) StepCart(dir int) {
	s.cart.Step(dir, s.cfg.CartStep, s.cfg.FieldWidth)
}

// Reset starts the run over with a fresh seed. The config is kept.
func (s *Simulation) Reset(seed int64) {
	s.seed = seed
	s.spawner = NewSpawner(&s.cfg, seed)
	s.items = nil
	s.cart = NewCart(&s.cfg)
	s.state = NewSessionState(&s.cfg)
	s.now = 0
	s.tick = 0
	s.paused = false
}

// Snapshot builds the per-tick render state consumed by clients
func (s *Simulation) Snapshot() RunState {
	rs := RunState{
		Items:   make([]ItemState, 0, len(s.items)),
		CartX:   round1(s.cart.X),
		CartW:   s.cart.Width,
		Score:   s.state.Score,
		Coins:   s.state.Coins,
		Lives:   s.state.Lives,
		Level:   s.state.Level,
		Combo:   s.state.Combo,
		Shield:  s.state.Shield,
		Doubler: round1(s.state.DoublerLeft),
		Tick:    s.tick,
		Paused:  s.paused,
		Over:    s.state.GameOver,
	}
	for _, it := range s.items {
		rs.Items = append(rs.Items, it.ToState(s.now, s.cfg.FieldHeight, s.cfg.ItemSize))
	}
	return rs
}
