package main

import "math/rand"

// Spawner produces falling items on a level-scaled interval.
// It owns the run's RNG so a fixed seed reproduces the same item
// sequence exactly.
type Spawner struct {
	cfg    *SimConfig
	rng    *rand.Rand
	nextID uint64
	dueAt  float64 // sim time of the next spawn
}

// NewSpawner creates a spawner backed by a seeded RNG
func NewSpawner(cfg *SimConfig, seed int64) *Spawner {
	s := &Spawner{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
	s.dueAt = cfg.BaseSpawnInterval
	return s
}

// PickKind selects a kind by weighted draw: a uniform value in
// [0, totalWeight) walks the table in stable order until the remainder
// goes non-positive.
func (s *Spawner) PickKind() ItemKind {
	total := 0
	for _, def := range Kinds {
		total += def.Weight
	}
	r := s.rng.Intn(total)
	for i, def := range Kinds {
		r -= def.Weight
		if r < 0 {
			return ItemKind(i)
		}
	}
	return KindCoin // unreachable with positive weights
}

// SpawnDue returns a new item when the spawn interval has elapsed,
// or nil. At most one item spawns per call; the interval shrinks with
// level but never below the configured minimum.
func (s *Spawner) SpawnDue(now float64, level int) *FallingItem {
	if now < s.dueAt {
		return nil
	}
	s.dueAt = now + s.cfg.spawnIntervalAt(level)
	return s.spawn(now, level)
}

func (s *Spawner) spawn(now float64, level int) *FallingItem {
	kind := s.PickKind()
	def := GetKindDef(kind)

	// Uniform X over the playable span. A field narrower than an item
	// degenerates to spawning at the left edge.
	span := s.cfg.FieldWidth - s.cfg.ItemSize
	x := 0.0
	if span > 0 {
		x = s.rng.Float64() * span
	}

	s.nextID++
	return &FallingItem{
		ID:           s.nextID,
		Kind:         kind,
		X:            x,
		SpawnedAt:    now,
		FallDuration: s.cfg.fallDurationAt(level) / def.SpeedFactor,
	}
}
