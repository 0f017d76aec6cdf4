package main

// GameMode selects the starting lives and difficulty ramp
type GameMode int

const (
	ModeClassic GameMode = 0
	ModeRelaxed GameMode = 1
)

// SimConfig holds all tunables for one run of the catch loop
type SimConfig struct {
	Mode GameMode

	FieldWidth  float64
	FieldHeight float64
	ItemSize    float64
	CartWidth   float64
	CartStep    float64 // distance per discrete left/right step

	CaptureBand float64 // vertical band above the field bottom where catches happen
	CatchMargin float64 // forgiveness added to each side of the cart

	BaseSpawnInterval  float64 // seconds between spawns at level 1
	MinSpawnInterval   float64
	SpawnLevelShrink   float64 // interval multiplier per level above 1
	BaseFallDuration   float64 // seconds top-to-bottom at level 1, speed factor 1
	MinFallDuration    float64
	FallLevelShrink    float64 // fall duration multiplier per level above 1

	LevelThreshold  int     // score per level
	ComboStepBonus  float64 // multiplier bonus per combo step
	StartLives      int
	MaxLives        int
	MaxShield       int     // max stacked shield charges
	DoublerDuration float64 // seconds of doubled score per doubler caught
}

const (
	minFieldWidth  = 120.0
	minFieldHeight = 160.0
)

// DefaultConfig returns the config for the given mode
func DefaultConfig(mode GameMode) SimConfig {
	cfg := SimConfig{
		Mode:              ModeClassic,
		FieldWidth:        400,
		FieldHeight:       700,
		ItemSize:          40,
		CartWidth:         80,
		CartStep:          40,
		CaptureBand:       70,
		CatchMargin:       10,
		BaseSpawnInterval: 1.2,
		MinSpawnInterval:  0.35,
		SpawnLevelShrink:  0.92,
		BaseFallDuration:  4.0,
		MinFallDuration:   1.2,
		FallLevelShrink:   0.93,
		LevelThreshold:    100,
		ComboStepBonus:    0.1,
		StartLives:        3,
		MaxLives:          5,
		MaxShield:         3,
		DoublerDuration:   8.0,
	}
	if mode == ModeRelaxed {
		cfg.Mode = ModeRelaxed
		cfg.StartLives = 5
		cfg.MaxLives = 7
		cfg.SpawnLevelShrink = 0.96
		cfg.FallLevelShrink = 0.97
		cfg.MinSpawnInterval = 0.6
		cfg.MinFallDuration = 1.8
	}
	return cfg
}

// sanitize clamps invalid dimensions to safe minimums so a bad config
// degrades instead of crashing the spawner.
func (c *SimConfig) sanitize() {
	if c.FieldWidth < minFieldWidth {
		c.FieldWidth = minFieldWidth
	}
	if c.FieldHeight < minFieldHeight {
		c.FieldHeight = minFieldHeight
	}
	if c.ItemSize <= 0 {
		c.ItemSize = 40
	}
	if c.CartWidth <= 0 {
		c.CartWidth = 80
	}
	if c.CartWidth > c.FieldWidth {
		c.CartWidth = c.FieldWidth
	}
	if c.BaseSpawnInterval <= 0 {
		c.BaseSpawnInterval = 1.2
	}
	if c.MinSpawnInterval <= 0 {
		c.MinSpawnInterval = 0.35
	}
	if c.BaseFallDuration <= 0 {
		c.BaseFallDuration = 4.0
	}
	if c.MinFallDuration <= 0 {
		c.MinFallDuration = 1.2
	}
	if c.LevelThreshold <= 0 {
		c.LevelThreshold = 100
	}
	if c.StartLives <= 0 {
		c.StartLives = 3
	}
	if c.MaxLives < c.StartLives {
		c.MaxLives = c.StartLives
	}
}

// spawnIntervalAt returns the seconds between spawns at the given level
func (c *SimConfig) spawnIntervalAt(level int) float64 {
	iv := c.BaseSpawnInterval
	for i := 1; i < level; i++ {
		iv *= c.SpawnLevelShrink
	}
	if iv < c.MinSpawnInterval {
		iv = c.MinSpawnInterval
	}
	return iv
}

// fallDurationAt returns the top-to-bottom duration at the given level,
// before the per-kind speed factor is applied.
func (c *SimConfig) fallDurationAt(level int) float64 {
	d := c.BaseFallDuration
	for i := 1; i < level; i++ {
		d *= c.FallLevelShrink
	}
	if d < c.MinFallDuration {
		d = c.MinFallDuration
	}
	return d
}
