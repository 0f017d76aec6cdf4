package main

// ItemKind identifies what kind of thing is falling
type ItemKind int

const (
	KindCoin     ItemKind = 0
	KindGem      ItemKind = 1
	KindTreasure ItemKind = 2
	KindStar     ItemKind = 3
	KindBomb     ItemKind = 4
	KindHeart    ItemKind = 5
	KindShield   ItemKind = 6
	KindDoubler  ItemKind = 7
)

// ItemEffect is the non-score effect applied when an item is caught
type ItemEffect int

const (
	EffectNone    ItemEffect = 0
	EffectHazard  ItemEffect = 1 // costs a life unless a shield absorbs it
	EffectHeal    ItemEffect = 2 // +1 life, clamped
	EffectShield  ItemEffect = 3 // +1 shield charge
	EffectDoubler ItemEffect = 4 // score doubler for a fixed duration
)

// KindDef holds the stats for an item kind
type KindDef struct {
	Name        string
	Value       int     // base score when caught
	Coins       int     // currency yield when caught
	Weight      int     // spawn weight (relative)
	SpeedFactor float64 // fall speed multiplier (>1 falls faster)
	Effect      ItemEffect
}

// Kinds is the closed kind table, in stable spawn-draw order.
// Weights are relative; the spawner sums them at draw time.
var Kinds = [8]KindDef{
	{Name: "coin", Value: 10, Coins: 1, Weight: 38, SpeedFactor: 1.0, Effect: EffectNone},
	{Name: "gem", Value: 25, Coins: 3, Weight: 24, SpeedFactor: 1.2, Effect: EffectNone},
	{Name: "treasure", Value: 100, Coins: 10, Weight: 9, SpeedFactor: 1.4, Effect: EffectNone},
	{Name: "star", Value: 50, Coins: 5, Weight: 5, SpeedFactor: 1.6, Effect: EffectNone},
	{Name: "bomb", Value: 0, Coins: 0, Weight: 15, SpeedFactor: 1.1, Effect: EffectHazard},
	{Name: "heart", Value: 0, Coins: 0, Weight: 4, SpeedFactor: 1.0, Effect: EffectHeal},
	{Name: "shield", Value: 0, Coins: 0, Weight: 3, SpeedFactor: 1.0, Effect: EffectShield},
	{Name: "doubler", Value: 0, Coins: 0, Weight: 2, SpeedFactor: 1.3, Effect: EffectDoubler},
}

// KindByName provides O(1) lookup by kind name
var KindByName map[string]ItemKind

func init() {
	KindByName = make(map[string]ItemKind, len(Kinds))
	for i, def := range Kinds {
		KindByName[def.Name] = ItemKind(i)
	}
}

// GetKindDef returns the definition for a kind, falling back to coin
// for out-of-range values.
func GetKindDef(kind ItemKind) KindDef {
	if kind < 0 || int(kind) >= len(Kinds) {
		return Kinds[KindCoin]
	}
	return Kinds[kind]
}

// IsHazard reports whether the kind punishes catching it
func (k ItemKind) IsHazard() bool {
	return GetKindDef(k).Effect == EffectHazard
}

// IsScoring reports whether the kind carries a positive base value.
// Missing a scoring kind breaks the combo; missing anything else is free.
func (k ItemKind) IsScoring() bool {
	def := GetKindDef(k)
	return def.Value > 0 && def.Effect != EffectHazard
}
