package main

import "math"

// FallingItem is one falling collectible or hazard.
// X is fixed at spawn; the vertical position is derived from elapsed
// sim time, so pausing the clock freezes the item in place.
type FallingItem struct {
	ID           uint64
	Kind         ItemKind
	X            float64 // left edge
	SpawnedAt    float64 // sim-time seconds
	FallDuration float64 // seconds from top to field bottom
}

// YAt returns the top edge of the item at the given sim time.
// Items start just above the field and reach the bottom edge after
// FallDuration seconds.
func (it *FallingItem) YAt(now, fieldH, itemSize float64) float64 {
	elapsed := now - it.SpawnedAt
	if elapsed < 0 {
		elapsed = 0
	}
	return -itemSize + elapsed/it.FallDuration*(fieldH+itemSize)
}

// Malformed reports whether the item's state has been corrupted.
// Such items are quarantined by the evaluator instead of reaching
// the session state.
func (it *FallingItem) Malformed() bool {
	return math.IsNaN(it.X) || math.IsInf(it.X, 0) ||
		math.IsNaN(it.FallDuration) || it.FallDuration <= 0 ||
		math.IsNaN(it.SpawnedAt)
}

// ToState converts to protocol state
func (it *FallingItem) ToState(now, fieldH, itemSize float64) ItemState {
	return ItemState{
		ID:   it.ID,
		Kind: int(it.Kind),
		X:    round1(it.X),
		Y:    round1(it.YAt(now, fieldH, itemSize)),
	}
}
