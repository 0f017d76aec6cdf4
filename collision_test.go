package main

import (
	"math"
	"testing"
)

// itemAt builds an item whose top edge sits at y when evaluated at
// sim time now. With the default 700px field and 40px items the total
// travel is 740, so a 740s fall moves one pixel per second and the
// spawn time is just now-(y+40).
func itemAt(id uint64, kind ItemKind, x, y, now float64) *FallingItem {
	return &FallingItem{
		ID:           id,
		Kind:         kind,
		X:            x,
		SpawnedAt:    now - (y + 40),
		FallDuration: 740,
	}
}

func TestCartOverlap(t *testing.T) {
	// Cart spans [100, 180], margin 10 extends to [90, 190]
	tests := []struct {
		itemX float64
		want  bool
	}{
		{120, true},  // fully inside
		{60, true},   // right edge at 100, touches cart edge
		{51, true},   // right edge at 91, inside margin
		{49, false},  // right edge at 89, outside margin
		{180, true},  // left edge on cart right edge
		{190, true},  // left edge on margin boundary
		{191, false}, // past the margin
	}
	for _, tt := range tests {
		got := CartOverlap(tt.itemX, 40, 100, 80, 10)
		if got != tt.want {
			t.Errorf("CartOverlap(itemX=%.0f) = %v, want %v", tt.itemX, got, tt.want)
		}
	}
}

func TestEvaluateCatchInBand(t *testing.T) {
	cfg := DefaultConfig(ModeClassic)
	cart := &Cart{X: 100, Width: 80}

	// Bottom edge at 640, inside the capture band [630, 700]
	it := itemAt(1, KindCoin, 120, 600, 640)
	items := []*FallingItem{it}

	kept, events := EvaluateItems(items, 640, cart, &cfg)
	if len(kept) != 0 {
		t.Errorf("caught item should leave the active set, %d kept", len(kept))
	}
	if len(events) != 1 || !events[0].Caught {
		t.Fatalf("expected one caught event, got %+v", events)
	}
	if events[0].Item.ID != 1 {
		t.Errorf("event carries wrong item: %d", events[0].Item.ID)
	}
}

func TestEvaluateAboveBandKept(t *testing.T) {
	cfg := DefaultConfig(ModeClassic)
	cart := &Cart{X: 100, Width: 80}

	// Bottom edge at 500, well above the band, cart underneath
	it := itemAt(1, KindCoin, 120, 460, 500)
	kept, events := EvaluateItems([]*FallingItem{it}, 500, cart, &cfg)
	if len(events) != 0 {
		t.Errorf("item above the band produced events: %+v", events)
	}
	if len(kept) != 1 {
		t.Errorf("item above the band should stay active, %d kept", len(kept))
	}
}

func TestEvaluateMissPastBottom(t *testing.T) {
	cfg := DefaultConfig(ModeClassic)
	cart := &Cart{X: 300, Width: 80} // far from the item

	it := itemAt(1, KindCoin, 20, 700, 740)
	kept, events := EvaluateItems([]*FallingItem{it}, 740, cart, &cfg)
	if len(kept) != 0 {
		t.Errorf("missed item should leave the active set, %d kept", len(kept))
	}
	if len(events) != 1 || events[0].Caught {
		t.Fatalf("expected one missed event, got %+v", events)
	}
}

func TestEvaluateCatchWinsOverMiss(t *testing.T) {
	cfg := DefaultConfig(ModeClassic)
	cart := &Cart{X: 100, Width: 80}

	// A coarse tick put the item past the field bottom while the cart
	// is right under it. Catching must win.
	it := itemAt(1, KindCoin, 120, 705, 745)
	_, events := EvaluateItems([]*FallingItem{it}, 745, cart, &cfg)
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if !events[0].Caught {
		t.Error("overlapping item past the bottom should resolve as caught")
	}
}

func TestEvaluateMarginForgiveness(t *testing.T) {
	cfg := DefaultConfig(ModeClassic)
	cart := &Cart{X: 100, Width: 80}

	// Right edge at 91: misses the cart body but sits inside the margin
	near := itemAt(1, KindCoin, 51, 650, 690)
	_, events := EvaluateItems([]*FallingItem{near}, 690, cart, &cfg)
	if len(events) != 1 || !events[0].Caught {
		t.Errorf("item inside forgiveness margin should be caught, got %+v", events)
	}

	// Right edge at 89: outside the margin, still above the bottom
	far := itemAt(2, KindCoin, 49, 650, 690)
	kept, events := EvaluateItems([]*FallingItem{far}, 690, cart, &cfg)
	if len(events) != 0 {
		t.Errorf("item outside the margin produced events: %+v", events)
	}
	if len(kept) != 1 {
		t.Errorf("item outside the margin should stay active until the bottom")
	}
}

func TestEvaluateMalformedDroppedSilently(t *testing.T) {
	cfg := DefaultConfig(ModeClassic)
	cart := &Cart{X: 100, Width: 80}

	bad := &FallingItem{ID: 1, Kind: KindCoin, X: math.NaN(), SpawnedAt: 0, FallDuration: 740}
	good := itemAt(2, KindCoin, 120, 600, 640)

	kept, events := EvaluateItems([]*FallingItem{bad, good}, 640, cart, &cfg)
	if len(kept) != 0 {
		t.Errorf("expected empty active set, %d kept", len(kept))
	}
	// The corrupted item produces no event at all: it must not count
	// as a miss and break a streak.
	if len(events) != 1 {
		t.Fatalf("expected exactly one event from the good item, got %d", len(events))
	}
	if events[0].Item.ID != 2 || !events[0].Caught {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestEvaluateSpawnOrder(t *testing.T) {
	cfg := DefaultConfig(ModeClassic)
	cart := &Cart{X: 100, Width: 80}

	// Three items terminal in the same tick; events must come back in
	// spawn order regardless of position.
	items := []*FallingItem{
		itemAt(1, KindCoin, 120, 650, 740),
		itemAt(2, KindGem, 130, 640, 740),
		itemAt(3, KindBomb, 300, 700, 740),
	}
	_, events := EvaluateItems(items, 740, cart, &cfg)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Item.ID != uint64(i+1) {
			t.Errorf("event %d has item %d, want %d", i, ev.Item.ID, i+1)
		}
	}
}

func TestEvaluateCompactsInPlace(t *testing.T) {
	cfg := DefaultConfig(ModeClassic)
	cart := &Cart{X: 300, Width: 80}

	items := []*FallingItem{
		itemAt(1, KindCoin, 20, 700, 740), // missed
		itemAt(2, KindCoin, 20, 100, 740), // survives
	}
	kept, _ := EvaluateItems(items, 740, cart, &cfg)
	if len(kept) != 1 || kept[0].ID != 2 {
		t.Fatalf("unexpected survivors: %+v", kept)
	}
	// The trailing slot of the original backing array is cleared
	if items[1] != nil {
		t.Error("trailing pointer not cleared after compaction")
	}
}
