package main

import "log"

// ItemEvent is the terminal outcome of one falling item. Each item
// produces exactly one event: caught in the capture band, or missed
// past the bottom of the field.
type ItemEvent struct {
	Item   FallingItem
	Caught bool
}

// CartOverlap checks inclusive horizontal overlap between an item span
// and the cart span widened by the forgiveness margin.
func CartOverlap(itemX, itemW, cartX, cartW, margin float64) bool {
	return itemX+itemW >= cartX-margin && itemX <= cartX+cartW+margin
}

// EvaluateItems advances every active item to the given sim time and
// resolves catches and misses. Items are processed in spawn order
// (ascending ID, which is slice order). Survivors are compacted in
// place; terminal events come back in processing order.
//
// An item that is both inside the capture band and past the field
// bottom in the same tick resolves as caught when the cart overlaps:
// catching wins over falling through a coarse tick.
func EvaluateItems(items []*FallingItem, now float64, cart *Cart, cfg *SimConfig) ([]*FallingItem, []ItemEvent) {
	captureTop := cfg.FieldHeight - cfg.CaptureBand
	var events []ItemEvent

	kept := items[:0]
	for _, it := range items {
		if it.Malformed() {
			// Quarantine corrupted state before it can reach the
			// session. No event: a synthetic miss would break the combo.
			log.Printf("sim: dropping malformed item id=%d kind=%d", it.ID, it.Kind)
			continue
		}

		y := it.YAt(now, cfg.FieldHeight, cfg.ItemSize)
		bottom := y + cfg.ItemSize

		if bottom >= captureTop && CartOverlap(it.X, cfg.ItemSize, cart.X, cart.Width, cfg.CatchMargin) {
			events = append(events, ItemEvent{Item: *it, Caught: true})
			continue
		}
		if y >= cfg.FieldHeight {
			events = append(events, ItemEvent{Item: *it, Caught: false})
			continue
		}
		kept = append(kept, it)
	}
	// Clear trailing pointers so removed items can be collected
	for i := len(kept); i < len(items); i++ {
		items[i] = nil
	}
	return kept, events
}
