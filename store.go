package main

import (
	"errors"
	"fmt"
)

// ErrNoFunds is returned when a purchase exceeds the coin balance
var ErrNoFunds = errors.New("not enough coins")

// Rarity levels for cosmetic items
const (
	RarityCommon    = 0
	RarityRare      = 1
	RarityEpic      = 2
	RarityLegendary = 3
)

// ItemType distinguishes cosmetic categories
const (
	ItemCart  = "cart"  // cart skin
	ItemTrail = "trail" // catch sparkle trail
)

// StoreItem represents a purchasable cosmetic, paid with run coins
type StoreItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Rarity  int    `json:"rarity"`
	Price   int    `json:"price"` // in coins
	Color1  string `json:"color1"`
	Color2  string `json:"color2"`
	Preview string `json:"preview"`
}

// StoreCatalog is the full list of purchasable items
var StoreCatalog = []StoreItem{
	// Cart skins - Common
	{ID: "cart_oak", Name: "Oak Cart", Type: ItemCart, Rarity: RarityCommon, Price: 50, Color1: "#8b5a2b", Color2: "#5c3a1a", Preview: "Plain oak mining cart"},
	{ID: "cart_iron", Name: "Iron Cart", Type: ItemCart, Rarity: RarityCommon, Price: 75, Color1: "#9aa0a6", Color2: "#5f6368", Preview: "Riveted iron plating"},
	{ID: "cart_copper", Name: "Copper Cart", Type: ItemCart, Rarity: RarityCommon, Price: 75, Color1: "#b87333", Color2: "#8a4f1d", Preview: "Polished copper panels"},

	// Cart skins - Rare
	{ID: "cart_silver", Name: "Silver Cart", Type: ItemCart, Rarity: RarityRare, Price: 200, Color1: "#c0c0c0", Color2: "#888888", Preview: "Gleaming silver trim"},
	{ID: "cart_emerald", Name: "Emerald Cart", Type: ItemCart, Rarity: RarityRare, Price: 250, Color1: "#2ecc71", Color2: "#145a32", Preview: "Studded with emeralds"},

	// Cart skins - Epic
	{ID: "cart_golden", Name: "Golden Cart", Type: ItemCart, Rarity: RarityEpic, Price: 600, Color1: "#ffcc00", Color2: "#aa8800", Preview: "Solid gold showpiece"},
	{ID: "cart_obsidian", Name: "Obsidian Cart", Type: ItemCart, Rarity: RarityEpic, Price: 600, Color1: "#1b1b2f", Color2: "#0b0b14", Preview: "Volcanic glass finish"},

	// Cart skins - Legendary
	{ID: "cart_rainbow", Name: "Rainbow Cart", Type: ItemCart, Rarity: RarityLegendary, Price: 1500, Color1: "#ff44ff", Color2: "#4444ff", Preview: "Shifts through the spectrum"},

	// Trails - Common
	{ID: "trail_dust", Name: "Gold Dust", Type: ItemTrail, Rarity: RarityCommon, Price: 60, Color1: "#ffd700", Color2: "#ffec8b", Preview: "A glitter of gold dust"},
	{ID: "trail_spark", Name: "Sparks", Type: ItemTrail, Rarity: RarityCommon, Price: 60, Color1: "#ff8833", Color2: "#ffcc66", Preview: "Crackling orange sparks"},

	// Trails - Rare
	{ID: "trail_clover", Name: "Clovers", Type: ItemTrail, Rarity: RarityRare, Price: 220, Color1: "#2ecc71", Color2: "#a9dfbf", Preview: "Lucky four-leaf clovers"},
	{ID: "trail_frost", Name: "Frost", Type: ItemTrail, Rarity: RarityRare, Price: 220, Color1: "#88ddff", Color2: "#ffffff", Preview: "Crystalline ice shimmer"},

	// Trails - Epic
	{ID: "trail_rainbow", Name: "Rainbow Arc", Type: ItemTrail, Rarity: RarityEpic, Price: 650, Color1: "#ff0000", Color2: "#0000ff", Preview: "A full rainbow in your wake"},

	// Trails - Legendary
	{ID: "trail_aurora", Name: "Aurora", Type: ItemTrail, Rarity: RarityLegendary, Price: 1400, Color1: "#00ff88", Color2: "#8844ff", Preview: "Northern lights ribbon"},
}

// StoreCatalogMap provides O(1) lookup by item ID
var StoreCatalogMap map[string]StoreItem

func init() {
	StoreCatalogMap = make(map[string]StoreItem, len(StoreCatalog))
	for _, item := range StoreCatalog {
		StoreCatalogMap[item.ID] = item
	}
}

// Purchase buys a catalog item with the player's persisted coin
// balance. Returns the remaining balance.
func Purchase(db *DB, an *Analytics, playerID int64, itemID string) (int, error) {
	item, ok := StoreCatalogMap[itemID]
	if !ok {
		return 0, fmt.Errorf("unknown item")
	}

	owned, err := db.HasItem(playerID, itemID)
	if err != nil {
		return 0, fmt.Errorf("store unavailable")
	}
	if owned {
		return 0, fmt.Errorf("already owned")
	}

	remaining, err := db.SpendCoins(playerID, item.Price)
	if err == ErrNoFunds {
		return remaining, ErrNoFunds
	}
	if err != nil {
		return 0, fmt.Errorf("store unavailable")
	}

	if err := db.AddInventory(playerID, itemID); err != nil {
		return remaining, fmt.Errorf("store unavailable")
	}

	if an != nil {
		an.Track(EvtPurchase, playerID, "", fmt.Sprintf(`{"item_id":%q,"price":%d}`, itemID, item.Price))
	}
	return remaining, nil
}
