package main

import "testing"

func TestPurchase(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreateGuest("Miner_shop")
	db.SaveRun(&RunRecord{PlayerID: id, Score: 10, Coins: 100})

	left, err := Purchase(db, nil, id, "cart_oak") // 50 coins
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if left != 50 {
		t.Errorf("remaining = %d, want 50", left)
	}

	owned, _ := db.HasItem(id, "cart_oak")
	if !owned {
		t.Error("bought item not in inventory")
	}
}

func TestPurchaseAlreadyOwned(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreateGuest("Miner_shop")
	db.SaveRun(&RunRecord{PlayerID: id, Score: 10, Coins: 500})

	if _, err := Purchase(db, nil, id, "cart_oak"); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if _, err := Purchase(db, nil, id, "cart_oak"); err == nil {
		t.Error("second purchase of the same item succeeded")
	}

	// The failed re-buy must not debit coins
	save, _ := db.GetSave(id)
	if save.TotalCoins != 450 {
		t.Errorf("coins = %d, want 450", save.TotalCoins)
	}
}

func TestPurchaseNoFunds(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreateGuest("Miner_broke")
	db.SaveRun(&RunRecord{PlayerID: id, Score: 10, Coins: 10})

	if _, err := Purchase(db, nil, id, "cart_golden"); err != ErrNoFunds {
		t.Errorf("expected ErrNoFunds, got %v", err)
	}
	save, _ := db.GetSave(id)
	if save.TotalCoins != 10 {
		t.Errorf("failed buy changed the balance: %d", save.TotalCoins)
	}
}

func TestPurchaseUnknownItem(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreateGuest("Miner_shop")
	if _, err := Purchase(db, nil, id, "cart_nonexistent"); err == nil {
		t.Error("unknown item purchasable")
	}
}

func TestStoreCatalogIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, item := range StoreCatalog {
		if seen[item.ID] {
			t.Errorf("duplicate catalog id %s", item.ID)
		}
		seen[item.ID] = true
		if item.Price <= 0 {
			t.Errorf("item %s has non-positive price", item.ID)
		}
		if item.Type != ItemCart && item.Type != ItemTrail {
			t.Errorf("item %s has unknown type %s", item.ID, item.Type)
		}
	}
	if len(StoreCatalogMap) != len(StoreCatalog) {
		t.Error("catalog map out of sync with catalog")
	}
}
