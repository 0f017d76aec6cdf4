package main

// AchievementDef describes one unlockable achievement
type AchievementDef struct {
	ID          string
	Name        string
	Description string
}

var Achievements = []AchievementDef{
	{"first_pot", "First Pot", "Finish your first run"},
	{"century", "Century", "Score 100 in a single run"},
	{"high_roller", "High Roller", "Score 1000 in a single run"},
	{"hoarder", "Hoarder", "Collect 500 lifetime coins"},
	{"dragon_hoard", "Dragon Hoard", "Collect 5000 lifetime coins"},
	{"streak_10", "On a Streak", "Reach a 10x combo"},
	{"streak_25", "Unstoppable", "Reach a 25x combo"},
	{"deep_miner", "Deep Miner", "Reach level 10 in a single run"},
	{"regular", "Regular", "Finish 25 runs"},
	{"marathon", "Marathon", "Play for 1 hour total"},
}

// CheckAchievements unlocks any achievements the finished run earned.
// Single-run thresholds use the run record; lifetime thresholds use the
// freshly updated save. Returns the newly unlocked definitions.
func CheckAchievements(db *DB, an *Analytics, rec *RunRecord) []AchievementDef {
	if db == nil || rec == nil {
		return nil
	}

	save, err := db.GetSave(rec.PlayerID)
	if err != nil || save == nil {
		return nil
	}

	existing, err := db.GetAchievements(rec.PlayerID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	earned := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_pot":
			return save.Runs >= 1
		case "century":
			return rec.Score >= 100
		case "high_roller":
			return rec.Score >= 1000
		case "hoarder":
			return save.TotalCoins >= 500
		case "dragon_hoard":
			return save.TotalCoins >= 5000
		case "streak_10":
			return rec.BestCombo >= 10
		case "streak_25":
			return rec.BestCombo >= 25
		case "deep_miner":
			return rec.Level >= 10
		case "regular":
			return save.Runs >= 25
		case "marathon":
			return save.Playtime >= 3600
		}
		return false
	}

	var unlocked []AchievementDef
	for _, def := range Achievements {
		if earned(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(rec.PlayerID, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
				if an != nil {
					an.Track(EvtAchievement, rec.PlayerID, "", `{"id":"`+def.ID+`"}`)
				}
			}
		}
	}
	return unlocked
}
