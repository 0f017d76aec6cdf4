package main

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PlayerRow represents a player record in the database
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	IsGuest   bool
	CreatedAt time.Time
}

// SaveRow is a player's durable progress: best score, lifetime coin
// balance and aggregate run stats. A missing row means "no record yet".
type SaveRow struct {
	PlayerID   int64
	BestScore  int
	TotalCoins int
	Runs       int
	BestCombo  int
	Playtime   float64 // seconds
}

// RunRecord is one completed run, checkpointed at game over
type RunRecord struct {
	PlayerID  int64
	Score     int
	Coins     int
	Level     int
	BestCombo int
	Duration  float64
	Mode      int
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		is_guest INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS saves (
		player_id INTEGER PRIMARY KEY REFERENCES players(id),
		best_score INTEGER NOT NULL DEFAULT 0,
		total_coins INTEGER NOT NULL DEFAULT 0,
		runs INTEGER NOT NULL DEFAULT 0,
		best_combo INTEGER NOT NULL DEFAULT 0,
		playtime REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id INTEGER NOT NULL REFERENCES players(id),
		score INTEGER NOT NULL DEFAULT 0,
		coins INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1,
		best_combo INTEGER NOT NULL DEFAULT 0,
		duration REAL NOT NULL DEFAULT 0,
		mode INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS inventory (
		player_id INTEGER NOT NULL REFERENCES players(id),
		item_id TEXT NOT NULL,
		bought_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (player_id, item_id)
	);

	CREATE TABLE IF NOT EXISTS achievements (
		player_id INTEGER NOT NULL REFERENCES players(id),
		achievement_id TEXT NOT NULL,
		unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (player_id, achievement_id)
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player_id INTEGER,
		session_id TEXT,
		data TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player_id);
	CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);
	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// CreatePlayer creates a new player account (returns player ID)
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	// Create save row
	_, err = db.conn.Exec("INSERT INTO saves (player_id) VALUES (?)", id)
	return id, err
}

// CreateGuest creates a guest player (no password)
func (db *DB) CreateGuest(username string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, is_guest) VALUES (?, 1)",
		username,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec("INSERT INTO saves (player_id) VALUES (?)", id)
	return id, err
}

// GetPlayerByUsername returns a player by username, nil when absent
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, is_guest, created_at FROM players WHERE username = ?",
		username,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.IsGuest, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetPlayerByID returns a player by ID, nil when absent
func (db *DB) GetPlayerByID(id int64) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, is_guest, created_at FROM players WHERE id = ?",
		id,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.IsGuest, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// GetSave returns a player's save, nil when no record exists yet
func (db *DB) GetSave(playerID int64) (*SaveRow, error) {
	row := db.conn.QueryRow(
		"SELECT player_id, best_score, total_coins, runs, best_combo, playtime FROM saves WHERE player_id = ?",
		playerID,
	)
	s := &SaveRow{}
	err := row.Scan(&s.PlayerID, &s.BestScore, &s.TotalCoins, &s.Runs, &s.BestCombo, &s.Playtime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// SaveRun records a completed run and folds it into the player's save.
// The best score is only overwritten when exceeded. Returns whether
// this run set a new best, and the best score on record afterwards.
func (db *DB) SaveRun(rec *RunRecord) (bool, int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback()

	var prevBest int
	err = tx.QueryRow("SELECT best_score FROM saves WHERE player_id = ?", rec.PlayerID).Scan(&prevBest)
	if err == sql.ErrNoRows {
		if _, err = tx.Exec("INSERT INTO saves (player_id) VALUES (?)", rec.PlayerID); err != nil {
			return false, 0, err
		}
		prevBest = 0
	} else if err != nil {
		return false, 0, err
	}

	_, err = tx.Exec(
		`INSERT INTO runs (player_id, score, coins, level, best_combo, duration, mode)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.PlayerID, rec.Score, rec.Coins, rec.Level, rec.BestCombo, rec.Duration, rec.Mode,
	)
	if err != nil {
		return false, 0, err
	}

	_, err = tx.Exec(`
		UPDATE saves SET
			best_score = MAX(best_score, ?),
			total_coins = total_coins + ?,
			runs = runs + 1,
			best_combo = MAX(best_combo, ?),
			playtime = playtime + ?
		WHERE player_id = ?`,
		rec.Score, rec.Coins, rec.BestCombo, rec.Duration, rec.PlayerID,
	)
	if err != nil {
		return false, 0, err
	}

	if err := tx.Commit(); err != nil {
		return false, 0, err
	}

	newBest := rec.Score > prevBest
	best := prevBest
	if newBest {
		best = rec.Score
	}
	return newBest, best, nil
}

// SpendCoins debits a purchase from the lifetime balance. Fails without
// touching the row when the balance is insufficient; returns what's left.
func (db *DB) SpendCoins(playerID int64, cost int) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var balance int
	err = tx.QueryRow("SELECT total_coins FROM saves WHERE player_id = ?", playerID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrNoFunds
	}
	if err != nil {
		return 0, err
	}
	if balance < cost {
		return balance, ErrNoFunds
	}
	if _, err := tx.Exec("UPDATE saves SET total_coins = total_coins - ? WHERE player_id = ?", cost, playerID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return balance - cost, nil
}

// AddInventory records a purchased item; duplicate buys are rejected
func (db *DB) AddInventory(playerID int64, itemID string) error {
	_, err := db.conn.Exec(
		"INSERT INTO inventory (player_id, item_id) VALUES (?, ?)",
		playerID, itemID,
	)
	return err
}

// HasItem checks whether the player already owns an item
func (db *DB) HasItem(playerID int64, itemID string) (bool, error) {
	var count int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM inventory WHERE player_id = ? AND item_id = ?",
		playerID, itemID,
	).Scan(&count)
	return count > 0, err
}

// GetInventory returns the item ids the player owns
func (db *DB) GetInventory(playerID int64) ([]string, error) {
	rows, err := db.conn.Query(
		"SELECT item_id FROM inventory WHERE player_id = ? ORDER BY bought_at",
		playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, rows.Err()
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	BestScore int    `json:"best_score"`
	Coins     int    `json:"coins"`
	BestCombo int    `json:"best_combo"`
	Runs      int    `json:"runs"`
}

// GetLeaderboard returns top players sorted by the given field.
// Guests are excluded.
func (db *DB) GetLeaderboard(orderBy string, limit int) ([]LeaderboardEntry, error) {
	// Whitelist valid order columns
	validCols := map[string]string{
		"best":  "s.best_score",
		"coins": "s.total_coins",
		"combo": "s.best_combo",
		"runs":  "s.runs",
	}
	col, ok := validCols[orderBy]
	if !ok {
		col = "s.best_score"
	}

	query := `SELECT p.username, s.best_score, s.total_coins, s.best_combo, s.runs
		FROM saves s JOIN players p ON p.id = s.player_id
		WHERE p.is_guest = 0
		ORDER BY ` + col + ` DESC LIMIT ?`

	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.BestScore, &e.Coins, &e.BestCombo, &e.Runs); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetRunHistory returns recent runs for a player
func (db *DB) GetRunHistory(playerID int64, limit int) ([]RunRecord, error) {
	rows, err := db.conn.Query(`
		SELECT player_id, score, coins, level, best_combo, duration, mode
		FROM runs WHERE player_id = ?
		ORDER BY created_at DESC LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.PlayerID, &r.Score, &r.Coins, &r.Level, &r.BestCombo, &r.Duration, &r.Mode); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetAchievements returns the achievement ids a player has unlocked
func (db *DB) GetAchievements(playerID int64) ([]string, error) {
	rows, err := db.conn.Query(
		"SELECT achievement_id FROM achievements WHERE player_id = ?",
		playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, rows.Err()
}

// UnlockAchievement records an achievement; returns true if newly unlocked
func (db *DB) UnlockAchievement(playerID int64, achievementID string) (bool, error) {
	res, err := db.conn.Exec(
		"INSERT OR IGNORE INTO achievements (player_id, achievement_id) VALUES (?, ?)",
		playerID, achievementID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetSetting reads a settings value, empty string when absent
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting writes a settings value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
