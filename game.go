package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 60 // simulation ticks per second
	BroadcastRate  = 30 // snapshot broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate

	simDT = 1.0 / float64(TickRate)
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game owns one run of the simulation and drives it on a fixed ticker.
// The tick goroutine is the only writer of the simulation; websocket
// handlers reach it through the mutex-guarded methods below.
type Game struct {
	mu         sync.Mutex
	sim        *Simulation
	player     Broadcaster
	controller Broadcaster
	playerName string
	playerID   int64 // database id (account or guest)
	sessionID  string

	db        *DB
	analytics *Analytics

	loop      uint64 // wall ticks, keeps broadcasting while paused
	finalized bool
	pending   *RunRecord // failed save, retried at the next game over

	running bool
	stop    chan struct{}
}

// NewGame creates a game for the given mode, seeded from the clock
func NewGame(mode GameMode, db *DB, analytics *Analytics) *Game {
	return &Game{
		sim:       NewSimulation(DefaultConfig(mode), time.Now().UnixNano()),
		db:        db,
		analytics: analytics,
		stop:      make(chan struct{}),
	}
}

// Run starts the game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// update runs one wall tick: advance the simulation, emit level-up and
// game-over notices, and broadcast a snapshot at the broadcast rate.
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.loop++
	_, leveled := g.sim.Tick(simDT)

	if leveled && g.player != nil {
		g.player.SendJSON(Envelope{T: MsgLevel, Data: LevelMsg{Level: g.sim.State().Level}})
		if g.analytics != nil {
			g.analytics.Track(EvtLevelUp, g.playerID, g.sessionID,
				fmt.Sprintf(`{"level":%d}`, g.sim.State().Level))
		}
	}

	if g.sim.Over() && !g.finalized {
		g.finalized = true
		g.finalize()
	}

	if g.loop%BroadcastEvery == 0 {
		g.broadcastState()
	}
}

// SetPlayer attaches the playing client
func (g *Game) SetPlayer(name string, playerID int64, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.playerName = name
	g.playerID = playerID
	g.player = client
}

// RemovePlayer detaches the playing client
func (g *Game) RemovePlayer() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.player = nil
}

// SetController attaches a phone controller and notifies the player
func (g *Game) SetController(client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.controller = client
	if g.player != nil {
		g.player.SendJSON(Envelope{T: MsgCtrlOn})
	}
}

// RemoveController detaches the phone controller
func (g *Game) RemoveController() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.controller = nil
	if g.player != nil {
		g.player.SendJSON(Envelope{T: MsgCtrlOff})
	}
}

// HasPlayer reports whether a playing client is attached
func (g *Game) HasPlayer() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.player != nil
}

// HandleInput applies continuous cart input from the player
func (g *Game) HandleInput(in CartInput) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if in.Abs {
		g.sim.MoveCartTo(in.X)
	} else {
		g.sim.MoveCartBy(in.DX)
	}
}

// HandleStep applies a discrete left/right step
func (g *Game) HandleStep(dir int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sim.StepCart(dir)
}

// Pause freezes the run and acknowledges. Safe to call repeatedly.
func (g *Game) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sim.Pause()
	g.notify(Envelope{T: MsgPausedAck})
}

// Resume unfreezes the run and acknowledges. Safe to call repeatedly.
func (g *Game) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sim.Resume()
	g.notify(Envelope{T: MsgResumedAck})
}

// Restart resets the run with a fresh seed
func (g *Game) Restart() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sim.Reset(time.Now().UnixNano())
	g.finalized = false
	if g.analytics != nil {
		g.analytics.Track(EvtRunStart, g.playerID, g.sessionID, "")
	}
}

// Welcome returns the geometry message for a freshly joined client
func (g *Game) Welcome() WelcomeMsg {
	g.mu.Lock()
	defer g.mu.Unlock()
	cfg := g.sim.cfg
	return WelcomeMsg{
		FieldW:   cfg.FieldWidth,
		FieldH:   cfg.FieldHeight,
		ItemSize: cfg.ItemSize,
		CartW:    cfg.CartWidth,
		Lives:    cfg.StartLives,
		Mode:     int(cfg.Mode),
	}
}

// notify sends an envelope to the player and the controller
func (g *Game) notify(msg Envelope) {
	if g.player != nil {
		g.player.SendJSON(msg)
	}
	if g.controller != nil {
		g.controller.SendJSON(msg)
	}
}

// broadcastState sends the current snapshot as binary msgpack
func (g *Game) broadcastState() {
	if g.player == nil && g.controller == nil {
		return
	}
	data, err := msgpack.Marshal(g.sim.Snapshot())
	if err != nil {
		return
	}
	if g.player != nil {
		g.player.SendBinary(data)
	}
	if g.controller != nil {
		g.controller.SendBinary(data)
	}
}

// finalize checkpoints the finished run. Persistence runs off the tick
// goroutine: a slow or failing database must never stall the loop, and
// a failed save is kept for retry at the next game over.
func (g *Game) finalize() {
	st := g.sim.State()
	rec := &RunRecord{
		PlayerID:  g.playerID,
		Score:     st.Score,
		Coins:     st.Coins,
		Level:     st.Level,
		BestCombo: st.BestCombo,
		Duration:  g.sim.now,
		Mode:      int(g.sim.cfg.Mode),
	}
	player := g.player
	retry := g.pending
	g.pending = nil

	if g.analytics != nil {
		g.analytics.Track(EvtRunEnd, g.playerID, g.sessionID,
			fmt.Sprintf(`{"score":%d,"level":%d,"mode":%d}`, rec.Score, rec.Level, rec.Mode))
	}

	go func() {
		over := OverMsg{
			Score:     rec.Score,
			Coins:     rec.Coins,
			Level:     rec.Level,
			BestCombo: rec.BestCombo,
		}
		if g.db != nil {
			if retry != nil {
				if _, _, err := g.db.SaveRun(retry); err != nil {
					log.Printf("game: retrying save failed again: %v", err)
				}
			}
			newBest, best, err := g.db.SaveRun(rec)
			if err != nil {
				// Non-fatal: keep the record for the next checkpoint
				log.Printf("game: save run failed: %v", err)
				g.mu.Lock()
				g.pending = rec
				g.mu.Unlock()
			} else {
				over.NewBest = newBest
				over.BestScore = best
				for _, def := range CheckAchievements(g.db, g.analytics, rec) {
					over.Achievements = append(over.Achievements, def.ID)
				}
			}
		}
		if player != nil {
			player.SendJSON(Envelope{T: MsgOver, Data: over})
		}
	}()
}
