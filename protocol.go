package main

import "encoding/json"

// Client -> Server message types
const (
	MsgCreate      = "create"  // create a run session
	MsgJoin        = "join"    // join a session as the player
	MsgInput       = "input"   // continuous cart input (drag)
	MsgStep        = "step"    // discrete left/right cart step
	MsgPause       = "pause"
	MsgResume      = "resume"
	MsgRestart     = "restart" // reset a finished (or running) run
	MsgLeave       = "leave"
	MsgList        = "list"    // list sessions
	MsgCheck       = "check"   // check if a session exists
	MsgControl     = "control" // phone controller attach
	MsgRegister    = "register"
	MsgLogin       = "login"
	MsgAuth        = "auth" // token re-auth
	MsgProfile     = "profile"
	MsgLeaderboard = "leaderboard"
	MsgCatalog     = "catalog" // store item list
	MsgBuy         = "buy"
)

// Server -> Client message types
const (
	MsgState       = "state" // binary msgpack RunState
	MsgWelcome     = "welcome"
	MsgJoined      = "joined"
	MsgCreated     = "created"
	MsgLevel       = "level" // level-up notice
	MsgOver        = "over"  // run finished
	MsgPausedAck   = "paused"
	MsgResumedAck  = "resumed"
	MsgSessions    = "sessions"
	MsgChecked     = "checked"
	MsgControlOK   = "control_ok"
	MsgCtrlOn      = "ctrl_on"  // notify player: controller attached
	MsgCtrlOff     = "ctrl_off" // notify player: controller detached
	MsgAuthOK      = "auth_ok"
	MsgProfileData = "profile_data"
	MsgLeaders     = "leaders"
	MsgItems       = "items"
	MsgBought      = "bought"
	MsgError       = "error"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// CreateMsg requests a new run session
type CreateMsg struct {
	Name string `json:"name"`
	Mode int    `json:"mode"`
}

// JoinMsg attaches the client to a session as the player
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// CartInput carries continuous cart movement. Either an absolute drag
// position (X) or a pointer delta (DX); absolute wins when both are set.
type CartInput struct {
	X   float64 `json:"x,omitempty"`
	DX  float64 `json:"dx,omitempty"`
	Abs bool    `json:"abs,omitempty"`
}

// StepMsg is a discrete cart step: -1 left, +1 right
type StepMsg struct {
	Dir int `json:"dir"`
}

// ItemState is broadcast per active falling item
type ItemState struct {
	ID   uint64  `json:"id" msgpack:"id"`
	Kind int     `json:"k" msgpack:"k"`
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
}

// RunState is the full snapshot broadcast each frame (msgpack binary)
type RunState struct {
	Items   []ItemState `json:"it" msgpack:"it"`
	CartX   float64     `json:"cx" msgpack:"cx"`
	CartW   float64     `json:"cw" msgpack:"cw"`
	Score   int         `json:"s" msgpack:"s"`
	Coins   int         `json:"c" msgpack:"c"`
	Lives   int         `json:"l" msgpack:"l"`
	Level   int         `json:"lv" msgpack:"lv"`
	Combo   int         `json:"cb" msgpack:"cb"`
	Shield  int         `json:"sh" msgpack:"sh"`
	Doubler float64     `json:"db" msgpack:"db"`
	Tick    uint64      `json:"tick" msgpack:"tick"`
	Paused  bool        `json:"p" msgpack:"p"`
	Over    bool        `json:"o" msgpack:"o"`
}

// WelcomeMsg is sent once after a successful join; carries the field
// geometry so the renderer can scale without hardcoding it.
type WelcomeMsg struct {
	FieldW   float64 `json:"fw"`
	FieldH   float64 `json:"fh"`
	ItemSize float64 `json:"is"`
	CartW    float64 `json:"cw"`
	Lives    int     `json:"l"`
	Mode     int     `json:"mode"`
}

// LevelMsg announces a level-up
type LevelMsg struct {
	Level int `json:"lv"`
}

// OverMsg announces the end of a run
type OverMsg struct {
	Score        int      `json:"s"`
	Coins        int      `json:"c"`
	Level        int      `json:"lv"`
	BestCombo    int      `json:"bc"`
	NewBest      bool     `json:"nb"`
	BestScore    int      `json:"bs"`
	Achievements []string `json:"ach,omitempty"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mode   int    `json:"mode"`
	Active bool   `json:"active"`
}

// CheckMsg is sent by a client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID    string `json:"sid"`
	Exists bool   `json:"exists"`
	Name   string `json:"name,omitempty"`
}

// ControlMsg is sent by a phone controller to attach to a session
type ControlMsg struct {
	SID string `json:"sid"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// LoginMsg logs into an account
type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// AuthMsg re-authenticates with a stored token
type AuthMsg struct {
	Token string `json:"tok"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"tok"`
	Username string `json:"u"`
	PlayerID int64  `json:"pid"`
}

// ProfileDataMsg carries lifetime stats for the profile screen
type ProfileDataMsg struct {
	Username  string   `json:"u"`
	BestScore int      `json:"bs"`
	Coins     int      `json:"c"`
	Runs      int      `json:"runs"`
	BestCombo int      `json:"bc"`
	Playtime  float64  `json:"pt"`
	Items     []string `json:"items,omitempty"` // owned cosmetics
}

// LeaderboardMsg requests the leaderboard sorted by a column
type LeaderboardMsg struct {
	By string `json:"by"` // "best", "coins", "combo", "runs"
}

// BuyMsg purchases a store item with persisted coins
type BuyMsg struct {
	ItemID string `json:"id"`
}

// BoughtMsg confirms a purchase and reports the remaining balance
type BoughtMsg struct {
	ItemID string `json:"id"`
	Coins  int    `json:"c"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
