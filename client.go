package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 80
	maxNameLen        = 16
)

// Binary input opcodes (first byte of a binary client message)
const (
	binOpDrag = 0x01 // [op, flags, x_hi, x_lo]; flags bit0 = absolute
	binOpStep = 0x02 // [op, dir]; dir 0 = left, 1 = right
)

// Client represents a WebSocket connection
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	sessionID    string
	remoteAddr   string
	isController bool
	msgCount     int
	msgResetAt   time.Time
	// Identity: a registered account, or a lazily created guest row
	authPlayerID int64  // 0 = unauthenticated
	authUsername string // "" = unauthenticated
	guestID      int64  // guest save row, created at first join
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// recordID is the database identity runs are saved under
func (c *Client) recordID() int64 {
	if c.authPlayerID != 0 {
		return c.authPlayerID
	}
	return c.guestID
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		if msgType == websocket.BinaryMessage {
			c.handleBinaryInput(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// sendError sends a typed error envelope
func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// game returns the client's attached game, or nil
func (c *Client) game() *Game {
	if c.sessionID == "" {
		return nil
	}
	sess := c.hub.sessions.GetSession(c.sessionID)
	if sess == nil {
		return nil
	}
	return sess.Game
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgList:
		c.handleList()
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgInput:
		c.handleInput(env.D)
	case MsgStep:
		c.handleStep(env.D)
	case MsgPause:
		c.handlePause()
	case MsgResume:
		c.handleResume()
	case MsgRestart:
		c.handleRestart()
	case MsgLeave:
		c.handleLeave()
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgControl:
		c.handleControl(env.D)
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgProfile:
		c.handleProfile()
	case MsgLeaderboard:
		c.handleLeaderboard(env.D)
	case MsgCatalog:
		c.handleCatalog()
	case MsgBuy:
		c.handleBuy(env.D)
	}
}

// handleBinaryInput decodes the compact input formats used by the
// high-rate drag stream and the phone controller.
func (c *Client) handleBinaryInput(msg []byte) {
	g := c.game()
	if g == nil || len(msg) == 0 {
		return
	}
	switch msg[0] {
	case binOpDrag:
		if len(msg) != 4 {
			return
		}
		x := float64(int16(uint16(msg[2])<<8 | uint16(msg[3])))
		g.HandleInput(CartInput{X: x, DX: x, Abs: msg[1]&0x01 != 0})
	case binOpStep:
		if len(msg) != 2 {
			return
		}
		dir := -1
		if msg[1] != 0 {
			dir = 1
		}
		g.HandleStep(dir)
	}
}

func (c *Client) handleList() {
	sessions := c.hub.sessions.ListSessions()
	c.SendJSON(Envelope{T: MsgSessions, Data: sessions})
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	name := msg.Name
	if name == "" {
		name = "Miner"
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	mode := GameMode(msg.Mode)
	if mode != ModeClassic && mode != ModeRelaxed {
		mode = ModeClassic
	}
	sess := c.hub.sessions.CreateSession(name, mode)
	if sess == nil {
		c.sendError("too many active sessions")
		return
	}

	c.hub.sessions.MarkActive(sess.ID)
	c.SendJSON(Envelope{T: MsgCreated, Data: map[string]string{"sid": sess.ID}})
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	name := msg.Name
	if name == "" {
		name = c.authUsername
	}
	if name == "" {
		name = "Miner"
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	sess := c.hub.sessions.GetSession(msg.SessionID)
	if sess == nil {
		c.sendError("session not found")
		return
	}
	if sess.Game.HasPlayer() {
		c.sendError("session already has a player")
		return
	}

	// Unauthenticated players get a guest save row so their run still
	// checkpoints to the database.
	if c.authPlayerID == 0 && c.guestID == 0 && c.hub.db != nil {
		id, err := c.hub.db.CreateGuest(GenerateGuestName())
		if err != nil {
			log.Printf("guest create failed: %v", err)
		} else {
			c.guestID = id
		}
	}

	c.hub.sessions.MarkActive(sess.ID)
	c.sessionID = sess.ID
	c.isController = false
	sess.Game.SetPlayer(name, c.recordID(), c)

	if c.hub.analytics != nil {
		c.hub.analytics.Track(EvtRunStart, c.recordID(), sess.ID, "")
		c.hub.analytics.SetActiveSessions(c.hub.sessions.Count())
	}

	c.SendJSON(Envelope{T: MsgJoined, Data: map[string]string{"sid": sess.ID}})
	c.SendJSON(Envelope{T: MsgWelcome, Data: sess.Game.Welcome()})
}

func (c *Client) handleInput(data json.RawMessage) {
	g := c.game()
	if g == nil {
		return
	}
	var input CartInput
	if err := json.Unmarshal(data, &input); err != nil {
		return
	}
	g.HandleInput(input)
}

func (c *Client) handleStep(data json.RawMessage) {
	g := c.game()
	if g == nil {
		return
	}
	var msg StepMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	g.HandleStep(msg.Dir)
}

func (c *Client) handlePause() {
	if g := c.game(); g != nil {
		g.Pause()
	}
}

func (c *Client) handleResume() {
	if g := c.game(); g != nil {
		g.Resume()
	}
}

func (c *Client) handleRestart() {
	if g := c.game(); g != nil {
		g.Restart()
	}
}

func (c *Client) handleLeave() {
	if c.sessionID != "" {
		sess := c.hub.sessions.GetSession(c.sessionID)
		if sess != nil {
			if c.isController {
				sess.Game.RemoveController()
			} else {
				c.hub.sessions.RemovePlayer(c.sessionID)
			}
		}
		c.sessionID = ""
		c.isController = false
	}
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg CheckMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{SID: msg.SID, Exists: false}})
		return
	}
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{
		SID:    msg.SID,
		Exists: true,
		Name:   sess.Name,
	}})
}

func (c *Client) handleControl(data json.RawMessage) {
	var msg ControlMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.sendError("session not found")
		return
	}

	c.sessionID = msg.SID
	c.isController = true

	sess.Game.SetController(c)
	c.SendJSON(Envelope{T: MsgControlOK, Data: map[string]string{"sid": msg.SID}})
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.hub.SetOnline(id, c)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if c.hub.IsOnline(id) {
		c.sendError("account already connected")
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.hub.SetOnline(id, c)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.sendError("invalid token")
		return
	}
	if c.hub.IsOnline(id) {
		c.sendError("account already connected")
		return
	}
	c.authPlayerID = id
	c.authUsername = username
	c.hub.SetOnline(id, c)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    msg.Token,
		Username: username,
		PlayerID: id,
	}})
}

func (c *Client) handleProfile() {
	if c.hub.db == nil || c.authPlayerID == 0 {
		c.sendError("not authenticated")
		return
	}
	save, err := c.hub.db.GetSave(c.authPlayerID)
	if err != nil {
		c.sendError("profile not found")
		return
	}
	if save == nil {
		// No runs recorded yet: an absent save reads as zeroes
		save = &SaveRow{PlayerID: c.authPlayerID}
	}
	items, err := c.hub.db.GetInventory(c.authPlayerID)
	if err != nil {
		log.Printf("inventory load failed: %v", err)
	}
	c.SendJSON(Envelope{T: MsgProfileData, Data: ProfileDataMsg{
		Username:  c.authUsername,
		BestScore: save.BestScore,
		Coins:     save.TotalCoins,
		Runs:      save.Runs,
		BestCombo: save.BestCombo,
		Playtime:  save.Playtime,
		Items:     items,
	}})
}

func (c *Client) handleLeaderboard(data json.RawMessage) {
	if c.hub.db == nil {
		c.SendJSON(Envelope{T: MsgLeaders, Data: []LeaderboardEntry{}})
		return
	}
	var msg LeaderboardMsg
	json.Unmarshal(data, &msg) // empty "by" falls back to best score
	entries, err := c.hub.db.GetLeaderboard(msg.By, 20)
	if err != nil {
		c.sendError("leaderboard unavailable")
		return
	}
	if entries == nil {
		entries = []LeaderboardEntry{}
	}
	c.SendJSON(Envelope{T: MsgLeaders, Data: entries})
}

func (c *Client) handleCatalog() {
	c.SendJSON(Envelope{T: MsgItems, Data: StoreCatalog})
}

func (c *Client) handleBuy(data json.RawMessage) {
	if c.hub.db == nil {
		c.sendError("store unavailable")
		return
	}
	var msg BuyMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	pid := c.recordID()
	if pid == 0 {
		c.sendError("join a game or sign in first")
		return
	}

	remaining, err := Purchase(c.hub.db, c.hub.analytics, pid, msg.ItemID)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.SendJSON(Envelope{T: MsgBought, Data: BoughtMsg{ItemID: msg.ItemID, Coins: remaining}})
}
