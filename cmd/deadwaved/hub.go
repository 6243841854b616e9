package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"deadwave/core/internal/audio"
	"deadwave/core/internal/sim"
	"deadwave/core/internal/telemetry"
)

const writeWait = 10 * time.Second

// Hub fans simulation snapshots out to websocket subscribers and feeds
// client intents into the loop's command queue. The core never sees a
// connection; the hub is the collaborator boundary.
type Hub struct {
	loop   *sim.Loop
	logger telemetry.Logger

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newHub(loop *sim.Loop, logger telemetry.Logger) *Hub {
	return &Hub{
		loop:        loop,
		logger:      logger,
		subscribers: make(map[*subscriber]struct{}),
	}
}

type stateMessage struct {
	Type       string       `json:"type"`
	Snapshot   sim.Snapshot `json:"snapshot"`
	ServerTime int64        `json:"serverTime"`
}

type clientMessage struct {
	Type string `json:"type"`

	// move
	DX float64 `json:"dx,omitempty"`
	DY float64 `json:"dy,omitempty"`

	// navigate / useItem position
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// useItem
	MusicType      string  `json:"musicType,omitempty"`
	BaseIntensity  float64 `json:"baseIntensity,omitempty"`
	Radius         float64 `json:"radius,omitempty"`
	Duration       float64 `json:"duration,omitempty"`
	EffectDuration float64 `json:"effectDuration,omitempty"`
}

// Subscribe registers a connection for snapshot broadcast.
func (h *Hub) Subscribe(conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe drops a connection.
func (h *Hub) Unsubscribe(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
	sub.conn.Close()
}

// Broadcast sends the snapshot to every subscriber. Failed writers are
// dropped; the simulation never waits on a slow client.
func (h *Hub) Broadcast(snapshot sim.Snapshot) {
	message := stateMessage{
		Type:       "state",
		Snapshot:   snapshot,
		ServerTime: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(message)
	if err != nil {
		h.logger.Printf("failed to marshal state message: %v", err)
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, payload)
		sub.mu.Unlock()
		if err != nil {
			h.logger.Printf("dropping subscriber: %v", err)
			h.Unsubscribe(sub)
		}
	}
}

// HandleMessage converts one client intent into a staged command.
func (h *Hub) HandleMessage(playerID string, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Printf("ignoring malformed client message: %v", err)
		return
	}

	cmd := sim.Command{
		ActorID:  playerID,
		IssuedAt: time.Now(),
	}
	switch msg.Type {
	case "move":
		cmd.Type = sim.CommandMove
		cmd.Move = &sim.MoveCommand{DX: msg.DX, DY: msg.DY}
	case "navigate":
		cmd.Type = sim.CommandNavigate
		cmd.Navigate = &sim.NavigateCommand{TargetX: msg.X, TargetY: msg.Y}
	case "useItem":
		cmd.Type = sim.CommandUseItem
		cmd.UseItem = &sim.UseItemCommand{
			X:              msg.X,
			Y:              msg.Y,
			MusicType:      audio.MusicType(msg.MusicType),
			BaseIntensity:  msg.BaseIntensity,
			Radius:         msg.Radius,
			Duration:       msg.Duration,
			EffectDuration: msg.EffectDuration,
		}
	case "clearInput":
		cmd.Type = sim.CommandClearInput
	default:
		return
	}

	if ok, reason := h.loop.Enqueue(cmd); !ok {
		h.logger.Printf("rejected %s command from %s: %s", cmd.Type, playerID, reason)
	}
}
