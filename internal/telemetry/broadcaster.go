// Package telemetry streams per-tick population counts to charting clients
// over WebSocket. Publishing is lossy: a slow consumer drops frames rather
// than stalling the simulation loop.
package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
)

const writeWait = 10 * time.Second

// Snapshot is one tick's worth of charting data, keyed by display key so
// clients never see raw state values.
type Snapshot struct {
	Sim         string         `json:"sim"`
	Iteration   int            `json:"iteration"`
	Populations map[string]int `json:"populations"`
}

// Capture reads a snapshot off a simulation. Call it after Step, between
// commits the counts are stale.
func Capture(sim *core.Simulation) Snapshot {
	counts := sim.Populations()
	pops := make(map[string]int, len(counts))
	for st, n := range counts {
		pops[sim.DisplayKey(st)] = n
	}
	return Snapshot{Sim: sim.Name(), Iteration: sim.Iteration(), Populations: pops}
}

// Broadcaster fans snapshots out to every connected client. Registration,
// unregistration and broadcasting are serialized on one goroutine; the
// clients map is guarded for the HTTP handlers that touch it concurrently.
type Broadcaster struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	broadcast  chan Snapshot
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewBroadcaster starts a broadcaster. Callers own its lifetime and must
// Close it.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan Snapshot, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// Publish queues a snapshot for delivery. It never blocks: when the queue is
// full or the broadcaster is closing, the frame is dropped.
func (b *Broadcaster) Publish(snap Snapshot) {
	select {
	case b.broadcast <- snap:
	case <-b.done:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Handler returns the HTTP handler that upgrades connections and tracks them
// until the peer goes away.
func (b *Broadcaster) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		select {
		case b.register <- conn:
		case <-b.done:
			conn.Close()
			return
		}
		// Consume the read side so close frames and errors surface.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					select {
					case b.unregister <- conn:
					case <-b.done:
					}
					return
				}
			}
		}()
	}
}

func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return

		case conn := <-b.register:
			b.mu.Lock()
			b.clients[conn] = true
			b.mu.Unlock()

		case conn := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[conn]; ok {
				delete(b.clients, conn)
				conn.Close()
			}
			b.mu.Unlock()

		case snap := <-b.broadcast:
			payload, err := json.Marshal(snap)
			if err != nil {
				continue
			}

			b.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(b.clients))
			for conn := range b.clients {
				conns = append(conns, conn)
			}
			b.mu.RUnlock()

			var failed []*websocket.Conn
			for _, conn := range conns {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					conn.Close()
					failed = append(failed, conn)
				}
			}
			if len(failed) > 0 {
				b.mu.Lock()
				for _, conn := range failed {
					delete(b.clients, conn)
				}
				b.mu.Unlock()
			}
		}
	}
}

// Close disconnects every client and stops the broadcast goroutine.
func (b *Broadcaster) Close() error {
	close(b.done)
	b.mu.Lock()
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
	b.mu.Unlock()
	b.wg.Wait()
	return nil
}
