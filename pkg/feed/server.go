package feed

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/atlasgraph/atlas/pkg/graph"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Hub fans graph updates out to connected viewers. A new connection
// receives the current snapshot first so every viewer starts from a
// coherent state; deltas follow in broadcast order.
type Hub struct {
	store    *graph.Store
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[*session]struct{}
	nextID   int
}

type session struct {
	id       int
	conn     *websocket.Conn
	sendChan chan []byte
	closeCh  chan struct{}
	once     sync.Once
}

// NewHub creates a hub serving the store's state.
func NewHub(store *graph.Store) *Hub {
	return &Hub{
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessions: make(map[*session]struct{}),
	}
}

// ServeHTTP lets the hub mount directly on a mux.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.HandleWebSocket(w, r)
}

// HandleWebSocket upgrades the request and runs the session until the
// peer disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Feed] upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.nextID++
	s := &session{
		id:       h.nextID,
		conn:     conn,
		sendChan: make(chan []byte, sendBuffer),
		closeCh:  make(chan struct{}),
	}
	h.sessions[s] = struct{}{}
	h.mu.Unlock()

	if err := h.sendInitial(s); err != nil {
		log.Printf("[Feed session %d] initial snapshot failed: %v", s.id, err)
		h.drop(s)
		return
	}

	go s.writer()
	s.readLoop()
	h.drop(s)
}

// sendInitial queues the HELLO control frame and the full snapshot.
func (h *Hub) sendInitial(s *session) error {
	snap := h.store.Snapshot()
	hello, err := EncodeControl(ControlPayload{Type: "HELLO", Version: snap.Version()})
	if err != nil {
		return err
	}
	full, err := EncodeSnapshot(SnapshotOf(snap))
	if err != nil {
		return err
	}
	s.sendChan <- hello
	s.sendChan <- full
	return nil
}

// Broadcast sends an encoded delta to every connected session. A
// session with a full send buffer is dropped rather than allowed to
// stall the others.
func (h *Hub) Broadcast(d *graph.Delta) {
	data, err := EncodeDelta(d)
	if err != nil {
		log.Printf("[Feed] encode delta: %v", err)
		return
	}

	h.mu.RLock()
	sessions := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		select {
		case s.sendChan <- data:
		default:
			log.Printf("[Feed session %d] send buffer full, dropping session", s.id)
			h.drop(s)
		}
	}
}

// SessionCount reports the number of live connections.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) drop(s *session) {
	h.mu.Lock()
	delete(h.sessions, s)
	h.mu.Unlock()
	s.close()
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *session) readLoop() {
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Feed session %d] unexpected close: %v", s.id, err)
			}
			return
		}
		frame, err := DecodeFrame(data)
		if err != nil {
			log.Printf("[Feed session %d] bad frame: %v", s.id, err)
			continue
		}
		if frame.Type == FrameControl && frame.Control.Type == "PING" {
			if pong, err := EncodeControl(ControlPayload{Type: "PONG"}); err == nil {
				select {
				case s.sendChan <- pong:
				default:
				}
			}
		}
	}
}

func (s *session) writer() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer s.close()

	for {
		select {
		case data := <-s.sendChan:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				log.Printf("[Feed session %d] write failed: %v", s.id, err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
