package server

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nexuscore/vaultd/internal/catalog"
	"github.com/nexuscore/vaultd/internal/download"
	"github.com/nexuscore/vaultd/internal/view"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// sessionRequest is the incoming session-socket message format.
type sessionRequest struct {
	Type     string `json:"type"` // navigate | unlock | download | reset_download | detail_tab
	Fragment string `json:"fragment,omitempty"`
	Password string `json:"password,omitempty"`
	Tab      string `json:"tab,omitempty"`
}

// sessionEvent is the outgoing session-socket message format.
type sessionEvent struct {
	Type        string      `json:"type"` // state | progress | complete | error
	State       *view.State `json:"state,omitempty"`
	Progress    int         `json:"progress,omitempty"`
	Filename    string      `json:"filename,omitempty"`
	URL         string      `json:"url,omitempty"`
	FromSession bool        `json:"from_session,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// sessionConn serializes writes: state pushes arrive from the reader loop,
// the gate revert timer and the download ticker concurrently.
type sessionConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *sessionConn) send(ev sessionEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(ev); err != nil {
		log.Printf("server: session write: %v", err)
	}
}

// handleSessionSocket runs one view controller per connection. The client
// mirrors its URL fragment over the socket; the server owns the derived
// state and pushes every change back.
func (s *Server) handleSessionSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: session upgrade: %v", err)
		return
	}
	defer conn.Close()

	sc := &sessionConn{conn: conn}

	ctrl := view.NewController(s.catalog, s.registry, view.Callbacks{
		OnState: func(st view.State) {
			sc.send(sessionEvent{Type: "state", State: &st})
		},
		OnProgress: func(p int) {
			sc.send(sessionEvent{Type: "progress", Progress: p})
		},
		OnComplete: func(item catalog.Item) {
			d := download.Resolve(item, s.registry)
			sc.send(sessionEvent{
				Type:        "complete",
				Filename:    d.Filename,
				URL:         fmt.Sprintf("/api/catalog/%s/download", item.ID),
				FromSession: d.FromSession,
			})
		},
	})
	// Stops any in-flight timers when the client goes away.
	defer ctrl.Close()

	// Initial snapshot for a fresh connection.
	st := ctrl.Snapshot()
	sc.send(sessionEvent{Type: "state", State: &st})

	for {
		var req sessionRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: session read: %v", err)
			}
			return
		}

		switch req.Type {
		case "navigate":
			ctrl.Navigate(req.Fragment)
		case "unlock":
			ctrl.Unlock(req.Password)
		case "download":
			ctrl.StartDownload()
		case "reset_download":
			ctrl.ResetDownload()
		case "detail_tab":
			ctrl.SetDetailTab(view.DetailTab(req.Tab))
		default:
			sc.send(sessionEvent{Type: "error", Message: "unknown message type: " + req.Type})
		}
	}
}
