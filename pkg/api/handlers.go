package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dixieflatline76/Recrop/config"
	"github.com/dixieflatline76/Recrop/pkg/blob"
	"github.com/dixieflatline76/Recrop/pkg/dom"
	"github.com/dixieflatline76/Recrop/util/log"
	"github.com/gorilla/websocket"
)

// Message types exchanged with the page.
const (
	TypeChange = "change" // page -> bridge: the user picked a file
	TypePing   = "ping"
	TypePong   = "pong"
	TypeUpload = "upload" // bridge -> page: the file the host should upload
	TypeError  = "error"
)

// Message is the JSON envelope of every websocket frame.
type Message struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	MIME    string `json:"mime,omitempty"`
	DataURL string `json:"data_url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "running",
		"version": config.AppVersion,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleWebSocket upgrades the connection and serves one page.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer ws.Close()

	c := s.newConn(ws)
	s.replaceConn(c)
	defer s.releaseConn(c)
	log.Printf("Page connected: %s", c.id)

	if s.onConnect != nil {
		if done := s.onConnect(c); done != nil {
			defer done()
		}
	}

	// Stands in for the host page's upload handler: whatever reaches it goes back
	// to the page.
	c.input.AddEventListener(dom.EventChange, func(ev *dom.Event) {
		s.forwardUpload(c)
	}, false)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Page connection %s read error: %v", c.id, err)
			}
			break
		}
		s.handleMessage(c, data)
	}
	log.Printf("Page disconnected: %s", c.id)
}

// handleMessage processes one frame from the page.
func (s *Server) handleMessage(c *Conn, data []byte) {
	if !c.limiter.Allow() {
		s.reply(c, Message{Type: TypeError, Error: "rate limited"})
		return
	}

	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		s.reply(c, Message{Type: TypeError, Error: "invalid message"})
		return
	}

	switch m.Type {
	case TypePing:
		s.reply(c, Message{Type: TypePong})
	case TypeChange:
		var files []blob.File
		if m.DataURL != "" {
			f, err := blob.FromDataURL(m.DataURL, m.Name)
			if err != nil {
				s.reply(c, Message{Type: TypeError, Error: err.Error()})
				return
			}
			files = append(files, f)
		}
		s.dispatch(func() {
			c.input.Select(files...)
		})
	default:
		s.reply(c, Message{Type: TypeError, Error: "unknown message type: " + m.Type})
	}
}

// forwardUpload sends the input's current file to the page.
func (s *Server) forwardUpload(c *Conn) {
	files := c.input.Files()
	if len(files) == 0 {
		return
	}
	f := files[0]
	u := c.input.Value()
	if !strings.HasPrefix(u, "data:") {
		u = blob.ReadAsDataURL(f)
	}
	s.reply(c, Message{Type: TypeUpload, Name: f.Name, MIME: f.Type, DataURL: u})
}

func (s *Server) reply(c *Conn, m Message) {
	if err := c.send(m); err != nil {
		log.Printf("Failed to send %s to %s: %v", m.Type, c.id, err)
	}
}
