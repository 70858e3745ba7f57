package core

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const LiveReloadPath = "/__richtext_reload"

// Messages understood by the live reload script.
const (
	ReloadPage = "reload"
	ReloadCSS  = "css"
)

type LiveReloaderInterface interface {
	Broadcast(msg string)
	Handler(http.ResponseWriter, *http.Request)
	Close() error
}

// LiveReloader keeps the dev pages' websocket connections and pushes reload
// messages to them.
type LiveReloader struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	closed   bool
	upgrader websocket.Upgrader
}

var NewLiveReloader = func() LiveReloaderInterface {
	return &LiveReloader{
		clients:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: sameOrigin},
	}
}

// sameOrigin accepts requests without an Origin header (non-browser
// clients) and browser requests from a page on the same host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (lr *LiveReloader) Handler(w http.ResponseWriter, r *http.Request) {
	lr.mu.Lock()
	closed := lr.closed
	lr.mu.Unlock()
	if closed {
		http.Error(w, "live reload stopped", http.StatusServiceUnavailable)
		return
	}

	conn, err := lr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	lr.mu.Lock()
	if lr.closed {
		lr.mu.Unlock()
		conn.Close()
		return
	}
	lr.clients[conn] = struct{}{}
	lr.mu.Unlock()

	go lr.readUntilClosed(conn)
}

func (lr *LiveReloader) readUntilClosed(conn *websocket.Conn) {
	defer func() {
		lr.mu.Lock()
		delete(lr.clients, conn)
		lr.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// Broadcast sends msg to every client, dropping those that fail.
func (lr *LiveReloader) Broadcast(msg string) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	for conn := range lr.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			conn.Close()
			delete(lr.clients, conn)
		}
	}
}

// Close sends a close frame to every client and refuses new connections.
func (lr *LiveReloader) Close() error {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	if lr.closed {
		return nil
	}
	lr.closed = true

	deadline := time.Now().Add(time.Second)
	bye := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn := range lr.clients {
		_ = conn.WriteControl(websocket.CloseMessage, bye, deadline)
		conn.Close()
		delete(lr.clients, conn)
	}
	return nil
}

func (lr *LiveReloader) clientCount() int {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return len(lr.clients)
}

// ReloadKind picks the message for a set of changed files: stylesheets can
// be swapped in place, anything else needs a full page reload.
func ReloadKind(changed []string) string {
	if len(changed) == 0 {
		return ReloadPage
	}
	for _, name := range changed {
		if filepath.Ext(name) != ".css" {
			return ReloadPage
		}
	}
	return ReloadCSS
}
