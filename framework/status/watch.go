package status

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var (
	pongWait     = 10 * time.Second
	writeWait    = 10 * time.Second
	pingInterval = (pongWait * 9) / 10
	pushInterval = 250 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// watcher streams snapshots to one websocket until the peer goes away.
type watcher struct {
	conn      *websocket.Conn
	server    *StatusServer
	closeChan chan struct{}
	closeOnce sync.Once
}

func (s *StatusServer) handleWatch(c *gin.Context) error {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered the request
		s.logger.Debug("watch upgrade: %v", err)
		return nil
	}
	w := &watcher{conn: conn, server: s, closeChan: make(chan struct{})}
	go w.readMessage()
	w.writeMessage()
	return nil
}

// readMessage only consumes control frames; anything the viewer sends is ignored.
func (w *watcher) readMessage() {
	defer w.close()
	w.conn.SetReadLimit(512)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.server.logger.Warn("watch read: %v", err)
			}
			return
		}
	}
}

func (w *watcher) writeMessage() {
	pingTicker := time.NewTicker(pingInterval)
	pushTicker := time.NewTicker(pushInterval)
	defer func() {
		pingTicker.Stop()
		pushTicker.Stop()
		w.close()
	}()

	var last time.Time
	push := func() bool {
		snap := w.server.source.Snapshot()
		if snap == nil || !snap.TakenAt.After(last) {
			return true
		}
		last = snap.TakenAt
		_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := w.conn.WriteJSON(snapshotBody(snap)); err != nil {
			w.server.logger.Debug("watch write: %v", err)
			return false
		}
		return true
	}

	if !push() {
		return
	}
	for {
		select {
		case <-pushTicker.C:
			if !push() {
				return
			}
		case <-pingTicker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-w.closeChan:
			return
		}
	}
}

func (w *watcher) close() {
	w.closeOnce.Do(func() {
		close(w.closeChan)
		_ = w.conn.Close()
	})
}
