package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/UTDS16/battleship/common/log"
	"github.com/UTDS16/battleship/common/metrics"
	"github.com/UTDS16/battleship/framework/peer"
	"github.com/UTDS16/battleship/framework/session"
	"github.com/gin-gonic/gin"
)

type HandlerFunc func(*gin.Context) error

// Source provides the state served by the API.
type Source interface {
	Snapshot() *session.Snapshot
}

type LoadSource interface {
	Latest() *peer.LoadInfo
}

// StatusServer is a read-only HTTP view of one peer.
type StatusServer struct {
	engine *gin.Engine
	server *http.Server
	port   int
	source Source
	load   LoadSource
	logger *log.Logger
}

type ServerOption func(*StatusServer)

func WithPort(port int) ServerOption {
	return func(s *StatusServer) {
		s.port = port
	}
}

func WithMode(mode string) ServerOption {
	return func(s *StatusServer) {
		gin.SetMode(mode)
	}
}

func WithLoad(load LoadSource) ServerOption {
	return func(s *StatusServer) {
		s.load = load
	}
}

func NewStatusServer(source Source, logger *log.Logger, opts ...ServerOption) (*StatusServer, error) {
	if logger == nil {
		logger = log.Discard()
	}
	s := &StatusServer{
		port:   8090,
		source: source,
		logger: logger.Named("status"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery())

	s.GET("/status", s.handleStatus)
	s.GET("/servers", s.handleServers)
	s.GET("/board", s.handleBoard)
	s.GET("/watch", s.handleWatch)

	mux, err := metrics.Handler()
	if err != nil {
		return nil, fmt.Errorf("register statsviz: %w", err)
	}
	s.engine.GET("/debug/statsviz/*filepath", gin.WrapH(mux))

	return s, nil
}

func (s *StatusServer) wrapHandler(handler HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(c); err != nil {
			s.logger.Warn("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

func (s *StatusServer) GET(path string, handler HandlerFunc) {
	s.engine.GET(path, s.wrapHandler(handler))
}

var errNoSnapshot = errors.New("peer has not published a snapshot yet")

func (s *StatusServer) snapshot() (*session.Snapshot, error) {
	snap := s.source.Snapshot()
	if snap == nil {
		return nil, errNoSnapshot
	}
	return snap, nil
}

func (s *StatusServer) handleStatus(c *gin.Context) error {
	snap, err := s.snapshot()
	if err != nil {
		return err
	}

	body := snapshotBody(snap)
	if s.load != nil {
		if info := s.load.Latest(); info != nil {
			body["load"] = info
			body["load_score"] = info.CalculateLoad()
		}
	}
	c.JSON(http.StatusOK, body)
	return nil
}

func snapshotBody(snap *session.Snapshot) gin.H {
	body := gin.H{
		"uuid":     snap.UUID,
		"nickname": snap.Nickname,
		"state":    snap.State,
		"hosting":  snap.Hosting,
		"game":     snap.Game,
		"roster":   snap.Roster,
		"servers":  len(snap.Servers),
		"stats":    snap.Stats,
		"taken_at": snap.TakenAt,
	}
	if snap.Target != "" {
		body["target"] = snap.Target
	}
	if snap.LastError != "" {
		body["last_error"] = snap.LastError
	}
	return body
}

func (s *StatusServer) handleServers(c *gin.Context) error {
	snap, err := s.snapshot()
	if err != nil {
		return err
	}

	lines := make([]string, len(snap.Servers))
	for i, e := range snap.Servers {
		lines[i] = e.String()
	}
	c.JSON(http.StatusOK, gin.H{"servers": snap.Servers, "lines": lines})
	return nil
}

func (s *StatusServer) handleBoard(c *gin.Context) error {
	snap, err := s.snapshot()
	if err != nil {
		return err
	}
	if !snap.InGame() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no game in progress", "state": snap.State})
		return nil
	}

	c.JSON(http.StatusOK, gin.H{
		"width":      snap.Game.BoardWidth,
		"height":     snap.Game.BoardHeight,
		"own":        session.Rows(snap.Own),
		"their":      session.Rows(snap.Their),
		"phase":      snap.Phase,
		"ship":       snap.Ship,
		"rotation":   snap.Rotation,
		"cursor":     snap.Cursor,
		"crosshair":  snap.Crosshair,
		"preview":    snap.Preview,
		"preview_px": snap.PreviewPx,
	})
	return nil
}

// Handler exposes the router, mainly for tests.
func (s *StatusServer) Handler() http.Handler {
	return s.engine
}

func (s *StatusServer) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	s.logger.Info("status api listening on %s", addr)
	return s.server.ListenAndServe()
}

func (s *StatusServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *StatusServer) Port() int {
	return s.port
}
