package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UTDS16/battleship/framework/peer"
	"github.com/UTDS16/battleship/framework/protocol"
	"github.com/UTDS16/battleship/framework/session"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionSource struct {
	s *session.Session
}

func (src sessionSource) Snapshot() *session.Snapshot { return src.s.Snapshot() }

type swapSource struct {
	snap atomic.Pointer[session.Snapshot]
}

func (src *swapSource) Snapshot() *session.Snapshot { return src.snap.Load() }

type nilSource struct{}

func (nilSource) Snapshot() *session.Snapshot { return nil }

type fixedLoad struct{}

func (fixedLoad) Latest() *peer.LoadInfo { return &peer.LoadInfo{CPUUsage: 10, KnownServers: 1} }

func newServer(t *testing.T, src Source, opts ...ServerOption) *StatusServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv, err := NewStatusServer(src, nil, opts...)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *StatusServer, path string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestStatus_Lobby(t *testing.T) {
	s := session.New(session.Options{UUID: "me", Nickname: "Me"})
	raw, err := protocol.NewCodec(nil).Encode(protocol.Announce{UUID: "a", Name: "X", BoardSize: [2]int{10, 10}, NumPlayers: [2]int{1, 3}})
	require.NoError(t, err)
	s.HandleRaw(raw)

	srv := newServer(t, sessionSource{s}, WithLoad(fixedLoad{}))

	code, body := get(t, srv, "/status")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "me", body["uuid"])
	assert.Equal(t, "lobby", body["state"])
	assert.Contains(t, body, "load")
	assert.InDelta(t, 3.0+0.2, body["load_score"], 1e-9)

	code, body = get(t, srv, "/servers")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"X (10x10, 1/3)"}, body["lines"])

	code, body = get(t, srv, "/board")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "lobby", body["state"])
}

func TestStatus_Board(t *testing.T) {
	s := session.New(session.Options{UUID: "me", Nickname: "Me"})
	require.NoError(t, s.Apply(session.CreateGame{Params: session.GameParams{Name: "X", MaxPlayers: 2, BoardWidth: 4, BoardHeight: 3}}))

	srv := newServer(t, sessionSource{s})
	code, body := get(t, srv, "/board")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 4, body["width"])
	assert.Equal(t, []any{"~~~~", "~~~~", "~~~~"}, body["own"])
	assert.Equal(t, "placing", body["phase"])
	assert.Equal(t, "Carrier", body["ship"])

	code, body = get(t, srv, "/status")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["hosting"])
	assert.Len(t, body["roster"], 1)
}

func TestStatus_NoSnapshot(t *testing.T) {
	srv := newServer(t, nilSource{})
	code, body := get(t, srv, "/status")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body["error"], "snapshot")
}

func TestStatus_Statsviz(t *testing.T) {
	srv := newServer(t, nilSource{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/statsviz/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatus_Watch(t *testing.T) {
	s := session.New(session.Options{UUID: "me", Nickname: "Me"})
	src := &swapSource{}
	src.snap.Store(s.Snapshot())
	srv := newServer(t, src)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var body map[string]any
	require.NoError(t, conn.ReadJSON(&body))
	assert.Equal(t, "me", body["uuid"])
	assert.Equal(t, "lobby", body["state"])

	require.NoError(t, s.Apply(session.OpenCreate{}))
	src.snap.Store(s.Snapshot())

	var next map[string]any
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, "create", next["state"])
}
