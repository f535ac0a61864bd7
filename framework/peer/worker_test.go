package peer

import (
	"context"
	"testing"
	"time"

	"github.com/UTDS16/battleship/framework/node"
	"github.com/UTDS16/battleship/framework/protocol"
	"github.com/UTDS16/battleship/framework/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startPeer(t *testing.T, ctx context.Context, hub *node.LocalHub, id, nickname string) *Worker {
	t.Helper()

	bus := node.NewNodeWorker(64, nil)
	require.NoError(t, bus.Run(hub.Factory(nil), "", protocol.LobbyChannel, protocol.RoomChannel(id)))
	t.Cleanup(bus.Close)

	sess := session.New(session.Options{
		UUID:             id,
		Nickname:         nickname,
		Publisher:        bus,
		AnnounceInterval: 20 * time.Millisecond,
	})
	w := NewWorker(sess, bus, WorkerOptions{TickRate: 200})
	go w.Run(ctx)
	return w
}

func TestWorker_TwoPeersNegotiate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := node.NewLocalHub()

	host := startPeer(t, ctx, hub, "host", "Host")
	guest := startPeer(t, ctx, hub, "guest", "Guest")

	require.NoError(t, host.Submit(session.CreateGame{Params: session.GameParams{Name: "X", MaxPlayers: 3, BoardWidth: 10, BoardHeight: 10}}))
	require.Eventually(t, func() bool {
		return len(guest.Snapshot().Servers) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "X (10x10, 1/3)", guest.Snapshot().Servers[0].String())

	require.NoError(t, guest.Submit(session.JoinGame{Target: "host"}))
	require.Eventually(t, func() bool {
		return guest.Snapshot().State == "game"
	}, 2*time.Second, 10*time.Millisecond)

	snap := guest.Snapshot()
	assert.True(t, snap.InGame())
	assert.Len(t, snap.Own, 10)
	assert.Equal(t, "Carrier", snap.Ship)

	require.Eventually(t, func() bool {
		return len(host.Snapshot().Roster) == 2
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		servers := guest.Snapshot().Servers
		return len(servers) == 1 && servers[0].NumPlayers == [2]int{2, 3}
	}, 2*time.Second, 10*time.Millisecond)

	// the host never lists itself
	assert.Empty(t, host.Snapshot().Servers)

	cancel()
	select {
	case <-host.Done():
	case <-time.After(time.Second):
		t.Fatal("host loop did not stop")
	}
	assert.False(t, host.Online())
}

func TestWorker_NicknameCollisionReturnsToLobby(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := node.NewLocalHub()

	host := startPeer(t, ctx, hub, "host", "Same")
	guest := startPeer(t, ctx, hub, "guest", "Same")

	require.NoError(t, host.Submit(session.CreateGame{Params: session.GameParams{Name: "X", MaxPlayers: 2, BoardWidth: 6, BoardHeight: 6}}))
	require.Eventually(t, func() bool {
		return len(guest.Snapshot().Servers) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, guest.Submit(session.JoinGame{Target: "host"}))
	require.Eventually(t, func() bool {
		snap := guest.Snapshot()
		return snap.State == "lobby" && snap.LastError != ""
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, guest.Snapshot().LastError, "nickname already taken")
	assert.Len(t, host.Snapshot().Roster, 1)
}

type scriptedTransport struct {
	batches [][][]byte
}

func (s *scriptedTransport) Poll(limit int) [][]byte {
	if len(s.batches) == 0 {
		return nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	if len(batch) > limit {
		batch = batch[:limit]
	}
	return batch
}

func TestWorker_StepSurvivesGarbageAndAppliesIntents(t *testing.T) {
	announce, err := protocol.NewCodec(nil).Encode(protocol.Announce{UUID: "a", Name: "A", NumPlayers: [2]int{1, 2}})
	require.NoError(t, err)

	transport := &scriptedTransport{batches: [][][]byte{{[]byte("junk"), announce}}}
	sess := session.New(session.Options{UUID: "me"})
	w := NewWorker(sess, transport, WorkerOptions{DrainLimit: 8})

	require.NoError(t, w.Submit(session.OpenCreate{}))
	w.step()

	snap := w.Snapshot()
	assert.Equal(t, "create", snap.State)
	require.Len(t, snap.Servers, 1)
	assert.EqualValues(t, 1, snap.Stats.Dropped)
}

func TestWorker_DrainLimit(t *testing.T) {
	codec := protocol.NewCodec(nil)
	var batch [][]byte
	for _, id := range []string{"a", "b", "c"} {
		raw, err := codec.Encode(protocol.Announce{UUID: id, Name: id})
		require.NoError(t, err)
		batch = append(batch, raw)
	}

	w := NewWorker(session.New(session.Options{}), &scriptedTransport{batches: [][][]byte{batch}}, WorkerOptions{DrainLimit: 2})
	w.step()
	assert.Len(t, w.Snapshot().Servers, 2)
}

func TestWorker_SubmitQueueFull(t *testing.T) {
	w := NewWorker(session.New(session.Options{}), &scriptedTransport{}, WorkerOptions{QueueSize: 1})

	require.NoError(t, w.Submit(session.RotateCursor{}))
	assert.ErrorIs(t, w.Submit(session.RotateCursor{}), ErrIntentQueueFull)
}

func TestWorker_StopBeforeRun(t *testing.T) {
	w := NewWorker(session.New(session.Options{}), &scriptedTransport{}, WorkerOptions{})
	w.Stop()
	w.Stop()

	finished := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("worker kept running after Stop")
	}
	assert.False(t, w.Online())
}
