package container

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/UTDS16/battleship/common/config"
	"github.com/UTDS16/battleship/common/log"
	"github.com/UTDS16/battleship/framework/node"
	"github.com/UTDS16/battleship/framework/peer"
	"github.com/UTDS16/battleship/framework/protocol"
	"github.com/UTDS16/battleship/framework/session"
	"github.com/UTDS16/battleship/framework/status"
	"github.com/google/uuid"
)

var ErrUnsupportedTransport = errors.New("unsupported transport kind")

// PeerContainer wires one peer: bus, session, loop, monitor and status API.
type PeerContainer struct {
	Config   *config.Config
	Logger   *log.Logger
	ID       string
	Bus      *node.NodeWorker
	Presence *session.Presence
	Session  *session.Session
	Worker   *peer.Worker
	Monitor  *peer.Monitor
	Status   *status.StatusServer // nil when metricPort is 0
	closed   bool
	mu       sync.Mutex
}

// NewPeerContainer connects to the configured bus. hub is only used by the
// local transport and may be nil, in which case a private hub is created.
func NewPeerContainer(conf *config.Config, logger *log.Logger, hub *node.LocalHub) (*PeerContainer, error) {
	if logger == nil {
		logger = log.Discard()
	}
	id := uuid.NewString()

	newClient, url, err := clientFactory(conf.Transport, hub, logger.Named("node"))
	if err != nil {
		return nil, err
	}

	bus := node.NewNodeWorker(conf.Lobby.BufferSize, logger.Named("node"))
	if err := bus.Run(newClient, url, conf.Lobby.Channel, protocol.RoomChannel(id)); err != nil {
		return nil, fmt.Errorf("connect %s transport: %w", conf.Transport.Kind, err)
	}

	presence, err := session.NewPresence(conf.Presence.MaxCost, conf.Presence.TTL)
	if err != nil {
		bus.Close()
		return nil, err
	}

	sess := session.New(session.Options{
		UUID:     id,
		Nickname: conf.Nickname,
		Defaults: session.GameParams{
			Name:        conf.Game.Name,
			MaxPlayers:  conf.Game.MaxPlayers,
			BoardWidth:  conf.Game.BoardWidth,
			BoardHeight: conf.Game.BoardHeight,
		},
		Logger:           logger,
		Publisher:        bus,
		Presence:         presence,
		LobbyChannel:     conf.Lobby.Channel,
		AnnounceInterval: conf.Lobby.AnnounceInterval,
		StaleThreshold:   conf.Lobby.StaleThreshold,
	})

	worker := peer.NewWorker(sess, bus, peer.WorkerOptions{
		TickRate:   conf.Lobby.TickRate,
		DrainLimit: conf.Lobby.DrainLimit,
		Logger:     logger,
	})
	monitor := peer.NewMonitor(worker, bus, logger, 5*time.Second)

	c := &PeerContainer{
		Config:   conf,
		Logger:   logger,
		ID:       id,
		Bus:      bus,
		Presence: presence,
		Session:  sess,
		Worker:   worker,
		Monitor:  monitor,
	}

	if conf.MetricPort > 0 {
		c.Status, err = status.NewStatusServer(worker, logger,
			status.WithPort(conf.MetricPort),
			status.WithLoad(monitor),
		)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

func clientFactory(conf config.TransportConf, hub *node.LocalHub, logger *log.Logger) (node.ClientFactory, string, error) {
	switch conf.Kind {
	case "nats":
		return func(readChan chan []byte) node.Client {
			return node.NewNatsClient(readChan, logger)
		}, conf.Nats.URL, nil
	case "redis":
		return func(readChan chan []byte) node.Client {
			return node.NewRedisClient(conf.Redis, readChan, logger)
		}, conf.Redis.Addr, nil
	case "local":
		if hub == nil {
			hub = node.NewLocalHub()
		}
		return hub.Factory(logger), "", nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedTransport, conf.Kind)
	}
}

// Close releases the container; safe to call more than once.
func (c *PeerContainer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	if c.Worker != nil {
		c.Worker.Stop()
	}
	if c.Bus != nil {
		c.Bus.Close()
	}
	if c.Presence != nil {
		c.Presence.Close()
	}

	c.closed = true
	c.Logger.Info("peer container closed")
	return nil
}
