package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/UTDS16/battleship/common/log"
	"github.com/UTDS16/battleship/framework/game"
	"github.com/UTDS16/battleship/framework/game/board"
	"github.com/UTDS16/battleship/framework/protocol"
	"github.com/google/uuid"
)

// Publisher sends raw bytes on a channel without waiting for delivery.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type discardPublisher struct{}

func (discardPublisher) Publish(string, []byte) error { return nil }

// GameParams describe a hosted game.
type GameParams struct {
	Name        string `json:"name"`
	MaxPlayers  int    `json:"max_players"`
	BoardWidth  int    `json:"board_width"`
	BoardHeight int    `json:"board_height"`
}

func (p GameParams) validate() error {
	if p.Name == "" || p.MaxPlayers < 2 || p.BoardWidth < 1 || p.BoardHeight < 1 {
		return fmt.Errorf("%w: %+v", ErrInvalidParams, p)
	}
	return nil
}

type Options struct {
	UUID             string
	Nickname         string
	Defaults         GameParams
	Logger           *log.Logger
	Now              func() time.Time
	Publisher        Publisher
	Presence         *Presence
	LobbyChannel     string
	AnnounceInterval time.Duration
	StaleThreshold   time.Duration
}

// Stats count envelope traffic since the session was created.
type Stats struct {
	Received   uint64 `json:"received"`
	Dropped    uint64 `json:"dropped"`
	Stale      uint64 `json:"stale"`
	Sent       uint64 `json:"sent"`
	SendFailed uint64 `json:"send_failed"`
}

// Session is the negotiation state machine of one peer. It is not safe for
// concurrent use; a single loop owns it.
type Session struct {
	uuid     string
	nickname string
	defaults GameParams

	logger   *log.Logger
	now      func() time.Time
	codec    *protocol.Codec
	pub      Publisher
	presence *Presence

	lobbyChannel     string
	announceInterval time.Duration
	staleThreshold   time.Duration

	state   protocol.State
	hosting bool
	params  GameParams
	servers *serverTable

	room   *game.Room
	board  *board.Board
	player *game.Player

	// join in flight, or the host we joined
	target       string
	nextAnnounce time.Time
	lastErr      error
	stats        Stats
}

func New(opts Options) *Session {
	if opts.UUID == "" {
		opts.UUID = uuid.NewString()
	}
	if opts.Nickname == "" {
		opts.Nickname = "Anon"
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Publisher == nil {
		opts.Publisher = discardPublisher{}
	}
	if opts.LobbyChannel == "" {
		opts.LobbyChannel = protocol.LobbyChannel
	}
	if opts.AnnounceInterval <= 0 {
		opts.AnnounceInterval = time.Second
	}
	if opts.StaleThreshold <= 0 {
		opts.StaleThreshold = protocol.StaleThreshold
	}

	return &Session{
		uuid:             opts.UUID,
		nickname:         opts.Nickname,
		defaults:         opts.Defaults,
		logger:           opts.Logger.Named("session"),
		now:              opts.Now,
		codec:            protocol.NewCodec(opts.Now),
		pub:              opts.Publisher,
		presence:         opts.Presence,
		lobbyChannel:     opts.LobbyChannel,
		announceInterval: opts.AnnounceInterval,
		staleThreshold:   opts.StaleThreshold,
		state:            protocol.StateLobby,
		servers:          newServerTable(),
	}
}

func (s *Session) UUID() string { return s.uuid }
func (s *Session) Nickname() string { return s.nickname }
func (s *Session) State() protocol.State { return s.state }
func (s *Session) Hosting() bool { return s.hosting }
func (s *Session) Params() GameParams { return s.params }
func (s *Session) Board() *board.Board { return s.board }
func (s *Session) Player() *game.Player { return s.player }
func (s *Session) Stats() Stats { return s.stats }
func (s *Session) Target() string { return s.target }
func (s *Session) LastError() error { return s.lastErr }
func (s *Session) DefaultParams() GameParams { return s.defaults }

// Roster is the current room roster in join order, nil outside a game.
func (s *Session) Roster() []game.Member {
	if s.room == nil {
		return nil
	}
	return s.room.Players()
}

// KnownServers lists every announced server in first-seen order.
func (s *Session) KnownServers() []ServerEntry {
	announces := s.servers.list()
	out := make([]ServerEntry, 0, len(announces))
	for _, a := range announces {
		seen, _ := s.presence.LastSeen(a.UUID)
		out = append(out, ServerEntry{
			UUID:       a.UUID,
			Name:       a.Name,
			BoardSize:  a.BoardSize,
			NumPlayers: a.NumPlayers,
			Live:       s.presence.Live(a.UUID),
			LastSeen:   seen,
		})
	}
	return out
}

// EnterLobby drops everything tied to the previous game. Known servers stay.
func (s *Session) EnterLobby() {
	s.state = protocol.StateLobby
	s.hosting = false
	s.params = GameParams{}
	s.room = nil
	s.board = nil
	s.player = nil
	s.target = ""
	s.nextAnnounce = time.Time{}
}

// EnterCreate stores the parameters of the game about to be hosted.
func (s *Session) EnterCreate(params GameParams) {
	s.EnterLobby()
	s.state = protocol.StateCreate
	s.params = params
}

// StartHosting opens the room created by EnterCreate and announces it right away.
func (s *Session) StartHosting() error {
	if err := s.params.validate(); err != nil {
		return err
	}

	s.enterGame(s.params)
	s.hosting = true
	s.logger.Info("hosting %q (%dx%d, max %d) as %s", s.params.Name, s.params.BoardWidth, s.params.BoardHeight, s.params.MaxPlayers, s.uuid)

	s.announce()
	s.nextAnnounce = s.now().Add(s.announceInterval)
	return nil
}

func (s *Session) enterGame(params GameParams) {
	s.state = protocol.StateGame
	s.params = params
	s.board = board.NewBoard(params.BoardWidth, params.BoardHeight, s.logger)
	s.player = game.NewPlayer(s.nickname)
	s.player.StartPlacingShips()
	s.room = game.NewRoom(params.Name, max(params.MaxPlayers, 1), params.BoardWidth, params.BoardHeight)
	if err := s.room.AddPlayer(s.uuid, s.nickname); err != nil {
		s.logger.Error("seat ourselves: %v", err)
	}
}

// RequestJoin asks target to seat us. The session stays in Join until an Ack or Nack arrives.
func (s *Session) RequestJoin(target, gameName, nickname string) error {
	if nickname != "" {
		s.nickname = nickname
	}

	params := s.defaults
	params.Name = gameName
	if a, ok := s.servers.get(target); ok {
		params = GameParams{
			Name:        a.Name,
			MaxPlayers:  a.NumPlayers[1],
			BoardWidth:  a.BoardSize[0],
			BoardHeight: a.BoardSize[1],
		}
	}

	s.EnterLobby()
	s.state = protocol.StateJoin
	s.params = params
	s.target = target

	s.logger.Info("joining %q at %s as %s", gameName, target, s.nickname)
	return s.send(protocol.RoomChannel(target), protocol.Joining{
		ServerUUID: target,
		ClientUUID: s.uuid,
		Name:       gameName,
		Nickname:   s.nickname,
	})
}

// Tick emits the periodic announce while hosting.
func (s *Session) Tick(now time.Time) {
	if !s.hosting || now.Before(s.nextAnnounce) {
		return
	}
	s.announce()
	s.nextAnnounce = now.Add(s.announceInterval)
}

func (s *Session) announce() {
	cur, limit := s.room.NumPlayers()
	_ = s.send(s.lobbyChannel, protocol.Announce{
		UUID:       s.uuid,
		BoardSize:  [2]int{s.params.BoardWidth, s.params.BoardHeight},
		NumPlayers: [2]int{cur, limit},
		Name:       s.params.Name,
	})
}

func (s *Session) send(subject string, msg protocol.Message) error {
	raw, err := s.codec.Encode(msg)
	if err == nil {
		err = s.pub.Publish(subject, raw)
	}
	if err != nil {
		s.stats.SendFailed++
		s.logger.Warn("send %s to %s: %v", msg.Kind(), subject, err)
		return err
	}
	s.stats.Sent++
	return nil
}

// HandleRaw processes one envelope from the bus. Nothing that arrives here
// can fail the caller: undecodable and stale envelopes are dropped.
func (s *Session) HandleRaw(raw []byte) {
	s.stats.Received++

	env, err := s.codec.Decode(raw)
	if err != nil {
		s.stats.Dropped++
		s.logger.Warn("drop envelope: %v", err)
		return
	}
	if env.IsStale(s.now(), s.staleThreshold) {
		s.stats.Stale++
		s.logger.Debug("drop stale %s from %s", env.Message.Kind(), env.Message.Sender())
		return
	}

	switch m := env.Message.(type) {
	case protocol.Announce:
		s.onAnnounce(m)
	case protocol.Joining:
		s.onJoining(m)
	case protocol.Ack:
		s.onAck(m)
	case protocol.Nack:
		s.onNack(m)
	}
}

func (s *Session) onAnnounce(m protocol.Announce) {
	if m.UUID == s.uuid {
		return
	}
	s.servers.upsert(m)
	s.presence.Touch(m.UUID, s.now())
}

func (s *Session) onJoining(m protocol.Joining) {
	if !s.hosting || m.ServerUUID != s.uuid {
		return
	}
	if s.room.IsFull() {
		s.logger.Debug("room full, ignoring %s (%s)", m.Nickname, m.ClientUUID)
		return
	}

	reply := protocol.RoomChannel(m.ClientUUID)
	if err := s.room.AddPlayer(m.ClientUUID, m.Nickname); err != nil {
		s.logger.Info("refusing %s (%s): %v", m.Nickname, m.ClientUUID, err)
		_ = s.send(reply, protocol.Nack{
			ServerUUID: s.uuid,
			ClientUUID: m.ClientUUID,
			Message:    nackReason(err),
			State:      protocol.StateLobby,
		})
		return
	}

	s.logger.Info("%s joined (%s)", m.Nickname, m.ClientUUID)
	_ = s.send(reply, protocol.Ack{
		ServerUUID: s.uuid,
		ClientUUID: m.ClientUUID,
		Message:    "Welcome",
		State:      protocol.StateGame,
	})
	// let the lobby see the new head count without waiting a full interval
	s.nextAnnounce = time.Time{}
}

func nackReason(err error) string {
	for _, sentinel := range []error{game.ErrUUIDCollision, game.ErrNicknameCollision, game.ErrRoomFull} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func (s *Session) expectsReply(server, client string) bool {
	return s.state == protocol.StateJoin && server == s.target && client == s.uuid
}

func (s *Session) onAck(m protocol.Ack) {
	if !s.expectsReply(m.ServerUUID, m.ClientUUID) {
		return
	}
	if m.State != protocol.StateGame {
		s.logger.Debug("ack from %s with state %s ignored", m.ServerUUID, m.State)
		return
	}

	s.logger.Info("joined %q: %s", s.params.Name, m.Message)
	s.enterGame(s.params)
}

func (s *Session) onNack(m protocol.Nack) {
	if !s.expectsReply(m.ServerUUID, m.ClientUUID) {
		return
	}

	s.logger.Info("join refused by %s: %s", m.ServerUUID, m.Message)
	s.lastErr = fmt.Errorf("join refused: %s", m.Message)
	if m.State == protocol.StateLobby {
		s.EnterLobby()
		return
	}
	s.state = m.State
}

// Apply runs one local intent. Only recoverable errors are returned, for UI feedback.
func (s *Session) Apply(intent Intent) error {
	err := s.apply(intent)
	s.lastErr = err
	return err
}

func (s *Session) apply(intent Intent) error {
	switch in := intent.(type) {
	case RotateCursor:
		if s.board == nil {
			return ErrNotInGame
		}
		s.board.RotateCursor()
	case MovePointer:
		if s.board == nil {
			return ErrNotInGame
		}
		if s.player.IsPlacingShips() {
			s.board.UpdateCursor(s.player.CurrentShip(), in.Pos)
		} else {
			s.board.UpdateCrosshair(in.Pos)
		}
	case Aim:
		if s.board == nil {
			return ErrNotInGame
		}
		s.board.UpdateCrosshair(in.Pos)
	case ConfirmPlacement:
		if s.board == nil {
			return ErrNotInGame
		}
		if err := s.board.ConfirmPlacementAt(s.player, in.Cell); err != nil {
			return err
		}
		if !s.player.IsPlacingShips() {
			s.logger.Debug("fleet placed\n%s", s.board)
		}
	case OpenCreate:
		s.EnterCreate(s.defaults)
	case CreateGame:
		s.EnterCreate(in.Params)
		if err := s.StartHosting(); err != nil {
			s.EnterLobby()
			return err
		}
	case JoinGame:
		a, ok := s.servers.get(in.Target)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownServer, in.Target)
		}
		return s.RequestJoin(a.UUID, a.Name, in.Nickname)
	case CancelToLobby:
		s.EnterLobby()
	default:
		return fmt.Errorf("session: unsupported intent %T", intent)
	}
	return nil
}
