package protocol

import "time"

// Kind is the wire id of an envelope.
type Kind uint8

const (
	KindAnnounce Kind = 0x00 // server announce on the lobby channel
	KindJoining  Kind = 0x01 // client join request
	KindAck      Kind = 0x0A // generic acknowledge
	KindNack     Kind = 0xFF // generic refusal
)

func (k Kind) String() string {
	switch k {
	case KindAnnounce:
		return "announce"
	case KindJoining:
		return "joining"
	case KindAck:
		return "ack"
	case KindNack:
		return "nack"
	default:
		return "unknown"
	}
}

// State is a peer lifecycle state; replies carry the state the receiver should adopt.
type State int

const (
	StateLobby State = iota
	StateCreate
	StateJoin
	StateGame
)

func (s State) String() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StateCreate:
		return "create"
	case StateJoin:
		return "join"
	case StateGame:
		return "game"
	default:
		return "unknown"
	}
}

const (
	LobbyChannel   = "lobby"
	StaleThreshold = 3 * time.Second
)

// RoomChannel is the private channel of the peer with the given uuid.
func RoomChannel(uuid string) string {
	return uuid
}

// Message is one of Announce, Joining, Ack or Nack.
type Message interface {
	Kind() Kind
	Sender() string
}

type Announce struct {
	UUID       string `json:"uuid"`
	BoardSize  [2]int `json:"boardsize"`   // width, height
	NumPlayers [2]int `json:"num_players"` // current, max
	Name       string `json:"name"`
}

type Joining struct {
	ServerUUID string `json:"server_uuid"`
	ClientUUID string `json:"client_uuid"`
	Name       string `json:"name"`
	Nickname   string `json:"nickname"`
}

type Ack struct {
	ServerUUID string `json:"server_uuid"`
	ClientUUID string `json:"client_uuid"`
	Message    string `json:"message"`
	State      State  `json:"state"`
}

type Nack struct {
	ServerUUID string `json:"server_uuid"`
	ClientUUID string `json:"client_uuid"`
	Message    string `json:"message"`
	State      State  `json:"state"`
}

func (Announce) Kind() Kind { return KindAnnounce }
func (Joining) Kind() Kind  { return KindJoining }
func (Ack) Kind() Kind      { return KindAck }
func (Nack) Kind() Kind     { return KindNack }

func (m Announce) Sender() string { return m.UUID }
func (m Joining) Sender() string  { return m.ClientUUID }
func (m Ack) Sender() string      { return m.ServerUUID }
func (m Nack) Sender() string     { return m.ServerUUID }

// Envelope is a decoded message with the sender's clock reading at encode time.
type Envelope struct {
	Message   Message
	Timestamp time.Time
}

// IsStale reports whether the envelope is at least threshold old at now.
func (e Envelope) IsStale(now time.Time, threshold time.Duration) bool {
	return now.Sub(e.Timestamp) >= threshold
}
