package protocol

import (
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrDecode = errors.New("protocol: cannot decode envelope")

// header is decoded first to pick the concrete frame.
type header struct {
	ID        *int64 `msgpack:"id"`
	Timestamp int64  `msgpack:"timestamp"`
}

type announceFrame struct {
	ID         uint8  `msgpack:"id"`
	Timestamp  int64  `msgpack:"timestamp"`
	UUID       string `msgpack:"uuid"`
	BoardSize  [2]int `msgpack:"boardsize"`
	NumPlayers [2]int `msgpack:"num_players"`
	Name       string `msgpack:"name"`
}

type joiningFrame struct {
	ID         uint8  `msgpack:"id"`
	Timestamp  int64  `msgpack:"timestamp"`
	ServerUUID string `msgpack:"server_uuid"`
	ClientUUID string `msgpack:"client_uuid"`
	Name       string `msgpack:"name"`
	Nickname   string `msgpack:"nickname"`
}

// replyFrame carries both Ack and Nack.
type replyFrame struct {
	ID         uint8  `msgpack:"id"`
	Timestamp  int64  `msgpack:"timestamp"`
	ServerUUID string `msgpack:"server_uuid"`
	ClientUUID string `msgpack:"client_uuid"`
	Message    string `msgpack:"message"`
	State      int    `msgpack:"state"`
}

// Codec turns messages into msgpack maps stamped with Now at encode time.
type Codec struct {
	Now func() time.Time
}

func NewCodec(now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{Now: now}
}

func (c *Codec) Encode(m Message) ([]byte, error) {
	ts := c.Now().UnixMilli()

	var frame any
	switch msg := m.(type) {
	case Announce:
		frame = announceFrame{
			ID:         uint8(KindAnnounce),
			Timestamp:  ts,
			UUID:       msg.UUID,
			BoardSize:  msg.BoardSize,
			NumPlayers: msg.NumPlayers,
			Name:       msg.Name,
		}
	case Joining:
		frame = joiningFrame{
			ID:         uint8(KindJoining),
			Timestamp:  ts,
			ServerUUID: msg.ServerUUID,
			ClientUUID: msg.ClientUUID,
			Name:       msg.Name,
			Nickname:   msg.Nickname,
		}
	case Ack:
		frame = replyFrame{uint8(KindAck), ts, msg.ServerUUID, msg.ClientUUID, msg.Message, int(msg.State)}
	case Nack:
		frame = replyFrame{uint8(KindNack), ts, msg.ServerUUID, msg.ClientUUID, msg.Message, int(msg.State)}
	default:
		return nil, fmt.Errorf("protocol: unsupported message %T", m)
	}

	return msgpack.Marshal(frame)
}

// Decode never panics; any malformed input yields an error wrapping ErrDecode.
func (c *Codec) Decode(raw []byte) (Envelope, error) {
	var h header
	if err := msgpack.Unmarshal(raw, &h); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if h.ID == nil {
		return Envelope{}, fmt.Errorf("%w: missing id", ErrDecode)
	}
	kind, ok := kindFromWire(*h.ID)
	if !ok {
		return Envelope{}, fmt.Errorf("%w: unknown id %d", ErrDecode, *h.ID)
	}

	env := Envelope{Timestamp: time.UnixMilli(h.Timestamp)}
	switch kind {
	case KindAnnounce:
		var f announceFrame
		if err := msgpack.Unmarshal(raw, &f); err != nil {
			return Envelope{}, fmt.Errorf("%w: announce: %v", ErrDecode, err)
		}
		env.Message = Announce{UUID: f.UUID, BoardSize: f.BoardSize, NumPlayers: f.NumPlayers, Name: f.Name}
	case KindJoining:
		var f joiningFrame
		if err := msgpack.Unmarshal(raw, &f); err != nil {
			return Envelope{}, fmt.Errorf("%w: joining: %v", ErrDecode, err)
		}
		env.Message = Joining{ServerUUID: f.ServerUUID, ClientUUID: f.ClientUUID, Name: f.Name, Nickname: f.Nickname}
	case KindAck, KindNack:
		var f replyFrame
		if err := msgpack.Unmarshal(raw, &f); err != nil {
			return Envelope{}, fmt.Errorf("%w: reply: %v", ErrDecode, err)
		}
		if kind == KindAck {
			env.Message = Ack{ServerUUID: f.ServerUUID, ClientUUID: f.ClientUUID, Message: f.Message, State: State(f.State)}
		} else {
			env.Message = Nack{ServerUUID: f.ServerUUID, ClientUUID: f.ClientUUID, Message: f.Message, State: State(f.State)}
		}
	}

	return env, nil
}

func kindFromWire(id int64) (Kind, bool) {
	if id < 0 || id > 0xFF {
		return 0, false
	}
	switch k := Kind(id); k {
	case KindAnnounce, KindJoining, KindAck, KindNack:
		return k, true
	}
	return 0, false
}
