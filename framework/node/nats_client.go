package node

import (
	"fmt"

	"github.com/UTDS16/battleship/common/log"
	"github.com/nats-io/nats.go"
)

// Client is a pub/sub connection that pushes every received payload into a read channel.
type Client interface {
	Run(url string) error
	Subscribe(topics ...string) error
	SendMessage(subject string, data []byte) error
	Close() error
}

// ClientFactory builds a Client feeding readChan.
type ClientFactory func(readChan chan []byte) Client

// NatsClient does not notice a nats server going away until the next publish.
type NatsClient struct {
	conn     *nats.Conn
	subs     []*nats.Subscription
	readChan chan []byte
	logger   *log.Logger
}

func NewNatsClient(readChan chan []byte, logger *log.Logger) *NatsClient {
	if logger == nil {
		logger = log.Discard()
	}
	return &NatsClient{
		readChan: readChan,
		logger:   logger,
	}
}

func (nc *NatsClient) IsConnected() bool {
	return nc.conn != nil && nc.conn.IsConnected()
}

func (nc *NatsClient) Run(url string) error {
	nc.logger.Info("connecting to nats, url:%s", url)
	var err error
	nc.conn, err = nats.Connect(url)
	if err != nil {
		nc.logger.Error("nats connect error, err:%v", err)
		return err
	}

	nc.logger.Info("nats connected, url:%s", url)
	return nil
}

func (nc *NatsClient) Subscribe(topics ...string) error {
	if !nc.IsConnected() {
		return ErrNotConnected
	}

	for _, topic := range topics {
		sub, err := nc.conn.Subscribe(topic, func(message *nats.Msg) {
			deliver(nc.readChan, message.Data, nc.logger)
		})
		if err != nil {
			nc.logger.Error("nats sub %s err:%v", topic, err)
			return err
		}
		nc.subs = append(nc.subs, sub)
	}
	return nil
}

func (nc *NatsClient) Close() error {
	if nc.conn == nil {
		return nil
	}

	for _, sub := range nc.subs {
		_ = sub.Unsubscribe()
	}
	nc.subs = nil
	nc.conn.Close()
	nc.logger.Info("nats connection closed")

	return nil
}

func (nc *NatsClient) SendMessage(subject string, data []byte) error {
	if !nc.IsConnected() {
		return ErrNotConnected
	}

	if err := nc.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	return nil
}

// deliver never blocks the transport callback; a full read channel drops the payload.
func deliver(readChan chan []byte, data []byte, logger *log.Logger) {
	select {
	case readChan <- data:
	default:
		logger.Warn("read channel full, dropped %d bytes", len(data))
	}
}
