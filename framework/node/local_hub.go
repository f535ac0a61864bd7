package node

import (
	"sync"

	"github.com/UTDS16/battleship/common/log"
)

// LocalHub is an in-process bus. Like nats and redis, a publisher subscribed
// to a topic receives its own messages.
type LocalHub struct {
	mu   sync.RWMutex
	subs map[string]map[*LocalClient]struct{}
}

func NewLocalHub() *LocalHub {
	return &LocalHub{subs: make(map[string]map[*LocalClient]struct{})}
}

// Factory returns a ClientFactory producing clients attached to the hub.
func (h *LocalHub) Factory(logger *log.Logger) ClientFactory {
	return func(readChan chan []byte) Client {
		return h.NewClient(readChan, logger)
	}
}

func (h *LocalHub) NewClient(readChan chan []byte, logger *log.Logger) *LocalClient {
	if logger == nil {
		logger = log.Discard()
	}
	return &LocalClient{hub: h, readChan: readChan, logger: logger}
}

func (h *LocalHub) subscribe(c *LocalClient, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[topic]
	if !ok {
		set = make(map[*LocalClient]struct{})
		h.subs[topic] = set
	}
	set[c] = struct{}{}
}

func (h *LocalHub) unsubscribeAll(c *LocalClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, topic)
		}
	}
}

func (h *LocalHub) publish(topic string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.subs[topic] {
		payload := make([]byte, len(data))
		copy(payload, data)
		deliver(c.readChan, payload, c.logger)
	}
}

// Subscribers reports how many clients listen on topic.
func (h *LocalHub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

type LocalClient struct {
	hub      *LocalHub
	readChan chan []byte
	logger   *log.Logger

	mu        sync.Mutex
	connected bool
}

func (c *LocalClient) Run(string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = true
	return nil
}

func (c *LocalClient) isConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *LocalClient) Subscribe(topics ...string) error {
	if !c.isConnected() {
		return ErrNotConnected
	}
	for _, topic := range topics {
		c.hub.subscribe(c, topic)
	}
	return nil
}

func (c *LocalClient) SendMessage(subject string, data []byte) error {
	if !c.isConnected() {
		return ErrNotConnected
	}
	c.hub.publish(subject, data)
	return nil
}

func (c *LocalClient) Close() error {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.hub.unsubscribeAll(c)
	return nil
}
