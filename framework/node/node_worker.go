package node

import (
	"sync"

	"github.com/UTDS16/battleship/common/log"
)

type packet struct {
	subject string
	data    []byte
}

// NodeWorker owns a Client: inbound payloads are buffered in readChan for
// the caller to Poll, outbound ones are queued on writeChan and sent
// fire-and-forget by a background goroutine.
type NodeWorker struct {
	Cli       Client
	readChan  chan []byte
	writeChan chan packet
	logger    *log.Logger

	done      chan struct{}
	closeOnce sync.Once
}

func NewNodeWorker(bufferSize int, logger *log.Logger) *NodeWorker {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &NodeWorker{
		readChan:  make(chan []byte, bufferSize),
		writeChan: make(chan packet, bufferSize),
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Run
// newClient builds the transport on top of the worker's read channel
// url is the broker address, ignored by the local hub
// topics are subscribed right after connecting
func (worker *NodeWorker) Run(newClient ClientFactory, url string, topics ...string) error {
	worker.Cli = newClient(worker.readChan)
	if err := worker.Cli.Run(url); err != nil {
		return err
	}
	if err := worker.Cli.Subscribe(topics...); err != nil {
		_ = worker.Cli.Close()
		return err
	}

	go worker.writeChanMessage()
	return nil
}

func (worker *NodeWorker) writeChanMessage() {
	for {
		select {
		case <-worker.done:
			return
		case p := <-worker.writeChan:
			if err := worker.Cli.SendMessage(p.subject, p.data); err != nil {
				worker.logger.Error("send to %s failed: %v", p.subject, err)
			}
		}
	}
}

// Publish queues data for subject without blocking.
func (worker *NodeWorker) Publish(subject string, data []byte) error {
	select {
	case <-worker.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case worker.writeChan <- packet{subject: subject, data: data}:
		return nil
	default:
		return ErrWriteChanFull
	}
}

// Poll returns at most limit buffered payloads without blocking.
func (worker *NodeWorker) Poll(limit int) [][]byte {
	var out [][]byte
	for len(out) < limit {
		select {
		case raw := <-worker.readChan:
			out = append(out, raw)
		default:
			return out
		}
	}
	return out
}

// Pending is the number of payloads waiting in the read channel.
func (worker *NodeWorker) Pending() int {
	return len(worker.readChan)
}

func (worker *NodeWorker) Close() {
	worker.closeOnce.Do(func() {
		close(worker.done)
		if worker.Cli != nil {
			if err := worker.Cli.Close(); err != nil {
				worker.logger.Error("close transport: %v", err)
			}
		}
	})
}
