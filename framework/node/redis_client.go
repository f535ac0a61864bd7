package node

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/UTDS16/battleship/common/config"
	"github.com/UTDS16/battleship/common/log"
	"github.com/redis/go-redis/v9"
)

// RedisClient runs the lobby over redis PUBLISH/SUBSCRIBE.
type RedisClient struct {
	conf     config.RedisConf
	cli      *redis.Client
	pubsub   *redis.PubSub
	readChan chan []byte
	logger   *log.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func NewRedisClient(conf config.RedisConf, readChan chan []byte, logger *log.Logger) *RedisClient {
	if logger == nil {
		logger = log.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisClient{
		conf:     conf,
		readChan: readChan,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Run connects to addr, falling back to the configured address when addr is empty.
func (rc *RedisClient) Run(addr string) error {
	if addr == "" {
		addr = rc.conf.Addr
	}
	rc.logger.Info("connecting to redis, addr:%s", addr)

	cli := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: rc.conf.Password,
		DB:       rc.conf.DB,
		PoolSize: rc.conf.PoolSize,
	})

	ctx, cancel := context.WithTimeout(rc.ctx, 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		rc.logger.Error("redis connect error: %v", err)
		_ = cli.Close()
		return err
	}

	rc.mu.Lock()
	rc.cli = cli
	rc.mu.Unlock()
	rc.logger.Info("redis connected, addr:%s", addr)
	return nil
}

func (rc *RedisClient) Subscribe(topics ...string) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.cli == nil {
		return ErrNotConnected
	}
	if rc.pubsub != nil {
		return rc.pubsub.Subscribe(rc.ctx, topics...)
	}

	rc.pubsub = rc.cli.Subscribe(rc.ctx, topics...)
	// wait for the subscription confirmation so no early publish is missed
	if _, err := rc.pubsub.Receive(rc.ctx); err != nil {
		rc.logger.Error("redis sub err:%v", err)
		_ = rc.pubsub.Close()
		rc.pubsub = nil
		return err
	}
	go rc.receive(rc.pubsub.Channel())
	return nil
}

func (rc *RedisClient) receive(ch <-chan *redis.Message) {
	for msg := range ch {
		deliver(rc.readChan, []byte(msg.Payload), rc.logger)
	}
}

func (rc *RedisClient) SendMessage(subject string, data []byte) error {
	rc.mu.Lock()
	cli := rc.cli
	rc.mu.Unlock()
	if cli == nil {
		return ErrNotConnected
	}

	if err := cli.Publish(rc.ctx, subject, data).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	return nil
}

func (rc *RedisClient) Close() error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cancel()
	if rc.pubsub != nil {
		if err := rc.pubsub.Close(); err != nil {
			rc.logger.Error("redis pubsub close error: %v", err)
		}
		rc.pubsub = nil
	}
	if rc.cli == nil {
		return nil
	}
	err := rc.cli.Close()
	rc.cli = nil
	if err != nil {
		rc.logger.Error("redis close error: %v", err)
		return err
	}
	rc.logger.Info("redis connection closed")
	return nil
}
