package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UTDS16/battleship/client/console"
	"github.com/UTDS16/battleship/common/config"
	"github.com/UTDS16/battleship/common/log"
	"github.com/UTDS16/battleship/core/container"
)

func Run(ctx context.Context, conf *config.Config, logger *log.Logger) error {
	return run(ctx, conf, logger, os.Stdin, os.Stdout)
}

func run(ctx context.Context, conf *config.Config, logger *log.Logger, in io.Reader, out io.Writer) error {
	peerContainer, err := container.NewPeerContainer(conf, logger, nil)
	if err != nil {
		logger.Error("peer container init failed: %v", err)
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go peerContainer.Worker.Run(ctx)
	go peerContainer.Monitor.Start(ctx)

	if srv := peerContainer.Status; srv != nil {
		go func() {
			logger.Info("status api, URL: http://localhost:%d/status, metrics: http://localhost:%d/debug/statsviz/", srv.Port(), srv.Port())
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status api stopped: %v", err)
			}
		}()
	}

	quit := make(chan struct{})
	go func() {
		defaults := peerContainer.Session.DefaultParams()
		if err := console.New(in, out, peerContainer.Worker, defaults, logger).Run(ctx); err != nil {
			logger.Warn("console: %v", err)
		}
		close(quit)
	}()

	stop := func() {
		logger.Info("shutting down peer %s...", peerContainer.ID)

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		done := make(chan struct{})
		go func() {
			peerContainer.Worker.Stop()
			select {
			case <-peerContainer.Worker.Done():
			case <-shutdownCtx.Done():
			}
			if peerContainer.Status != nil {
				if err := peerContainer.Status.Shutdown(shutdownCtx); err != nil {
					logger.Warn("status api shutdown: %v", err)
				}
			}
			if err := peerContainer.Close(); err != nil {
				logger.Warn("close peer container: %v", err)
			}
			close(done)
		}()

		select {
		case <-done:
			logger.Info("peer stopped")
		case <-shutdownCtx.Done():
			logger.Warn("shutdown timed out after 5s")
		}
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(c)
	for {
		select {
		case <-ctx.Done():
			stop()
			return nil
		case <-quit:
			stop()
			return nil
		case s := <-c:
			switch s {
			case syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT:
				stop()
				logger.Info("interrupted, peer stopped")
				return nil
			case syscall.SIGHUP:
				stop()
				logger.Info("hangup, peer stopped")
				return nil
			default:
				return nil
			}
		}
	}
}
