package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/UTDS16/battleship/common/log"
	"github.com/UTDS16/battleship/framework/session"
)

// Peer is the running loop the console drives.
type Peer interface {
	Submit(intent session.Intent) error
	Snapshot() *session.Snapshot
}

// Console is a line based front end: one command per line in, text out.
type Console struct {
	in       io.Reader
	out      io.Writer
	peer     Peer
	defaults session.GameParams
	logger   *log.Logger
}

func New(in io.Reader, out io.Writer, peer Peer, defaults session.GameParams, logger *log.Logger) *Console {
	if logger == nil {
		logger = log.Discard()
	}
	return &Console{
		in:       in,
		out:      out,
		peer:     peer,
		defaults: defaults,
		logger:   logger.Named("console"),
	}
}

// Run reads commands until quit, end of input or cancellation.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			c.logger.Warn("read input: %v", err)
		}
	}()

	fmt.Fprintln(c.out, help)
	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if c.Handle(line) {
				return nil
			}
			c.prompt()
		}
	}
}

// Handle runs one line and reports whether the user asked to quit.
func (c *Console) Handle(line string) bool {
	snap := c.peer.Snapshot()
	if snap == nil {
		snap = &session.Snapshot{}
	}
	cmd, err := Parse(line, snap, c.defaults)
	if err != nil {
		fmt.Fprintln(c.out, errorStyle.Render(err.Error()))
		return false
	}

	if cmd.Intent != nil {
		if err := c.peer.Submit(cmd.Intent); err != nil {
			fmt.Fprintln(c.out, errorStyle.Render(err.Error()))
		}
	}

	switch cmd.Action {
	case ActionList:
		fmt.Fprint(c.out, RenderLobby(snap))
	case ActionBoard:
		fmt.Fprint(c.out, RenderBoard(snap))
	case ActionHelp:
		fmt.Fprintln(c.out, help)
	case ActionQuit:
		return true
	}
	return false
}

func (c *Console) prompt() {
	if snap := c.peer.Snapshot(); snap != nil {
		fmt.Fprintln(c.out, RenderStatus(snap))
	}
	fmt.Fprint(c.out, "> ")
}
