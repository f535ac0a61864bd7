package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/UTDS16/battleship/framework/game/board"
	"github.com/UTDS16/battleship/framework/session"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Action is what the console does with a line besides submitting an intent.
type Action int

const (
	ActionNone Action = iota
	ActionList
	ActionBoard
	ActionHelp
	ActionQuit
)

type Command struct {
	Action Action
	Intent session.Intent
}

const help = `commands:
  list                              show announced games
  create [name] [max] [w] [h]       host a game
  join <index|uuid> [nickname]      join a listed game
  move <x> <y>                      preview the current ship around a cell
  place <x> <y>                     place the current ship at a cell
  rotate                            toggle horizontal / vertical
  aim <x> <y>                       aim at a cell of the foreign grid
  lobby                             leave to the lobby
  board                             print the boards
  quit                              exit`

// Parse turns one input line into a command. snap resolves list indices and
// the board width; defaults fill in missing create arguments.
func Parse(line string, snap *session.Snapshot, defaults session.GameParams) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "list", "ls":
		return Command{Action: ActionList}, nil
	case "board", "b":
		return Command{Action: ActionBoard}, nil
	case "help", "?":
		return Command{Action: ActionHelp}, nil
	case "quit", "exit", "q":
		return Command{Action: ActionQuit}, nil
	case "lobby":
		return Command{Intent: session.CancelToLobby{}}, nil
	case "rotate", "r":
		return Command{Intent: session.RotateCursor{}}, nil
	case "create":
		params, err := parseParams(args, defaults)
		if err != nil {
			return Command{}, err
		}
		return Command{Intent: session.CreateGame{Params: params}}, nil
	case "join":
		return parseJoin(args, snap)
	case "move", "place", "aim":
		cell, err := parseCell(name, args)
		if err != nil {
			return Command{}, err
		}
		switch name {
		case "move":
			return Command{Intent: session.MovePointer{Pos: centre(cell)}}, nil
		case "place":
			return Command{Intent: session.ConfirmPlacement{Cell: cell}}, nil
		default:
			width := 0
			if snap != nil {
				width = snap.Game.BoardWidth
			}
			return Command{Intent: session.Aim{Pos: centre(board.Point{X: cell.X + width + 1, Y: cell.Y})}}, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

func parseParams(args []string, defaults session.GameParams) (session.GameParams, error) {
	params := defaults
	if len(args) > 0 {
		params.Name = args[0]
	}
	ints := []*int{&params.MaxPlayers, &params.BoardWidth, &params.BoardHeight}
	for i, arg := range args[min(len(args), 1):] {
		if i >= len(ints) {
			return params, fmt.Errorf("%w: create [name] [max] [w] [h]", ErrUsage)
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return params, fmt.Errorf("%w: create [name] [max] [w] [h]: %v", ErrUsage, err)
		}
		*ints[i] = n
	}
	return params, nil
}

func parseJoin(args []string, snap *session.Snapshot) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return Command{}, fmt.Errorf("%w: join <index|uuid> [nickname]", ErrUsage)
	}

	target := args[0]
	if i, err := strconv.Atoi(target); err == nil {
		if snap == nil || i < 1 || i > len(snap.Servers) {
			return Command{}, fmt.Errorf("%w: no game #%d", ErrUsage, i)
		}
		target = snap.Servers[i-1].UUID
	}

	join := session.JoinGame{Target: target}
	if len(args) == 2 {
		join.Nickname = args[1]
	}
	return Command{Intent: join}, nil
}

func parseCell(name string, args []string) (board.Point, error) {
	if len(args) != 2 {
		return board.Point{}, fmt.Errorf("%w: %s <x> <y>", ErrUsage, name)
	}
	x, errX := strconv.Atoi(args[0])
	y, errY := strconv.Atoi(args[1])
	if err := errors.Join(errX, errY); err != nil {
		return board.Point{}, fmt.Errorf("%w: %s <x> <y>: %v", ErrUsage, name, err)
	}
	return board.Point{X: x, Y: y}, nil
}

// centre is the pixel in the middle of cell.
func centre(cell board.Point) board.Point {
	return board.Point{
		X: cell.X*board.TileSize + board.TileSize/2,
		Y: cell.Y*board.TileSize + board.TileSize/2,
	}
}
