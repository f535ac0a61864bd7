package game

import "github.com/UTDS16/battleship/framework/game/board"

type Phase int

const (
	PhasePlacing Phase = iota // placing the fleet in catalog order
	PhaseWaiting              // fleet placed, waiting for the opponent
)

func (p Phase) String() string {
	if p == PhasePlacing {
		return "placing"
	}
	return "waiting"
}

// Player tracks placement progress through the fleet catalog.
type Player struct {
	Name  string
	Score int

	placing bool
	index   int
	current *board.Ship
}

func NewPlayer(name string) *Player {
	if name == "" {
		name = "Anon"
	}
	return &Player{Name: name}
}

func (p *Player) StartPlacingShips() {
	p.placing = true
	p.index = 0
	p.current = board.NewShip(p.index)
}

func (p *Player) IsPlacingShips() bool {
	return p.placing
}

// NextShip advances to the next fleet entry. Past the end of the catalog it
// returns nil and the placement phase is over.
func (p *Player) NextShip() *board.Ship {
	p.index++
	p.current = board.NewShip(p.index)
	if p.current.IsValid() {
		return p.current
	}
	p.current = nil
	p.placing = false
	return nil
}

func (p *Player) CurrentShip() *board.Ship {
	return p.current
}

func (p *Player) Phase() Phase {
	if p.placing {
		return PhasePlacing
	}
	return PhaseWaiting
}
