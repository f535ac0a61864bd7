package console

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/UTDS16/battleship/framework/game/board"
	"github.com/UTDS16/battleship/framework/session"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	offlineStyle = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#cc3333"))
	previewStyle = lipgloss.NewStyle().Background(lipgloss.Color("#4c7a4c")).Foreground(lipgloss.Color("#ffffff"))
	aimStyle     = lipgloss.NewStyle().Background(lipgloss.Color("#b3b300")).Foreground(lipgloss.Color("#000000"))
)

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func tileStyle(t board.Tile) lipgloss.Style {
	return lipgloss.NewStyle().Background(hex(t.Color())).Foreground(lipgloss.Color("#c0c0c0"))
}

// RenderLobby lists known games as "{n}. {name} ({w}x{h}, {cur}/{max})".
func RenderLobby(snap *session.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("games"))
	sb.WriteString("\n")
	if len(snap.Servers) == 0 {
		sb.WriteString("  (none announced yet)\n")
		return sb.String()
	}
	for i, e := range snap.Servers {
		line := fmt.Sprintf("  %d. %s", i+1, e.String())
		if e.Live && !e.LastSeen.IsZero() && !snap.TakenAt.IsZero() {
			line += offlineStyle.Render(fmt.Sprintf(" seen %s ago", snap.TakenAt.Sub(e.LastSeen).Truncate(time.Second)))
		}
		if !e.Live {
			line = offlineStyle.Render(line + " [quiet]")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderBoard draws our grid and the foreign grid side by side, with the
// placement preview and the crosshair overlaid.
func RenderBoard(snap *session.Snapshot) string {
	if !snap.InGame() {
		return "not in a game\n"
	}

	preview := make(map[board.Point]bool, len(snap.Preview))
	for _, p := range snap.Preview {
		preview[p] = true
	}

	var sb strings.Builder
	width := 0
	if len(snap.Own) > 0 {
		width = len(snap.Own[0])
	}
	sb.WriteString("   ")
	sb.WriteString(header(width))
	sb.WriteString("   ")
	sb.WriteString(header(width))
	sb.WriteString("\n")

	for y := range snap.Own {
		sb.WriteString(fmt.Sprintf("%2d ", y))
		for x, tile := range snap.Own[y] {
			style := tileStyle(tile)
			if preview[board.Point{X: x, Y: y}] {
				style = previewStyle
			}
			sb.WriteString(style.Render(tile.String() + " "))
		}
		sb.WriteString(" | ")
		for x, tile := range snap.Their[y] {
			style := tileStyle(tile)
			if snap.Crosshair != nil && *snap.Crosshair == (board.Point{X: x, Y: y}) {
				style = aimStyle
			}
			sb.WriteString(style.Render(tile.String() + " "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func header(width int) string {
	var sb strings.Builder
	for x := 0; x < width; x++ {
		label := strconv.Itoa(x % 10)
		sb.WriteString(label + " ")
	}
	return sb.String()
}

// RenderStatus is the one-line prompt summary.
func RenderStatus(snap *session.Snapshot) string {
	parts := []string{fmt.Sprintf("[%s] %s", snap.State, snap.Nickname)}
	if snap.Game.Name != "" {
		parts = append(parts, snap.Game.Name)
	}
	if snap.Hosting {
		parts = append(parts, fmt.Sprintf("hosting %d/%d", len(snap.Roster), snap.Game.MaxPlayers))
	}
	if snap.Ship != "" {
		parts = append(parts, fmt.Sprintf("placing %s (%s)", snap.Ship, snap.Rotation))
	} else if snap.Phase != "" {
		parts = append(parts, snap.Phase)
	}
	line := strings.Join(parts, " | ")
	if snap.LastError != "" {
		line += "\n" + errorStyle.Render("! "+snap.LastError)
	}
	return line
}
