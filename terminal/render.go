package terminal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/evolution-merge-game/game/engine"
	"github.com/wricardo/evolution-merge-game/game/service"
)

const defaultCellWidth = 10

// Renderer turns service views into styled terminal text
type Renderer struct {
	cellWidth int

	title     lipgloss.Style
	label     lipgloss.Style
	muted     lipgloss.Style
	notice    lipgloss.Style
	cell      lipgloss.Style
	empty     lipgloss.Style
	selected  lipgloss.Style
	resolving lipgloss.Style
	frame     lipgloss.Style
}

// NewRenderer creates a renderer with the default palette
func NewRenderer() *Renderer {
	cell := lipgloss.NewStyle().Width(defaultCellWidth).Align(lipgloss.Center)
	return &Renderer{
		cellWidth: defaultCellWidth,
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		label:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		notice:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		cell:      cell.Foreground(lipgloss.Color("15")),
		empty:     cell.Foreground(lipgloss.Color("8")),
		selected:  cell.Reverse(true),
		resolving: cell.Foreground(lipgloss.Color("13")).Bold(true),
		frame:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("2")),
	}
}

// Round renders the header, board, score panel, notifications and top scores
func (r *Renderer) Round(round *service.RoundInfo) string {
	if round == nil {
		return r.muted.Render("No round in progress")
	}

	header := r.title.Render(fmt.Sprintf("%s - %s", round.PlayerName, strings.ToUpper(string(round.Difficulty))))
	status := fmt.Sprintf("%s %d   %s %s",
		r.label.Render("Score"), round.PlayerScore,
		r.label.Render("Time"), Clock(round.RemainingSeconds))
	if round.Locked {
		status += "   " + r.muted.Render("resolving...")
	}

	parts := []string{header, status, r.Board(round)}

	if len(round.ChainScores) > 0 {
		lines := []string{r.label.Render("Chains")}
		for _, cs := range round.ChainScores {
			lines = append(lines, fmt.Sprintf("  %-12s %-6s %4d", cs.Chain, cs.Difficulty, cs.Score))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	for _, n := range round.Notifications {
		parts = append(parts, r.notice.Render(n.Message))
	}

	if len(round.TopScores) > 0 {
		lines := []string{r.label.Render("Top scores")}
		for i, e := range round.TopScores {
			lines = append(lines, fmt.Sprintf("  %d. %s %d", i+1, e.PlayerName, e.Score))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	if round.Ended && round.Result != nil {
		parts = append(parts, r.Ended(round.Result))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Board renders the grid with row and column indexes
func (r *Renderer) Board(round *service.RoundInfo) string {
	if len(round.Board) == 0 {
		return r.muted.Render("(empty board)")
	}

	resolving := make(map[engine.Position]bool, len(round.Resolving))
	for _, p := range round.Resolving {
		resolving[p] = true
	}

	index := r.muted.Width(3)
	header := []string{index.Render("")}
	for col := range round.Board[0] {
		header = append(header, r.empty.Render(strconv.Itoa(col)))
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for row, items := range round.Board {
		cells := []string{index.Render(strconv.Itoa(row))}
		for col, item := range items {
			pos := engine.Position{Row: row, Col: col}
			style := r.cell
			switch {
			case item == nil:
				style = r.empty
			case resolving[pos]:
				style = r.resolving
			case round.Selected != nil && *round.Selected == pos:
				style = r.selected
			}
			cells = append(cells, style.Render(r.cellLabel(item)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return r.frame.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (r *Renderer) cellLabel(item *engine.Item) string {
	if item == nil {
		return "."
	}
	suffix := " " + strconv.Itoa(item.Step)
	name := []rune(item.Name)
	if limit := r.cellWidth - len(suffix); len(name) > limit {
		name = name[:limit]
	}
	return string(name) + suffix
}

// Cell renders tooltip data
func (r *Renderer) Cell(cell *service.CellInfo) string {
	if cell.Empty {
		return r.muted.Render(fmt.Sprintf("(%d,%d) is empty", cell.Row, cell.Col))
	}
	lines := []string{
		r.title.Render(cell.Name),
		fmt.Sprintf("%s %s (%s)", r.label.Render("Chain"), cell.Chain, cell.Difficulty),
		fmt.Sprintf("%s %d of %d", r.label.Render("Step"), cell.Step, cell.StepCount),
	}
	if cell.NextStep != "" {
		lines = append(lines, fmt.Sprintf("%s %s", r.label.Render("Next"), cell.NextStep))
	} else {
		lines = append(lines, r.muted.Render("Final step"))
	}
	if cell.Description != "" {
		lines = append(lines, cell.Description)
	}
	return strings.Join(lines, "\n")
}

// Leaderboards renders one table per difficulty
func (r *Renderer) Leaderboards(boards []*service.LeaderboardInfo) string {
	var parts []string
	for _, board := range boards {
		lines := []string{r.title.Render(strings.ToUpper(string(board.Difficulty)))}
		if len(board.Entries) == 0 {
			lines = append(lines, r.muted.Render("  no scores yet"))
		}
		for i, e := range board.Entries {
			lines = append(lines, fmt.Sprintf("  %d. %-16s %5d  %s", i+1, e.PlayerName, e.Score, e.Date.Format("2006-01-02")))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Ended renders the round termination summary
func (r *Renderer) Ended(ended *service.RoundEnded) string {
	lines := []string{
		r.notice.Render(ended.Message),
		fmt.Sprintf("%s %d", r.label.Render("Final score"), ended.FinalScore),
	}
	for i, e := range ended.Leaderboard {
		line := fmt.Sprintf("  %d. %s %d", i+1, e.PlayerName, e.Score)
		if ended.HighScore && i+1 == ended.Rank {
			line = r.notice.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Clock formats seconds as m:ss
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
