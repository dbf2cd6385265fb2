// Package terminal is a line-oriented frontend for a GameService.
//
// Renderer draws rounds, cells and leaderboards with lipgloss. Controller
// reads commands such as "click 1 2" or "draw" and prints the updated board,
// plus notifications and the end-of-round summary pushed by the service.
package terminal
