package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/wricardo/evolution-merge-game/game/service"
)

// ErrQuit is returned by Execute when the player asks to leave
var ErrQuit = errors.New("quit")

const helpText = `Commands:
  click <row> <col>     click a cell (alias: c)
  draw                  place a random item on a random empty cell (alias: d)
  info <row> <col>      describe the item in a cell (alias: i)
  state                 redraw the board (alias: s, or an empty line)
  restart               start over with the same player and difficulty
  leaderboard           show every leaderboard (alias: lb)
  help                  show this help (alias: ?)
  quit                  save and leave (alias: q)`

// Controller reads commands line by line and drives a GameService
type Controller struct {
	service  service.GameService
	renderer *Renderer
	in       io.Reader

	mu  sync.Mutex
	out io.Writer
}

// NewController creates a controller reading commands from in and writing to out
func NewController(gameService service.GameService, in io.Reader, out io.Writer) *Controller {
	return &Controller{
		service:  gameService,
		renderer: NewRenderer(),
		in:       in,
		out:      out,
	}
}

// Run processes commands until quit, end of input or ctx cancellation.
// Notifications and the round end summary are printed as they arrive.
func (c *Controller) Run(ctx context.Context) error {
	cancel := c.service.Subscribe(c.handleEvent)
	defer cancel()

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	c.println(helpText)
	if round, err := c.service.GetRound(ctx); err == nil {
		c.println(c.renderer.Round(round))
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-scanErr:
			return err
		case line := <-lines:
			err := c.Execute(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				c.println("Error: " + err.Error())
			}
		}
	}
}

// Execute runs a single command line
func (c *Controller) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return c.showRound(ctx)
	}

	switch fields[0] {
	case "click", "c":
		row, col, err := cellArgs(fields)
		if err != nil {
			return err
		}
		result, err := c.service.Click(ctx, row, col)
		if err != nil {
			return err
		}
		if result.Message != "" {
			c.println(result.Message)
		}
		c.println(c.renderer.Round(result.Round))

	case "draw", "d":
		result, err := c.service.Draw(ctx)
		if err != nil {
			return err
		}
		c.println(c.renderer.Round(result.Round))

	case "info", "i":
		row, col, err := cellArgs(fields)
		if err != nil {
			return err
		}
		cell, err := c.service.DescribeCell(ctx, row, col)
		if err != nil {
			return err
		}
		c.println(c.renderer.Cell(cell))

	case "state", "s":
		return c.showRound(ctx)

	case "restart":
		round, err := c.service.RestartRound(ctx)
		if err != nil {
			return err
		}
		c.println(c.renderer.Round(round))

	case "leaderboard", "lb":
		boards, err := c.service.GetLeaderboards(ctx)
		if err != nil {
			return err
		}
		c.println(c.renderer.Leaderboards(boards))

	case "help", "?":
		c.println(helpText)

	case "quit", "q", "exit":
		return ErrQuit

	default:
		return fmt.Errorf("unknown command %q, type help", fields[0])
	}
	return nil
}

func (c *Controller) showRound(ctx context.Context) error {
	round, err := c.service.GetRound(ctx)
	if err != nil {
		return err
	}
	c.println(c.renderer.Round(round))
	return nil
}

func (c *Controller) handleEvent(event service.Event) {
	switch event.Type {
	case service.EventNotification:
		if event.Notification != nil {
			c.println(c.renderer.notice.Render(event.Notification.Message))
		}
	case service.EventRoundEnded:
		if event.Ended != nil {
			c.println(c.renderer.Ended(event.Ended))
			c.println("Type restart to play again or quit to leave.")
		}
	}
}

func (c *Controller) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}

func cellArgs(fields []string) (int, int, error) {
	if len(fields) != 3 {
		return 0, 0, fmt.Errorf("usage: %s <row> <col>", fields[0])
	}
	row, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row %q", fields[1])
	}
	col, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid col %q", fields[2])
	}
	return row, col, nil
}
