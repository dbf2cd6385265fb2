package terminal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/evolution-merge-game/game/engine"
	"github.com/wricardo/evolution-merge-game/game/leaderboard"
	"github.com/wricardo/evolution-merge-game/game/service"
)

// fakeService implements the calls the controller makes. Unused methods
// panic through the nil embedded interface.
type fakeService struct {
	service.GameService

	round    *service.RoundInfo
	clicks   []engine.Position
	draws    int
	restarts int
	listener func(service.Event)
}

func (f *fakeService) GetRound(ctx context.Context) (*service.RoundInfo, error) {
	if f.round == nil {
		return nil, service.ErrNoActiveRound
	}
	return f.round, nil
}

func (f *fakeService) Click(ctx context.Context, row, col int) (*service.ClickResult, error) {
	f.clicks = append(f.clicks, engine.Position{Row: row, Col: col})
	return &service.ClickResult{Outcome: engine.OutcomeSelected, Round: f.round}, nil
}

func (f *fakeService) Draw(ctx context.Context) (*service.DrawResult, error) {
	f.draws++
	return &service.DrawResult{Placed: true, Round: f.round}, nil
}

func (f *fakeService) RestartRound(ctx context.Context) (*service.RoundInfo, error) {
	f.restarts++
	return f.round, nil
}

func (f *fakeService) DescribeCell(ctx context.Context, row, col int) (*service.CellInfo, error) {
	return &service.CellInfo{Row: row, Col: col, Name: "Flame", Chain: "Fire", Difficulty: engine.Easy, Step: 2, StepCount: 3, NextStep: "Blaze"}, nil
}

func (f *fakeService) GetLeaderboards(ctx context.Context) ([]*service.LeaderboardInfo, error) {
	return []*service.LeaderboardInfo{
		{Difficulty: engine.Easy, Entries: []leaderboard.Entry{{PlayerName: "Ada", Score: 40}}},
		{Difficulty: engine.Hard},
	}, nil
}

func (f *fakeService) Subscribe(fn func(service.Event)) func() {
	f.listener = fn
	return func() { f.listener = nil }
}

func sampleRound() *service.RoundInfo {
	selected := engine.Position{Row: 0, Col: 0}
	return &service.RoundInfo{
		PlayerName: "Ada",
		Difficulty: engine.Easy,
		Board: [][]*engine.Item{
			{{Name: "Spark", Step: 1}, nil},
			{nil, {Name: "Thunderstorm", Step: 3}},
		},
		PlayerScore:      30,
		ChainScores:      []service.ChainScore{{Chain: "Fire", Difficulty: engine.Easy, Score: 30}},
		RemainingSeconds: 125,
		Selected:         &selected,
		TopScores:        []leaderboard.Entry{{PlayerName: "Grace", Score: 90}},
	}
}

// syncBuffer guards output written from the event callback
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRendererRound(t *testing.T) {
	out := NewRenderer().Round(sampleRound())

	for _, want := range []string{"Ada - EASY", "Score", "2:05", "Spark 1", "Thunders 3", "Fire", "Grace 90"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestRendererNoRound(t *testing.T) {
	if out := NewRenderer().Round(nil); !strings.Contains(out, "No round in progress") {
		t.Errorf("Unexpected output: %s", out)
	}
}

func TestRendererEnded(t *testing.T) {
	out := NewRenderer().Ended(&service.RoundEnded{
		FinalScore:  40,
		HighScore:   true,
		Rank:        1,
		Message:     "New High Score! Rank: #1",
		Leaderboard: []leaderboard.Entry{{PlayerName: "Ada", Score: 40}},
	})

	for _, want := range []string{"New High Score! Rank: #1", "40", "1. Ada 40"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestClock(t *testing.T) {
	tests := map[int]string{0: "0:00", 59: "0:59", 60: "1:00", 605: "10:05", -3: "0:00"}
	for seconds, want := range tests {
		if got := Clock(seconds); got != want {
			t.Errorf("Clock(%d) = %s, want %s", seconds, got, want)
		}
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("click", func(t *testing.T) {
		svc := &fakeService{round: sampleRound()}
		var out bytes.Buffer
		c := NewController(svc, strings.NewReader(""), &out)

		if err := c.Execute(ctx, "click 1 0"); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if len(svc.clicks) != 1 || svc.clicks[0] != (engine.Position{Row: 1, Col: 0}) {
			t.Errorf("Unexpected clicks: %v", svc.clicks)
		}
		if !strings.Contains(out.String(), "Spark 1") {
			t.Errorf("Expected board in output: %s", out.String())
		}
	})

	t.Run("bad arguments", func(t *testing.T) {
		c := NewController(&fakeService{round: sampleRound()}, strings.NewReader(""), &bytes.Buffer{})

		for _, line := range []string{"c 1", "c x 1", "c 1 y", "dance"} {
			if err := c.Execute(ctx, line); err == nil {
				t.Errorf("Expected error for %q", line)
			}
		}
	})

	t.Run("info", func(t *testing.T) {
		var out bytes.Buffer
		c := NewController(&fakeService{round: sampleRound()}, strings.NewReader(""), &out)

		if err := c.Execute(ctx, "i 0 1"); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if !strings.Contains(out.String(), "2 of 3") || !strings.Contains(out.String(), "Blaze") {
			t.Errorf("Unexpected cell output: %s", out.String())
		}
	})

	t.Run("leaderboard", func(t *testing.T) {
		var out bytes.Buffer
		c := NewController(&fakeService{round: sampleRound()}, strings.NewReader(""), &out)

		if err := c.Execute(ctx, "lb"); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if !strings.Contains(out.String(), "Ada") || !strings.Contains(out.String(), "no scores yet") {
			t.Errorf("Unexpected leaderboard output: %s", out.String())
		}
	})

	t.Run("no round", func(t *testing.T) {
		c := NewController(&fakeService{}, strings.NewReader(""), &bytes.Buffer{})

		if err := c.Execute(ctx, "state"); !errors.Is(err, service.ErrNoActiveRound) {
			t.Errorf("Expected ErrNoActiveRound, got %v", err)
		}
	})

	t.Run("quit", func(t *testing.T) {
		c := NewController(&fakeService{}, strings.NewReader(""), &bytes.Buffer{})

		if err := c.Execute(ctx, "QUIT"); !errors.Is(err, ErrQuit) {
			t.Errorf("Expected ErrQuit, got %v", err)
		}
	})
}

func TestRun(t *testing.T) {
	svc := &fakeService{round: sampleRound()}
	out := &syncBuffer{}
	input := "draw\nbogus\nrestart\nquit\nclick 0 0\n"
	c := NewController(svc, strings.NewReader(input), out)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if svc.draws != 1 || svc.restarts != 1 {
		t.Errorf("Expected one draw and one restart, got %d and %d", svc.draws, svc.restarts)
	}
	if len(svc.clicks) != 0 {
		t.Error("Commands after quit should not run")
	}
	if !strings.Contains(out.String(), `unknown command "bogus"`) {
		t.Errorf("Expected unknown command error in output:\n%s", out.String())
	}
	if svc.listener != nil {
		t.Error("Expected subscription to be cancelled")
	}
}

func TestRunEndOfInput(t *testing.T) {
	svc := &fakeService{round: sampleRound()}
	c := NewController(svc, strings.NewReader("draw\n"), &syncBuffer{})

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if svc.draws != 1 {
		t.Errorf("Expected one draw, got %d", svc.draws)
	}
}

func TestHandleEvent(t *testing.T) {
	out := &syncBuffer{}
	c := NewController(&fakeService{}, strings.NewReader(""), out)

	c.handleEvent(service.Event{Type: service.EventTick, RemainingSeconds: 10})
	c.handleEvent(service.Event{
		Type:         service.EventNotification,
		Notification: &service.Notification{Message: "Chain Complete! +10 points for Fire!"},
	})
	c.handleEvent(service.Event{
		Type:  service.EventRoundEnded,
		Ended: &service.RoundEnded{Message: "Time's up! Final score: 10", FinalScore: 10},
	})

	text := out.String()
	if !strings.Contains(text, "Chain Complete!") || !strings.Contains(text, "Time's up!") {
		t.Errorf("Unexpected event output:\n%s", text)
	}
	if strings.Count(text, "\n") != 4 {
		t.Errorf("Tick events should print nothing:\n%s", text)
	}
}
