package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/evolution-merge-game/game/engine"
	"github.com/wricardo/evolution-merge-game/game/leaderboard"
	"github.com/wricardo/evolution-merge-game/game/service"
)

func testRound() *service.RoundInfo {
	flame := &engine.Item{Name: "Flame", ChainName: "Fire", Difficulty: engine.Easy, Step: 2}
	spark := &engine.Item{Name: "Spark", ChainName: "Fire", Difficulty: engine.Easy, Step: 1}
	return &service.RoundInfo{
		ID:               "round-1",
		PlayerName:       "Ada",
		Difficulty:       engine.Easy,
		Board:            [][]*engine.Item{{spark, nil}, {nil, flame}},
		PlayerScore:      20,
		ChainScores:      []service.ChainScore{{Chain: "Fire", Difficulty: engine.Easy, Points: 10, Score: 20}},
		RemainingSeconds: 75,
		State:            "idle",
		Notifications:    []service.Notification{{Message: "Chain Complete! +10 points for Fire!"}},
		TopScores:        []leaderboard.Entry{{PlayerName: "Grace", Score: 90}},
	}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]string
	if err := client.apiCall(context.Background(), "GET", "/health", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %v", response["status"])
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/api", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no active round"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/api/rounds/current", nil, nil)
	if err == nil || err.Error() != "no active round" {
		t.Errorf("Expected 'no active round', got: %v", err)
	}
}

func TestClient_handleStartRound(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/rounds" {
			t.Errorf("Expected POST /api/rounds, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(testRound())
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleStartRound(context.Background(), toolRequest("start_round", map[string]interface{}{
		"player_name": "Ada",
		"difficulty":  "easy",
	}))
	if err != nil {
		t.Fatalf("handleStartRound failed: %v", err)
	}

	if got["player_name"] != "Ada" || got["difficulty"] != "easy" {
		t.Errorf("Unexpected request body: %v", got)
	}

	text := textOf(t, result)
	for _, want := range []string{"Round started", "Player: Ada", "Score: 20", "Time left: 1:15", "Spark:1", "Flame:2", "Chain Complete!", "1. Grace - 90"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected '%s' in result, got: %s", want, text)
		}
	}
}

func TestClient_handleClickCell(t *testing.T) {
	var got map[string]int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rounds/current/click" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(service.ClickResult{
			Outcome:  engine.OutcomeMatchResolving,
			Position: engine.Position{Row: 1, Col: 1},
			Item:     &engine.Item{Name: "Flame"},
			Round:    testRound(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleClickCell(context.Background(), toolRequest("click_cell", map[string]interface{}{
		"row":    float64(1),
		"col":    float64(1),
		"intent": "merge the flames",
	}))
	if err != nil {
		t.Fatalf("handleClickCell failed: %v", err)
	}

	if got["row"] != 1 || got["col"] != 1 {
		t.Errorf("Unexpected request body: %v", got)
	}

	text := textOf(t, result)
	if !strings.Contains(text, "Match! Flame at (1,1)") {
		t.Errorf("Expected match message, got: %s", text)
	}
}

func TestClient_handleClickCell_MissingArgs(t *testing.T) {
	client := NewClient("http://localhost:0")

	result, err := client.handleClickCell(context.Background(), toolRequest("click_cell", map[string]interface{}{
		"row": float64(0),
	}))
	if err != nil {
		t.Fatalf("handleClickCell failed: %v", err)
	}

	if !result.IsError {
		t.Error("Expected error result when col is missing")
	}
	if text := textOf(t, result); !strings.Contains(text, "col is required") {
		t.Errorf("Unexpected error text: %s", text)
	}
}

func TestClient_handleRoundState_NoRound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no active round"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleRoundState(context.Background(), toolRequest("round_state", nil))
	if err != nil {
		t.Fatalf("handleRoundState failed: %v", err)
	}

	if !result.IsError {
		t.Error("Expected error result")
	}
	if text := textOf(t, result); text != "no active round" {
		t.Errorf("Unexpected error text: %s", text)
	}
}

func TestClient_handleDescribeCell(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rounds/current/cells/0/1" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(service.CellInfo{
			Row: 0, Col: 1,
			Name: "Flame", Chain: "Fire", Difficulty: engine.Easy,
			Step: 2, StepCount: 3, NextStep: "Blaze",
			Description: "A steady flame",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleDescribeCell(context.Background(), toolRequest("describe_cell", map[string]interface{}{
		"row": float64(0),
		"col": float64(1),
	}))
	if err != nil {
		t.Fatalf("handleDescribeCell failed: %v", err)
	}

	text := textOf(t, result)
	for _, want := range []string{"Item: Flame", "Chain: Fire (easy)", "Step: 2 of 3", "merges into Blaze"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected '%s' in result, got: %s", want, text)
		}
	}
}

func TestClient_handleLeaderboard(t *testing.T) {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/leaderboard":
			json.NewEncoder(w).Encode([]*service.LeaderboardInfo{
				{Difficulty: engine.Easy, Entries: []leaderboard.Entry{{PlayerName: "Ada", Score: 40, Date: date}}},
				{Difficulty: engine.Hard},
			})
		case "/api/leaderboard/hard":
			json.NewEncoder(w).Encode(service.LeaderboardInfo{Difficulty: engine.Hard})
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleLeaderboard(context.Background(), toolRequest("leaderboard", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleLeaderboard failed: %v", err)
	}
	text := textOf(t, result)
	if !strings.Contains(text, "1. Ada - 40 (2024-05-01)") || !strings.Contains(text, "HARD:\n  (no scores yet)") {
		t.Errorf("Unexpected leaderboard text: %s", text)
	}

	result, err = client.handleLeaderboard(context.Background(), toolRequest("leaderboard", map[string]interface{}{
		"difficulty": "hard",
	}))
	if err != nil {
		t.Fatalf("handleLeaderboard failed: %v", err)
	}
	if text := textOf(t, result); strings.Contains(text, "EASY") {
		t.Errorf("Expected only the hard board, got: %s", text)
	}
}

func TestClient_handleDraw_BoardFull(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.DrawResult{
			Placed:  false,
			Message: "No empty cells available on the board.",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleDraw(context.Background(), toolRequest("draw", nil))
	if err != nil {
		t.Fatalf("handleDraw failed: %v", err)
	}

	if text := textOf(t, result); !strings.Contains(text, "No empty cells") {
		t.Errorf("Unexpected draw text: %s", text)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), toolRequest("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := textOf(t, result)
	for _, want := range []string{
		"Evolution Merge Game - Complete Instructions",
		"GAME OBJECTIVE:",
		"CLICKING:",
		"CHAINS AND SCORING:",
		"LEADERBOARD:",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected '%s' in instructions", want)
		}
	}
}

func TestFormatRound_Ended(t *testing.T) {
	round := testRound()
	round.Ended = true
	round.RemainingSeconds = 0
	round.Result = &service.RoundEnded{Message: "New High Score! Rank: #1"}

	text := formatRound(round)
	if !strings.Contains(text, "GAME OVER: New High Score! Rank: #1") {
		t.Errorf("Expected game over line, got: %s", text)
	}
	if !strings.Contains(text, "Time left: 0:00") {
		t.Errorf("Expected zero countdown, got: %s", text)
	}
}

func TestFormatBoard(t *testing.T) {
	board := [][]*engine.Item{
		{{Name: "Drop", Step: 1}, nil},
		{nil, nil},
	}

	want := "    0      1      \n" +
		"0   Drop:1 .      \n" +
		"1   .      .      \n"
	if got := formatBoard(board); got != want {
		t.Errorf("formatBoard mismatch\nwant:\n%q\ngot:\n%q", want, got)
	}
}
