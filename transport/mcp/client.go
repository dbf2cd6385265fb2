package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/evolution-merge-game/game/engine"
	"github.com/wricardo/evolution-merge-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Evolution Merge Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Evolution Merge Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Merge identical items on the board to evolve them along their chain. Completing
a chain scores its points. Score as much as possible before the countdown ends.

AVAILABLE TOOLS:
- start_round: Start a round for a player at a difficulty (easy, medium, hard)
- resume_round: Continue the saved round
- saved_game: See whose round is saved
- round_state: Board, scores, countdown and notifications
- click_cell: Click a cell (empty cells draw a new item, two identical items merge)
- draw: Place a random item on a random empty cell
- describe_cell: Tooltip data of one cell
- restart_round: Start over with the same player and difficulty
- abandon_round: Stop the round and delete the save
- leaderboard: Top five scores per difficulty
- reset_leaderboard: Empty every leaderboard
- list_levels: Board sizes, time limits and chains of each difficulty
- game_instructions: Full rules

NOTE: Merges resolve after a short delay. Call round_state to see the result.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	cellProperties := map[string]interface{}{
		"row": map[string]interface{}{
			"type":        "integer",
			"description": "Row index, starting at 0",
		},
		"col": map[string]interface{}{
			"type":        "integer",
			"description": "Column index, starting at 0",
		},
	}
	noArgs := mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}

	// Round lifecycle
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_round",
		Description: "Start a new round. Replaces any round in progress.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_name": map[string]interface{}{
					"type":        "string",
					"description": "Name recorded on the leaderboard",
				},
				"difficulty": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"easy", "medium", "hard"},
					"description": "Level difficulty",
				},
			},
			Required: []string{"player_name", "difficulty"},
		},
	}, c.handleStartRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "resume_round",
		Description: "Resume the saved round with its board, scores and remaining time",
		InputSchema: noArgs,
	}, c.handleResumeRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "saved_game",
		Description: "Show whose round is saved, if any",
		InputSchema: noArgs,
	}, c.handleSavedGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_round",
		Description: "Restart the round with the same player and difficulty",
		InputSchema: noArgs,
	}, c.handleRestartRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "abandon_round",
		Description: "Stop the round and delete the saved game",
		InputSchema: noArgs,
	}, c.handleAbandonRound)

	// Round state and moves
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "round_state",
		Description: "Get the board, scores, countdown and notifications of the current round",
		InputSchema: noArgs,
	}, c.handleRoundState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "click_cell",
		Description: "Click a cell. Empty cells receive a random first-step item; clicking two identical items merges them.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"row": cellProperties["row"],
				"col": cellProperties["col"],
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why you are clicking this cell",
				},
			},
			Required: []string{"row", "col"},
		},
	}, c.handleClickCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "draw",
		Description: "Place a random first-step item on a random empty cell",
		InputSchema: noArgs,
	}, c.handleDraw)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get the name, chain, step and description of the item in a cell",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties,
			Required:   []string{"row", "col"},
		},
	}, c.handleDescribeCell)

	// Leaderboard and configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Show the top scores, for one difficulty or all of them",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"difficulty": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"easy", "medium", "hard"},
					"description": "Difficulty to show (optional, defaults to all)",
				},
			},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_leaderboard",
		Description: "Delete every leaderboard entry",
		InputSchema: noArgs,
	}, c.handleResetLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List levels with board size, time limit and eligible chains",
		InputSchema: noArgs,
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete game rules",
		InputSchema: noArgs,
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads an integer argument; JSON numbers arrive as float64
func intArg(args map[string]interface{}, name string) (int, error) {
	switch v := args[name].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		n, err := v.Int64()
		return int(n), err
	case nil:
		return 0, fmt.Errorf("%s is required", name)
	default:
		return 0, fmt.Errorf("%s must be an integer", name)
	}
}

// Tool handlers

func (c *Client) handleStartRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	playerName, _ := args["player_name"].(string)
	difficulty, _ := args["difficulty"].(string)

	var round service.RoundInfo
	err := c.apiCall(ctx, "POST", "/api/rounds", map[string]string{
		"player_name": playerName,
		"difficulty":  difficulty,
	}, &round)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Round started\n\n" + formatRound(&round)), nil
}

func (c *Client) handleResumeRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var round service.RoundInfo
	if err := c.apiCall(ctx, "POST", "/api/rounds/resume", nil, &round); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Round resumed\n\n" + formatRound(&round)), nil
}

func (c *Client) handleSavedGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var saved service.SavedGameInfo
	if err := c.apiCall(ctx, "GET", "/api/save", nil, &saved); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s (%s)", saved.Message, saved.Difficulty)), nil
}

func (c *Client) handleRestartRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var round service.RoundInfo
	if err := c.apiCall(ctx, "POST", "/api/rounds/current/restart", nil, &round); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Round restarted\n\n" + formatRound(&round)), nil
}

func (c *Client) handleAbandonRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := c.apiCall(ctx, "DELETE", "/api/rounds/current", nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Round abandoned and saved game deleted"), nil
}

func (c *Client) handleRoundState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var round service.RoundInfo
	if err := c.apiCall(ctx, "GET", "/api/rounds/current", nil, &round); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRound(&round)), nil
}

func (c *Client) handleClickCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	row, err := intArg(args, "row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := intArg(args, "col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ClickResult
	err = c.apiCall(ctx, "POST", "/api/rounds/current/click", map[string]int{
		"row": row,
		"col": col,
	}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatClickResult(&result)), nil
}

func (c *Client) handleDraw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result service.DrawResult
	if err := c.apiCall(ctx, "POST", "/api/rounds/current/draw", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	if result.Placed && result.Position != nil && result.Item != nil {
		sb.WriteString(fmt.Sprintf("Drew %s at %s\n\n", result.Item.Name, result.Position))
	} else {
		sb.WriteString(result.Message + "\n\n")
	}
	if result.Round != nil {
		sb.WriteString(formatRound(result.Round))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	row, err := intArg(args, "row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := intArg(args, "col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cell service.CellInfo
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/rounds/current/cells/%d/%d", row, col), nil, &cell); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCell(&cell)), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	difficulty, _ := arguments(request)["difficulty"].(string)

	var boards []*service.LeaderboardInfo
	if difficulty != "" {
		var board service.LeaderboardInfo
		if err := c.apiCall(ctx, "GET", "/api/leaderboard/"+url.PathEscape(difficulty), nil, &board); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		boards = append(boards, &board)
	} else if err := c.apiCall(ctx, "GET", "/api/leaderboard", nil, &boards); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLeaderboards(boards)), nil
}

func (c *Client) handleResetLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := c.apiCall(ctx, "DELETE", "/api/leaderboard", nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Leaderboard reset"), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []*service.LevelInfo
	if err := c.apiCall(ctx, "GET", "/api/levels", nil, &levels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString("Available levels:\n")
	for _, level := range levels {
		sb.WriteString(fmt.Sprintf("- %s (%s): %dx%d board, %d min, %d starting items\n  Chains: %s\n",
			level.Name, level.Difficulty, level.Rows, level.Cols, level.TimeMinutes, level.InitialItems,
			strings.Join(level.Chains, ", ")))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Evolution Merge Game - Complete Instructions

GAME OBJECTIVE:
Evolve items along their chains by merging identical pairs. Every completed
chain awards its points. The round ends when the countdown reaches zero.

BOARD:
- A grid of cells, each empty or holding one item
- Every item is one step of an evolution chain (for example Spark -> Flame -> Blaze)
- Cells are addressed by row and col, both starting at 0

CLICKING:
- Empty cell: a random first-step item appears there
- First occupied cell: it becomes selected
- Same cell again: deselects it
- A different cell with the same item: MERGE. The first cell evolves to the
  next step and the second cell is cleared and refilled with a new item
- A different cell with another item: no match, both are released shortly

CHAINS AND SCORING:
- Merging into the last step of a chain completes it and awards the chain's points
- Higher difficulties add harder, higher-scoring chains
- Two items already at their final step cannot merge

TIMING:
- Merges and rejections resolve after a short delay (under a second)
- While a merge or rejection resolves, occupied cells ignore clicks
- Call round_state to see the board after a merge

DIFFICULTIES:
- easy: small board, easy chains only
- medium: larger board, easy and medium chains
- hard: largest board, every chain

SAVING:
- The round saves itself after every move and every few seconds
- resume_round continues it with the same board, scores and remaining time
- When time runs out the save is deleted and the score goes to the leaderboard

LEADERBOARD:
- Each difficulty keeps its top five scores

STRATEGY:
- Use describe_cell to see how far an item is from the end of its chain
- Keep empty cells free; a full board can only progress through merges
- Focus on chains that are close to completion

Good luck!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatRound(round *service.RoundInfo) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Player: %s | Difficulty: %s | Score: %d | Time left: %s\n",
		round.PlayerName, round.Difficulty, round.PlayerScore, formatSeconds(round.RemainingSeconds)))
	sb.WriteString(fmt.Sprintf("State: %s", round.State))
	if round.Locked {
		sb.WriteString(" (resolving)")
	}
	if round.Selected != nil {
		sb.WriteString(fmt.Sprintf(" | Selected: %s", round.Selected))
	}
	sb.WriteString("\n\n")

	sb.WriteString(formatBoard(round.Board))

	if len(round.ChainScores) > 0 {
		sb.WriteString("\nChains:\n")
		for _, cs := range round.ChainScores {
			sb.WriteString(fmt.Sprintf("- %s (%s, %d pts): %d\n", cs.Chain, cs.Difficulty, cs.Points, cs.Score))
		}
	}

	if len(round.Notifications) > 0 {
		sb.WriteString("\nNotifications:\n")
		for _, n := range round.Notifications {
			sb.WriteString("- " + n.Message + "\n")
		}
	}

	if len(round.TopScores) > 0 {
		sb.WriteString("\nTop scores:\n")
		for i, e := range round.TopScores {
			sb.WriteString(fmt.Sprintf("%d. %s - %d\n", i+1, e.PlayerName, e.Score))
		}
	}

	if round.Ended && round.Result != nil {
		sb.WriteString(fmt.Sprintf("\nGAME OVER: %s\n", round.Result.Message))
	}

	return sb.String()
}

// formatBoard renders the grid with column and row indexes. Empty cells show as "."
func formatBoard(board [][]*engine.Item) string {
	if len(board) == 0 {
		return "(empty board)\n"
	}

	width := 1
	for _, row := range board {
		for _, item := range row {
			if item != nil && len(cellLabel(item)) > width {
				width = len(cellLabel(item))
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("    ")
	for col := range board[0] {
		sb.WriteString(fmt.Sprintf("%-*d ", width, col))
	}
	sb.WriteString("\n")
	for r, row := range board {
		sb.WriteString(fmt.Sprintf("%-3d ", r))
		for _, item := range row {
			label := "."
			if item != nil {
				label = cellLabel(item)
			}
			sb.WriteString(fmt.Sprintf("%-*s ", width, label))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func cellLabel(item *engine.Item) string {
	return fmt.Sprintf("%s:%d", item.Name, item.Step)
}

func formatClickResult(result *service.ClickResult) string {
	var sb strings.Builder
	switch result.Outcome {
	case engine.OutcomePlaced:
		sb.WriteString(fmt.Sprintf("Placed %s at %s", itemName(result.Item), result.Position))
	case engine.OutcomeSelected:
		sb.WriteString(fmt.Sprintf("Selected %s at %s", itemName(result.Item), result.Position))
	case engine.OutcomeDeselected:
		sb.WriteString(fmt.Sprintf("Deselected %s", result.Position))
	case engine.OutcomeMatchResolving:
		sb.WriteString(fmt.Sprintf("Match! %s at %s is merging. Check round_state in a moment.", itemName(result.Item), result.Position))
	case engine.OutcomeNoMatch:
		sb.WriteString(fmt.Sprintf("No match: %s at %s does not match the selection", itemName(result.Item), result.Position))
	default:
		sb.WriteString(fmt.Sprintf("Click at %s ignored", result.Position))
	}
	if result.Message != "" {
		sb.WriteString(" (" + result.Message + ")")
	}
	sb.WriteString("\n\n")
	if result.Round != nil {
		sb.WriteString(formatRound(result.Round))
	}
	return sb.String()
}

func formatCell(cell *service.CellInfo) string {
	if cell.Empty {
		return fmt.Sprintf("Cell (%d,%d) is empty. Clicking it places a random first-step item.", cell.Row, cell.Col)
	}
	next := "final step, cannot merge further"
	if cell.NextStep != "" {
		next = "merges into " + cell.NextStep
	}
	return fmt.Sprintf(`Cell at (%d,%d):
Item: %s
Chain: %s (%s)
Step: %d of %d
Next: %s
Description: %s
Image: %s`,
		cell.Row, cell.Col,
		cell.Name,
		cell.Chain, cell.Difficulty,
		cell.Step, cell.StepCount,
		next,
		cell.Description,
		cell.Image)
}

func formatLeaderboards(boards []*service.LeaderboardInfo) string {
	var sb strings.Builder
	for _, board := range boards {
		sb.WriteString(fmt.Sprintf("%s:\n", strings.ToUpper(string(board.Difficulty))))
		if len(board.Entries) == 0 {
			sb.WriteString("  (no scores yet)\n")
			continue
		}
		for i, e := range board.Entries {
			sb.WriteString(fmt.Sprintf("  %d. %s - %d (%s)\n", i+1, e.PlayerName, e.Score, e.Date.Format("2006-01-02")))
		}
	}
	return sb.String()
}

func formatSeconds(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func itemName(item *engine.Item) string {
	if item == nil {
		return "item"
	}
	return item.Name
}
