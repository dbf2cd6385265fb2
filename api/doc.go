// Package api provides the HTTP REST API for the evolution merge game.
//
// Endpoints:
//
// Round Lifecycle:
//   - POST /api/rounds - Start a round {"player_name": "Ada", "difficulty": "easy"}
//   - POST /api/rounds/resume - Resume the saved round
//   - GET /api/rounds/current - Get the active round
//   - DELETE /api/rounds/current - Abandon the round and clear the save
//   - POST /api/rounds/current/restart - Start over with the same player and difficulty
//
// Moves:
//   - POST /api/rounds/current/click - Click a cell {"row": 0, "col": 1}
//   - POST /api/rounds/current/draw - Place a random item on a random empty cell
//   - GET /api/rounds/current/cells/{row}/{col} - Tooltip data of one cell
//
// Saved Game, Levels and Leaderboard:
//   - GET /api/save - Who the saved round belongs to
//   - GET /api/levels - Configured levels and their eligible chains
//   - GET /api/leaderboard - Every difficulty's top five
//   - GET /api/leaderboard/{difficulty} - One difficulty's top five
//   - DELETE /api/leaderboard - Empty every list
//
// Other:
//   - GET /health - Liveness
//   - GET /ws - Event stream (see transport/websocket)
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status derived from the service
// error: 400 for invalid input, 404 when there is no round or saved game,
// 409 for moves after the countdown expired and 500 otherwise.
//
//	{"error": "no active round"}
package api
