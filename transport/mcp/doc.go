// Package mcp exposes the Evolution Merge Game to AI agents over the
// Model Context Protocol.
//
// The client is a thin proxy: every tool call becomes a REST request against
// the api package and the JSON response is rendered as plain text. The same
// MCP server serves both transports:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp, handled with GetMCPServer().HandleMessage
//
// Tools:
//   - start_round, resume_round, saved_game, restart_round, abandon_round
//   - round_state, click_cell, draw, describe_cell
//   - leaderboard, reset_leaderboard, list_levels
//   - game_instructions
//
// Board cells are rendered as "Name:step" with "." for empty cells.
package mcp
