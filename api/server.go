package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/wricardo/evolution-merge-game/game/config"
	"github.com/wricardo/evolution-merge-game/game/engine"
	"github.com/wricardo/evolution-merge-game/game/service"
	"github.com/wricardo/evolution-merge-game/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	logger  *zap.Logger
}

// NewServer creates a new API server. hub may be nil to disable /ws.
func NewServer(gameService service.GameService, hub *websocket.Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  logger,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes. They hang off the root router so
// a method mismatch answers 405 instead of 404.
func (s *Server) setupRoutes() {
	r := s.router

	// Round lifecycle
	r.HandleFunc("/api/rounds", s.handleStartRound).Methods("POST")
	r.HandleFunc("/api/rounds/resume", s.handleResumeRound).Methods("POST")
	r.HandleFunc("/api/rounds/current", s.handleGetRound).Methods("GET")
	r.HandleFunc("/api/rounds/current", s.handleAbandonRound).Methods("DELETE")
	r.HandleFunc("/api/rounds/current/restart", s.handleRestartRound).Methods("POST")

	// Moves
	r.HandleFunc("/api/rounds/current/click", s.handleClick).Methods("POST")
	r.HandleFunc("/api/rounds/current/draw", s.handleDraw).Methods("POST")
	r.HandleFunc("/api/rounds/current/cells/{row}/{col}", s.handleDescribeCell).Methods("GET")

	// Saved game
	r.HandleFunc("/api/save", s.handleSavedGame).Methods("GET")

	// Configuration
	r.HandleFunc("/api/levels", s.handleListLevels).Methods("GET")

	// Leaderboard
	r.HandleFunc("/api/leaderboard", s.handleGetLeaderboards).Methods("GET")
	r.HandleFunc("/api/leaderboard", s.handleResetLeaderboard).Methods("DELETE")
	r.HandleFunc("/api/leaderboard/{difficulty}", s.handleGetLeaderboard).Methods("GET")

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket)
}

// Router exposes the router so callers can mount extra handlers
func (s *Server) Router() *mux.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrUnknownDifficulty),
		errors.Is(err, service.ErrInvalidPlayerName),
		errors.Is(err, service.ErrCellOutOfBounds):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNoActiveRound),
		errors.Is(err, service.ErrNoSavedGame),
		errors.Is(err, config.ErrLevelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrRoundOver):
		status = http.StatusConflict
	}
	respondError(w, status, err.Error())
}

// Round Handlers

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerName string `json:"player_name"`
		Difficulty string `json:"difficulty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	round, err := s.service.StartRound(r.Context(), req.PlayerName, req.Difficulty)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, round)
}

func (s *Server) handleResumeRound(w http.ResponseWriter, r *http.Request) {
	round, err := s.service.ResumeRound(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, round)
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	round, err := s.service.GetRound(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, round)
}

func (s *Server) handleAbandonRound(w http.ResponseWriter, r *http.Request) {
	if err := s.service.AbandonRound(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Round abandoned",
	})
}

func (s *Server) handleRestartRound(w http.ResponseWriter, r *http.Request) {
	round, err := s.service.RestartRound(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, round)
}

// Move Handlers

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Row *int `json:"row"`
		Col *int `json:"col"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Row == nil || req.Col == nil {
		respondError(w, http.StatusBadRequest, "row and col are required")
		return
	}

	result, err := s.service.Click(r.Context(), *req.Row, *req.Col)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.logger.Info("Click",
		zap.Int("row", *req.Row),
		zap.Int("col", *req.Col),
		zap.String("outcome", string(result.Outcome)))

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Draw(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDescribeCell(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	row, rowErr := strconv.Atoi(vars["row"])
	col, colErr := strconv.Atoi(vars["col"])
	if rowErr != nil || colErr != nil {
		respondError(w, http.StatusBadRequest, "row and col must be integers")
		return
	}

	cell, err := s.service.DescribeCell(r.Context(), row, col)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cell)
}

func (s *Server) handleSavedGame(w http.ResponseWriter, r *http.Request) {
	saved, err := s.service.SavedGame(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, saved)
}

// Configuration Handlers

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.service.ListLevels(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, levels)
}

// Leaderboard Handlers

func (s *Server) handleGetLeaderboards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.service.GetLeaderboards(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, boards)
}

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.GetLeaderboard(r.Context(), mux.Vars(r)["difficulty"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleResetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ResetLeaderboard(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Leaderboard reset",
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "WebSocket not available", http.StatusNotFound)
		return
	}

	// Greet new clients with the current round when there is one
	var greeting *websocket.Message
	if round, err := s.service.GetRound(r.Context()); err == nil {
		greeting = websocket.MessageFromEvent(service.Event{
			Type:    service.EventState,
			RoundID: round.ID,
			Round:   round,
		})
	}

	s.hub.ServeWS(w, r, greeting)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
