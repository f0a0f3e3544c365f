package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"chairs/internal/app"
	"chairs/internal/domain"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateTableResponse is the response for table creation
type CreateTableResponse struct {
	RoomCode  string         `json:"roomCode"`
	WatchLink string         `json:"watchLink"`
	State     app.StateView  `json:"state"`
	Palette   map[int]string `json:"palette"`
}

// GetTableResponse is the response for getting table info
type GetTableResponse struct {
	RoomCode    string        `json:"roomCode"`
	ClientCount int           `json:"clientCount"`
	State       app.StateView `json:"state"`
}

// PositionsResponse is the response for the position poll
type PositionsResponse struct {
	Phase     domain.Phase           `json:"phase"`
	Progress  float64                `json:"progress"`
	Positions []domain.TokenPosition `json:"positions"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveTables      int `json:"activeTables"`
	TotalParticipants int `json:"totalParticipants"`
	TotalClients      int `json:"totalClients"`
}

// handleCreateTable handles POST /api/tables
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	session, err := s.hub.CreateTable()
	if err != nil {
		s.logger.Error("failed to create table", "error", err)
		s.sendError(w, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create table")
		return
	}

	// Build watch link
	scheme := "ws"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "wss"
	}
	watchLink := scheme + "://" + r.Host + "/ws?roomCode=" + session.GetRoomCode()

	state := session.State()
	s.sendJSON(w, http.StatusCreated, &CreateTableResponse{
		RoomCode:  session.GetRoomCode(),
		WatchLink: watchLink,
		State:     state,
		Palette:   app.PaletteFor(session.Palette(), len(state.Participants)),
	})
}

// handleGetTable handles GET /api/tables/{roomCode}
func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupTable(w, r)
	if !ok {
		return
	}

	s.sendSuccess(w, &GetTableResponse{
		RoomCode:    session.GetRoomCode(),
		ClientCount: session.GetClientCount(),
		State:       session.State(),
	})
}

// handleGetPositions handles GET /api/tables/{roomCode}/positions
func (s *Server) handleGetPositions(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupTable(w, r)
	if !ok {
		return
	}

	state := session.State()
	s.sendSuccess(w, &PositionsResponse{
		Phase:     state.Phase,
		Progress:  state.Progress,
		Positions: state.Positions,
	})
}

// handleIntent handles POST /api/tables/{roomCode}/{intent}
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupTable(w, r)
	if !ok {
		return
	}

	var err error
	switch intent := r.PathValue("intent"); intent {
	case "start":
		err = session.Start()
	case "stop":
		err = session.Stop()
	case "toggle":
		err = session.Toggle()
	case "reset":
		err = session.Reset()
	default:
		s.sendError(w, http.StatusNotFound, "UNKNOWN_INTENT", "Unknown intent: "+intent)
		return
	}

	if err != nil {
		s.sendAppError(w, err)
		return
	}

	s.sendSuccess(w, session.State())
}

// handleDeleteTable handles DELETE /api/tables/{roomCode}
func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupTable(w, r)
	if !ok {
		return
	}

	s.hub.DeleteSession(session.GetRoomCode())
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		ActiveTables:      s.hub.GetSessionCount(),
		TotalParticipants: s.hub.GetTotalParticipantCount(),
		TotalClients:      s.hub.GetTotalClientCount(),
	})
}

// lookupTable resolves the {roomCode} path value, writing the error response when it fails
func (s *Server) lookupTable(w http.ResponseWriter, r *http.Request) (*app.GameSession, bool) {
	roomCode := r.PathValue("roomCode")
	if roomCode == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_ROOM_CODE", "Room code is required")
		return nil, false
	}

	session, err := s.hub.GetSession(strings.ToUpper(roomCode))
	if err != nil {
		s.sendAppError(w, err)
		return nil, false
	}

	return session, true
}

// sendAppError maps engine and hub errors onto API error responses
func (s *Server) sendAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrTableNotFound):
		s.sendError(w, http.StatusNotFound, "TABLE_NOT_FOUND", "Table not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		s.sendError(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, domain.ErrGameOver):
		s.sendError(w, http.StatusConflict, "GAME_OVER", err.Error())
	case errors.Is(err, app.ErrSessionClosed):
		s.sendError(w, http.StatusGone, "SESSION_CLOSED", err.Error())
	default:
		s.logger.Error("unexpected error", "error", err)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	s.sendJSON(w, http.StatusOK, data)
}

// sendJSON sends a successful JSON response with the given status
func (s *Server) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
