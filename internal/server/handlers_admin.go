package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio-site/internal/db"
	"github.com/jonathan/portfolio-site/internal/server/middleware"
	"github.com/jonathan/portfolio-site/internal/types"
)

// ListMessagesResponse represents the response for listing contact messages
type ListMessagesResponse struct {
	Messages []db.ContactMessage `json:"messages"`
	Count    int                 `json:"count"`
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
}

// parseQueryInt parses an integer query parameter with a default value and max limit
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// handleAdminLogin exchanges the admin password for a bearer token.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if !s.AdminEnabled() {
		s.errorFromErr(w, &ErrAdminDisabled{})
		return
	}

	var req types.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "password", Message: "required"})
		return
	}

	if !s.passwords.VerifyAdmin(req.Password) {
		log.Printf("[admin] Failed login from %s", s.extractClientID(r))
		s.errorFromErr(w, &ErrInvalidCredentials{})
		return
	}

	token, expiresAt, err := s.jwtService.GenerateToken(AdminSubject)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// handleListMessages lists stored submissions with optional status/email filters and pagination
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	filters := db.ContactMessageFilters{
		Email:  r.URL.Query().Get("email"),
		Limit:  parseQueryInt(r, "limit", db.DefaultListLimit, db.MaxListLimit),
		Offset: parseQueryInt(r, "offset", 0, 0),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		if !db.IsValidStatus(status) {
			s.errorFromErr(w, &ErrValidation{Field: "status", Message: "must be one of success, rejected, unreachable"})
			return
		}
		filters.Status = status
	}

	messages, err := s.messages.ListContactMessages(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if messages == nil {
		messages = []db.ContactMessage{}
	}

	s.jsonResponse(w, http.StatusOK, ListMessagesResponse{
		Messages: messages,
		Count:    len(messages),
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	})
}

// handleGetMessage retrieves a stored submission by its ID
func (s *Server) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	message, err := s.messages.GetContactMessage(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if message == nil {
		s.errorFromErr(w, &ErrNotFound{Resource: "contact message", ID: idStr})
		return
	}

	if subject, err := middleware.GetSubject(r); err == nil {
		log.Printf("[admin] %s read message %s", subject, id)
	}
	s.jsonResponse(w, http.StatusOK, message)
}

// handleMessageStats returns the number of stored submissions per outcome
func (s *Server) handleMessageStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.messages.CountContactMessagesByStatus(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if counts == nil {
		counts = make(map[string]int, len(db.ValidStatuses))
	}
	for _, status := range db.ValidStatuses {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	s.jsonResponse(w, http.StatusOK, counts)
}
