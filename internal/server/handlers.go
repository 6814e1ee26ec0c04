package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/raqiba/Weather-ChatBot/internal/assistant"
	"github.com/raqiba/Weather-ChatBot/internal/chat"
	"github.com/raqiba/Weather-ChatBot/internal/compose"
	"github.com/raqiba/Weather-ChatBot/internal/session"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int    `json:"uptime_seconds"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type SessionResponse struct {
	ID uuid.UUID `json:"id"`
}

type MessageList struct {
	Messages []chat.Message `json:"messages"`
}

type MessageRequest struct {
	// Longer queries would be cut short in the classification prompt.
	Content string `json:"content" validate:"required,max=500"`
}

// ReplyResponse carries the rendered answer next to the structured record it
// was rendered from.
type ReplyResponse struct {
	Kind     compose.Kind            `json:"kind"`
	Text     string                  `json:"text"`
	Current  *compose.CurrentRecord  `json:"current,omitempty"`
	Forecast *compose.ForecastRecord `json:"forecast,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       s.version,
		UptimeSeconds: int(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openAPIDoc)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id := s.assistant.Load().Sessions().Create()
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := s.assistant.Load().Sessions().Delete(id); err != nil {
		s.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	history, err := s.assistant.Load().Sessions().History(id)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	if history == nil {
		history = []chat.Message{}
	}
	writeJSON(w, http.StatusOK, MessageList{Messages: history})
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var body MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}
	if err := s.validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, describeValidation(err))
		return
	}

	reply, err := s.assistant.Load().Ask(r.Context(), id, body.Content)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ReplyResponse{
		Kind:     reply.Response.Kind,
		Text:     reply.Text,
		Current:  reply.Response.Current,
		Forecast: reply.Response.Forecast,
	})
}

// sessionID binds the {id} path segment, writing a 400 when it is not a UUID.
func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", r.PathValue("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid session id: %v", err))
		return uuid.Nil, false
	}
	return id, true
}

// describeValidation turns validator errors into one line per field.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, assistant.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Code: status, Message: msg})
}
