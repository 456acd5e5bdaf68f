package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/services"
	"symptom-checker-server/internal/utils"
)

// SessionHandler handles symptom checker session requests.
type SessionHandler struct {
	Sessions *services.SessionStore
	Matcher  *services.Matcher
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *services.SessionStore, matcher *services.Matcher) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Matcher: matcher}
}

// CreateSessionRequest represents the request body for starting a session.
type CreateSessionRequest struct {
	Age *float64 `json:"age" binding:"required"`
	Sex string   `json:"sex" binding:"required"`
}

// CreateSessionResponse is returned when a session starts.
type CreateSessionResponse struct {
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SaveSymptomsRequest replaces the session's selection.
type SaveSymptomsRequest struct {
	SelectedSymptoms []string `json:"selectedSymptoms" binding:"required"`
}

// MatchRequest carries the optional overrides of a match run.
type MatchRequest struct {
	SelectedSymptoms []string `json:"selectedSymptoms"`
	Age              *float64 `json:"age"`
	Sex              string   `json:"sex"`
}

// bindOptionalJSON binds a body that may be absent entirely.
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request payload: "+utils.FormatValidationError(err))
		return false
	}
	return true
}

// CreateSession handles starting a new anonymous session.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	session, err := h.Sessions.Create(c.Request.Context(), *req.Age, models.Sex(req.Sex))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.Created(c, "Session created successfully", CreateSessionResponse{
		SessionID: session.SessionID,
		ExpiresAt: session.ExpiresAt,
	})
}

// SaveSymptoms handles replacing a session's selected symptoms.
func (h *SessionHandler) SaveSymptoms(c *gin.Context) {
	var req SaveSymptomsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	session, err := h.Sessions.ReplaceSelection(c.Request.Context(), c.Param("sessionId"), req.SelectedSymptoms)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.Success(c, "Symptoms saved successfully", gin.H{
		"sessionId":        session.SessionID,
		"selectedSymptoms": session.SelectedSymptoms,
	})
}

// Match handles scoring conditions against the session's selection.
func (h *SessionHandler) Match(c *gin.Context) {
	var req MatchRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	conditions, err := h.Matcher.Match(c.Request.Context(), services.MatchRequest{
		SessionID:        c.Param("sessionId"),
		SelectedSymptoms: req.SelectedSymptoms,
		Age:              req.Age,
		Sex:              models.Sex(req.Sex),
	})
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.Success(c, "Conditions matched successfully", gin.H{"conditions": conditions})
}
