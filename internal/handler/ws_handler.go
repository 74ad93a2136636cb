package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prepnest/prepnest-backend/internal/assessment"
	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
	ws "github.com/prepnest/prepnest-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// wsConn wraps a WebSocket connection with a write lock, since graded events
// from the expiry timer race with replies from the read loop.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) write(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ws.WriteTyped(w.conn, v)
}

func (w *wsConn) writeError(code response.ErrCode) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ws.WriteError(w.conn, string(code), response.GetMessage(code))
}

// WSHandler handles the WebSocket interview test stream.
type WSHandler struct {
	interviewService *service.InterviewService
	log              zerolog.Logger
	upgrader         websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(interviewService *service.InterviewService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		interviewService: interviewService,
		log:              log.With().Str("component", "ws_handler").Logger(),
		upgrader:         buildUpgrader(allowedOrigins),
	}
}

// InterviewStream godoc
// WS /ws/v1/student/interview/attempts/:id/stream
// Upgrades to WebSocket for live answer saving, activity signals, and grading.
func (h *WSHandler) InterviewStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attempt ID"})
		return
	}

	userID := claims.UserID

	// Validate ownership (and rehydrate if needed) before upgrading.
	if _, err := h.interviewService.State(c.Request.Context(), attemptID, userID); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrAttemptNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrAttemptSubmitted):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := &wsConn{conn: raw}
	defer raw.Close()

	wsLog := h.log.With().
		Int("user_id", userID).
		Str("attempt_id", attemptID.String()).
		Logger()

	wsLog.Info().Msg("Student connected")

	// Push the graded event if the countdown expires mid-connection.
	done := make(chan struct{})
	defer close(done)
	if graded := h.interviewService.AutoGraded(attemptID, userID); graded != nil {
		go func() {
			select {
			case bundle, ok := <-graded:
				if !ok {
					return
				}
				_ = conn.write(gradedResponse(bundle))
				wsLog.Info().Int("score", bundle.Score).Msg("Time expired, auto-graded")
			case <-done:
			}
		}()
	}

	ctx := context.Background()

	for {
		frame, err := ws.ReadRaw(raw)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var envelope ws.RequestEnvelope
		if err := json.Unmarshal(frame, &envelope); err != nil {
			_ = conn.writeError(response.ErrInvalidPayload)
			continue
		}

		switch envelope.Action {
		case ws.ActionAnswer:
			h.handleAnswer(ctx, conn, frame, attemptID, userID)
		case ws.ActionSignal:
			h.handleSignal(ctx, conn, frame, attemptID, userID)
		case ws.ActionSubmit:
			if finished := h.handleSubmit(ctx, conn, wsLog, frame, attemptID, userID); finished {
				return
			}
		case ws.ActionPing:
			_ = conn.write(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(envelope.Action)).Msg("Unknown action")
			_ = conn.writeError(response.ErrInvalidPayload)
		}
	}
}

// handleAnswer decodes the frame as a full answer request and records it.
func (h *WSHandler) handleAnswer(ctx context.Context, conn *wsConn, frame []byte, attemptID uuid.UUID, userID int) {
	var msg ws.AnswerRequest
	if err := json.Unmarshal(frame, &msg); err != nil {
		_ = conn.writeError(response.ErrInvalidPayload)
		return
	}

	if _, err := uuid.Parse(msg.QuestionID); err != nil {
		_ = conn.writeError(response.ErrInvalidAnswer)
		return
	}

	unanswered, err := h.interviewService.RecordAnswer(ctx, attemptID, userID, msg.QuestionID, msg.Option)
	if err != nil {
		_ = conn.writeError(wsErrCode(err))
		return
	}

	_ = conn.write(ws.SavedResponse{
		Event:      ws.EventSaved,
		QuestionID: msg.QuestionID,
		Unanswered: unanswered,
	})
}

func (h *WSHandler) handleSignal(ctx context.Context, conn *wsConn, frame []byte, attemptID uuid.UUID, userID int) {
	var msg ws.SignalRequest
	if err := json.Unmarshal(frame, &msg); err != nil {
		_ = conn.writeError(response.ErrInvalidPayload)
		return
	}

	count, err := h.interviewService.ReportSignal(ctx, attemptID, userID, msg.Signal)
	if err != nil {
		_ = conn.writeError(wsErrCode(err))
		return
	}

	_ = conn.write(ws.WarningResponse{Event: ws.EventWarning, Interruptions: count})
}

// handleSubmit grades the attempt. Returns true when the attempt finished and
// the stream should close.
func (h *WSHandler) handleSubmit(ctx context.Context, conn *wsConn, wsLog zerolog.Logger, frame []byte, attemptID uuid.UUID, userID int) bool {
	var msg ws.SubmitRequest
	if err := json.Unmarshal(frame, &msg); err != nil {
		_ = conn.writeError(response.ErrInvalidPayload)
		return false
	}

	bundle, err := h.interviewService.Submit(ctx, attemptID, userID, msg.ConfirmUnanswered)
	if err != nil {
		if errors.Is(err, service.ErrUnansweredRemain) {
			_ = conn.writeError(response.ErrUnansweredRemain)
			return false
		}
		_ = conn.writeError(wsErrCode(err))
		return false
	}

	wsLog.Info().
		Int("score", bundle.Score).
		Int("total", bundle.Total).
		Int("interruptions", bundle.Interruptions).
		Msg("Attempt submitted and graded")

	_ = conn.write(gradedResponse(*bundle))
	return true
}

func gradedResponse(bundle service.ResultBundle) ws.GradedResponse {
	return ws.GradedResponse{
		Event:         ws.EventGraded,
		Score:         bundle.Score,
		Total:         bundle.Total,
		Percentage:    bundle.Percentage,
		Grade:         bundle.Grade,
		TimeSpent:     bundle.TimeSpentSeconds,
		Interruptions: bundle.Interruptions,
	}
}

func wsErrCode(err error) response.ErrCode {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		return response.ErrAttemptNotFound
	case errors.Is(err, service.ErrAttemptSubmitted):
		return response.ErrAttemptSubmitted
	case errors.Is(err, service.ErrInvalidSignal):
		return response.ErrInvalidPayload
	case errors.Is(err, assessment.ErrUnknownQuestion), errors.Is(err, assessment.ErrOptionOutOfRange):
		return response.ErrInvalidAnswer
	default:
		return response.ErrInternal
	}
}
