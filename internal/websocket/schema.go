package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer Action = "answer"
	ActionSignal Action = "signal"
	ActionSubmit Action = "submit"
	ActionPing   Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AnswerRequest is sent by the client to record a single answer.
type AnswerRequest struct {
	Action     Action `json:"action"`
	QuestionID string `json:"question_id"`
	Option     int    `json:"option"`
}

// SignalRequest is sent by the client to report a visibility or focus change.
type SignalRequest struct {
	Action Action `json:"action"`
	Signal string `json:"signal"` // hidden, visible, blur, focus
}

// SubmitRequest is sent by the client to finish and grade the attempt.
// ConfirmUnanswered must be true when unanswered questions remain.
type SubmitRequest struct {
	Action            Action `json:"action"`
	ConfirmUnanswered bool   `json:"confirm_unanswered"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventSaved   Event = "saved"
	EventWarning Event = "warning"
	EventGraded  Event = "graded"
	EventPong    Event = "pong"
)

type SavedResponse struct {
	Event      Event  `json:"event"`
	QuestionID string `json:"question_id"`
	Unanswered int    `json:"unanswered"`
}

// WarningResponse notifies the client of its updated interruption count.
type WarningResponse struct {
	Event         Event `json:"event"`
	Interruptions int   `json:"interruptions"`
}

type GradedResponse struct {
	Event         Event  `json:"event"`
	Score         int    `json:"score"`
	Total         int    `json:"total"`
	Percentage    int    `json:"percentage"`
	Grade         string `json:"grade"`
	TimeSpent     int    `json:"time_spent_seconds"`
	Interruptions int    `json:"interruptions"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
